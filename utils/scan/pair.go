// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scan

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// EqualPair 扫描 K=V 这类形式的 Pair 字串，去掉空白和引号
var EqualPair = NewPair('=', func(r rune) bool {
	return unicode.IsSpace(r) || r == '"'
})

// Pair 从字串扫描 Key Value 值
type Pair struct {
	delim    rune
	delimLen int
	trimFunc func(r rune) bool
}

// NewPair 新建 Pair 扫描器
func NewPair(delim rune, trimFunc func(r rune) bool) Pair {
	if trimFunc == nil {
		trimFunc = func(r rune) bool { return false }
	}
	return Pair{
		delim:    delim,
		delimLen: utf8.RuneLen(delim),
		trimFunc: trimFunc,
	}
}

// Scan 提取 K V
func (p Pair) Scan(s string) (key, value string, found bool) {
	i := strings.IndexRune(s, p.delim)
	if i < 0 {
		return s, "", false
	}
	return strings.TrimFunc(s[:i], p.trimFunc),
		strings.TrimFunc(s[i+p.delimLen:], p.trimFunc), true
}
