// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scan

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// 扫描器
var (
	// 分号分割，如 SDP fmtp 参数
	Semicolon = NewScanner(';', unicode.IsSpace)
)

// Scanner 按分隔符逐个提取 token
type Scanner struct {
	delim    rune
	delimLen int
	trimFunc func(r rune) bool
}

// NewScanner 创建扫描器
func NewScanner(delim rune, trimFunc func(r rune) bool) Scanner {
	if trimFunc == nil {
		trimFunc = func(r rune) bool { return false }
	}
	return Scanner{
		delim:    delim,
		delimLen: utf8.RuneLen(delim),
		trimFunc: trimFunc,
	}
}

// Scan 返回第一个 token 及剩余部分，没有分隔符时 continueScan 为 false
func (s Scanner) Scan(str string) (advance, token string, continueScan bool) {
	i := strings.IndexRune(str, s.delim)
	if i < 0 {
		return "", strings.TrimFunc(str, s.trimFunc), false
	}
	return strings.TrimFunc(str[i+s.delimLen:], s.trimFunc), strings.TrimFunc(str[:i], s.trimFunc), true
}
