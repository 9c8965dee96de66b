// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package utils

import (
	"path/filepath"
	"strings"
)

// OutputName 由输入文件名生成输出文件名，位于当前目录。
// 例如 /data/a.latm 加后缀 _conv.aac 得到 a_conv.aac
func OutputName(input, suffix string) string {
	base := filepath.Base(input)
	if base == "." || base == string(filepath.Separator) {
		base = "out"
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + suffix
}
