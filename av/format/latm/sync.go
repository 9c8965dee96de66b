// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package latm

import "bytes"

// 某些编码器输出的 LATM 省略了每个配置元素前的 4 个字节
var (
	shortSync = []byte{0xb0, 0x90, 0x80, 0x03}
	fullSync  = []byte{0x47, 0xfc, 0x00, 0x00, 0xb0, 0x90, 0x80, 0x03}
)

// NeedsSyncFix reports whether data looks like the output of the encoder
// variant that drops the leading bytes of its configuration elements.
func NeedsSyncFix(data []byte) bool {
	return len(data) >= 2 && data[0] == 0xb0 && data[1] == 0x90
}

// FixSync restores the dropped bytes by rewriting every B0 90 80 03 into
// 47 FC 00 00 B0 90 80 03. data is not modified.
func FixSync(data []byte) []byte {
	return bytes.ReplaceAll(data, shortSync, fullSync)
}
