// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package latm

import (
	"fmt"

	"github.com/cnotch/latmdemux/av/codec/aac"
	"github.com/cnotch/latmdemux/utils/bits"
)

// 错误分类，使用 errors.Is 判断
var (
	// ErrTruncatedStream 读取越过输入末尾
	ErrTruncatedStream = bits.ErrTruncated
	// ErrUnsupportedFormat 结构可识别但不支持解码
	ErrUnsupportedFormat = aac.ErrUnsupported
)

// Error locates a failure in the input. Frames emitted before the failing
// element have already been written.
type Error struct {
	Element int   // zero based index of the failing AudioMuxElement
	Offset  int   // input byte offset of the failing element
	Err     error // underlying cause
}

func (e *Error) Error() string {
	return fmt.Sprintf("latm: element %d at offset %d: %v", e.Element, e.Offset, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

func unsupported(format string, args ...interface{}) error {
	return fmt.Errorf("latm: "+format+": %w", append(args, ErrUnsupportedFormat)...)
}

func truncated(format string, args ...interface{}) error {
	return fmt.Errorf("latm: "+format+": %w", append(args, ErrTruncatedStream)...)
}
