// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"
	"strings"
)

// MediaType 媒体类型
type MediaType int

// 媒体类型常量
const (
	MediaTypeUnknown MediaType = iota - 1
	MediaTypeVideo
	MediaTypeAudio
)

// String returns a lower-case ASCII representation of the media type.
func (mt MediaType) String() string {
	switch mt {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// MarshalText marshals the MediaType to text.
func (mt MediaType) MarshalText() ([]byte, error) {
	return []byte(mt.String()), nil
}

// UnmarshalText unmarshals text to a MediaType.
func (mt *MediaType) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "video":
		*mt = MediaTypeVideo
	case "audio":
		*mt = MediaTypeAudio
	default:
		return fmt.Errorf("unrecognized media type: %q", text)
	}
	return nil
}

// Frame 完整的一帧，音频为带 ADTS 头的 AAC access unit
type Frame struct {
	MediaType        // 媒体类型
	Dts       int64  // DTS，单位为 ns
	Pts       int64  // PTS，单位为 ns
	Duration  int64  // 帧时长，单位为 ns
	Payload   []byte // 媒体数据载荷
}

// FrameWriter 包装 WriteFrame 方法的接口
type FrameWriter interface {
	WriteFrame(frame *Frame) error
}

// FrameWriterFunc 包装函数以便它满足 FrameWriter 接口
type FrameWriterFunc func(frame *Frame) error

// WriteFrame calls f(frame).
func (f FrameWriterFunc) WriteFrame(frame *Frame) error {
	return f(frame)
}
