// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adts

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cnotch/latmdemux/av/codec"
	"github.com/cnotch/latmdemux/av/codec/aac"
	"github.com/cnotch/latmdemux/stats"
)

// ErrMediaType 只接受音频帧
var ErrMediaType = errors.New("adts: not an audio frame")

// Writer 把带 ADTS 头的 AAC 帧依次写入 io.Writer，得到可直接播放的 .aac 流
type Writer struct {
	w        io.Writer
	flow     stats.Flow
	meta     *codec.AudioMeta
	duration int64
}

// NewWriter 创建 ADTS 写入器，flow 可为 nil
func NewWriter(w io.Writer, flow stats.Flow) *Writer {
	if flow == nil {
		flow = stats.NopFlow
	}
	return &Writer{w: w, flow: flow}
}

// WriteFrame 校验 ADTS 头并写出整帧
func (w *Writer) WriteFrame(frame *codec.Frame) error {
	if frame.MediaType != codec.MediaTypeAudio {
		return ErrMediaType
	}
	h, err := aac.ParseADTSHeader(frame.Payload)
	if err != nil {
		return fmt.Errorf("adts: %w", err)
	}
	if h.FrameLength() != len(frame.Payload) {
		return fmt.Errorf("adts: header frame length %d, frame has %d bytes",
			h.FrameLength(), len(frame.Payload))
	}

	if _, err = w.w.Write(frame.Payload); err != nil {
		return err
	}
	w.flow.AddOut(int64(len(frame.Payload)))
	w.duration += frame.Duration
	if w.meta == nil {
		w.meta = &codec.AudioMeta{
			Codec:      "aac",
			Profile:    h.Profile(),
			SampleRate: h.SampleRate(),
			Channels:   int(h.Channels()),
			Config:     h.ToAsc(),
		}
	}
	return nil
}

// Meta 首帧 ADTS 头描述的音频参数，尚未写出帧时返回 nil
func (w *Writer) Meta() *codec.AudioMeta {
	return w.meta
}

// Duration 已写出帧的总时长
func (w *Writer) Duration() time.Duration {
	return time.Duration(w.duration)
}

// Split 把 ADTS 流拆分为帧，返回的切片引用 data
func Split(data []byte) (frames [][]byte, err error) {
	for offset := 0; offset < len(data); {
		h, err := aac.ParseADTSHeader(data[offset:])
		if err != nil {
			return frames, fmt.Errorf("adts: frame %d at offset %d: %w", len(frames), offset, err)
		}
		end := offset + h.FrameLength()
		if h.FrameLength() < aac.ADTSHeaderSize || end > len(data) {
			return frames, fmt.Errorf("adts: frame %d at offset %d: length %d exceeds input",
				len(frames), offset, h.FrameLength())
		}
		frames = append(frames, data[offset:end])
		offset = end
	}
	return frames, nil
}
