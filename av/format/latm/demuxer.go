// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package latm

import (
	"errors"
	"fmt"
	"time"

	"github.com/cnotch/latmdemux/av/codec"
	"github.com/cnotch/latmdemux/av/codec/aac"
	"github.com/cnotch/latmdemux/stats"
	"github.com/cnotch/latmdemux/utils/bits"
	"github.com/cnotch/xlog"
)

// payloadBuffer 一个流在当前元素所有子帧中累积的载荷
type payloadBuffer struct {
	data []byte
	open bool // 最后一个 chunk 的 AuEndFlag 为 0
}

func (b *payloadBuffer) reset() {
	b.data = b.data[:0]
	b.open = false
}

// chunk PayloadLengthInfo 中的一项
type chunk struct {
	stream *Stream
	length int // 字节
	auEnd  bool
}

// Demuxer 从 LATM AudioMuxElement 序列中提取 AAC access unit，并封装为 ADTS 帧
type Demuxer struct {
	w          codec.FrameWriter
	logger     *xlog.Logger
	flow       stats.Flow
	header     HeaderMode
	sampleRate int
	stream     int

	smc       *StreamMuxConfig // 当前配置，第一个配置之前为 nil
	outOfBand bool
	configs   int // 已解析的 StreamMuxConfig 个数
	elements  int // 已解析的 AudioMuxElement 个数
	fixed     aac.ADTSHeader
	buffers   []payloadBuffer
	chunks    []chunk
	pts       int64 // 下一帧的 PTS，单位为 ns
	pending   bool  // 上一个元素结束时 access unit 未结束
}

// NewDemuxer 创建 Demuxer，frame 输出到 w
func NewDemuxer(w codec.FrameWriter, options ...Option) (*Demuxer, error) {
	d := &Demuxer{
		w:          w,
		logger:     xlog.L(),
		flow:       stats.NopFlow,
		header:     HeaderFixed,
		sampleRate: 44100,
	}
	for _, option := range options {
		option.apply(d)
	}

	switch d.sampleRate {
	case 44100:
		d.fixed = aac.NewADTSHeader(aac.ProfileLow, aac.SampleRate44100, aac.ChannelStereo, 0)
	case 48000:
		d.fixed = aac.NewADTSHeader(aac.ProfileLow, aac.SampleRate48000, aac.ChannelStereo, 0)
	default:
		return nil, fmt.Errorf("latm: fixed ADTS header sample rate %d, want 44100 or 48000", d.sampleRate)
	}
	if d.stream < 0 {
		return nil, fmt.Errorf("latm: negative stream index %d", d.stream)
	}
	if d.smc != nil {
		d.setConfig(d.smc)
	}
	return d, nil
}

// Config returns the live StreamMuxConfig, nil before the first one.
func (d *Demuxer) Config() *StreamMuxConfig { return d.smc }

// Elements returns the number of AudioMuxElements decoded so far.
func (d *Demuxer) Elements() int { return d.elements }

// Demux decodes data as a back to back sequence of AudioMuxElements, each
// starting at the byte following the previous one.
func (d *Demuxer) Demux(data []byte) error {
	for offset := 0; offset < len(data); {
		n, err := d.DecodeElement(data[offset:])
		if err != nil {
			return &Error{Element: d.elements, Offset: offset, Err: err}
		}
		d.flow.AddIn(int64(n))
		offset += n
	}
	return nil
}

// DecodeElement decodes the AudioMuxElement at the start of data, writes the
// access units it completes and returns the number of bytes consumed.
// Nothing is written when the element fails to parse.
func (d *Demuxer) DecodeElement(data []byte) (n int, err error) {
	r := bits.NewReader(data)
	if err = d.readElement(r); err != nil {
		// 部分读入的载荷不再可用
		for i := range d.buffers {
			d.buffers[i].reset()
		}
		return 0, err
	}
	n = r.ByteOffset()
	if n == 0 {
		return 0, truncated("AudioMuxElement: empty element")
	}
	d.elements++
	return n, d.emit()
}

// readElement AudioMuxElement(muxConfigPresent)
func (d *Demuxer) readElement(r *bits.Reader) (err error) {
	defer bits.Recover(&err)

	if !d.outOfBand {
		if useSameStreamMux := r.ReadBool(); !useSameStreamMux {
			smc, err := parseStreamMuxConfig(r)
			if err != nil {
				d.smc = nil
				return err
			}
			d.setConfig(smc)
		}
	}
	if d.smc == nil {
		return unsupported("AudioMuxElement: useSameStreamMux set before any StreamMuxConfig")
	}

	for i := 0; i < d.smc.SubFrames; i++ {
		if err = d.readLengthInfo(r); err != nil {
			return
		}
		d.readPayloadMux(r)
	}
	if d.smc.OtherDataPresent {
		r.Skip(d.smc.OtherDataLenBits)
	}
	r.ByteAlign()
	return
}

func (d *Demuxer) setConfig(smc *StreamMuxConfig) {
	d.smc = smc
	d.configs++
	if cap(d.buffers) >= len(smc.Streams) {
		d.buffers = d.buffers[:len(smc.Streams)]
	} else {
		d.buffers = make([]payloadBuffer, len(smc.Streams))
	}
	for i := range d.buffers {
		d.buffers[i].reset()
	}

	if d.configs == 1 || d.logger.LevelEnabled(xlog.DebugLevel) {
		d.logger.Infof("stream mux config: version %d, %d sub-frames, %d programs, %d streams",
			smc.AudioMuxVersion, smc.SubFrames, smc.Programs(), len(smc.Streams))
		for _, s := range smc.Streams {
			d.logger.Infof("stream %d (program %d layer %d): %s %d Hz, %d channels, frame length type %d",
				s.Index, s.Program, s.Layer, s.Config.ObjectType, s.Config.SampleRate,
				s.Config.Channels, s.FrameLengthType)
		}
	}
	if d.stream >= len(smc.Streams) {
		d.logger.Warnf("selected stream %d not in config with %d streams, nothing is written",
			d.stream, len(smc.Streams))
	}
}

// emit 把选定流在本元素中的全部载荷写成一帧
func (d *Demuxer) emit() error {
	if d.stream >= len(d.buffers) {
		return nil
	}
	s := d.smc.Streams[d.stream]
	buf := &d.buffers[d.stream]
	defer buf.reset()

	d.pending = buf.open
	if buf.open {
		d.logger.Warnf("element %d: access unit of stream %d continues in the next element, written as a partial frame",
			d.elements-1, s.Index)
	}
	if len(buf.data) == 0 {
		return nil
	}
	return d.writeAccessUnit(s, buf.data)
}

// Flush 在输入结束时调用。最后一个元素的 access unit 未结束时返回截断错误
func (d *Demuxer) Flush() error {
	if !d.pending {
		return nil
	}
	d.pending = false
	return truncated("element %d: access unit of stream %d not terminated at end of input",
		d.elements-1, d.stream)
}

func (d *Demuxer) writeAccessUnit(s *Stream, au []byte) (err error) {
	var h aac.ADTSHeader
	switch d.header {
	case HeaderConfig:
		h, err = s.Config.ToAdtsHeader(len(au))
	default:
		h = d.fixed
		err = h.SetPayloadSize(len(au))
	}
	if err != nil {
		return fmt.Errorf("latm: stream %d: %w", s.Index, err)
	}

	payload := make([]byte, 0, aac.ADTSHeaderSize+len(au))
	payload = append(payload, h[:]...)
	payload = append(payload, au...)

	frame := &codec.Frame{
		MediaType: codec.MediaTypeAudio,
		Dts:       d.pts,
		Pts:       d.pts,
		Payload:   payload,
	}
	if rate := h.SampleRate(); rate > 0 {
		frame.Duration = int64(s.Config.SamplesPerFrame()) * int64(time.Second) / int64(rate)
		d.pts += frame.Duration
	}

	if d.logger.LevelEnabled(xlog.DebugLevel) {
		d.logger.Debugf("frame: element %d, stream %d, payload %d bytes, pts %v",
			d.elements-1, s.Index, len(au), time.Duration(frame.Pts))
	}
	return d.w.WriteFrame(frame)
}

// IsTruncated reports whether err was caused by running out of input.
func IsTruncated(err error) bool {
	return errors.Is(err, ErrTruncatedStream)
}

// IsUnsupported reports whether err names a structure this package does not decode.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}
