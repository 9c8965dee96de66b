// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package latm

import (
	"github.com/cnotch/latmdemux/av/codec"
	"github.com/cnotch/latmdemux/utils/bits"
)

func writeLatmValue(w *bits.Writer, v uint32) {
	n := 0
	for n < 3 && v>>(8*uint(n+1)) != 0 {
		n++
	}
	w.WriteBits(uint64(n), 2)
	w.WriteBits(uint64(v), 8*(n+1))
}

// writeLC AAC LC, stereo, 16 bits
func writeLC(w *bits.Writer, samplingIndex uint8) {
	w.WriteBits(2, 5)
	w.WriteBits(uint64(samplingIndex), 4)
	w.WriteBits(2, 4)
	w.WriteBits(0, 3)
}

type testStream struct {
	sameConfig      bool
	samplingIndex   uint8
	frameLengthType uint8
	frameLength     uint16
}

// testConfig 每个 program 一个 layer
type testConfig struct {
	version         uint8
	sameTimeFraming bool
	subFrames       int
	streams         []testStream
	otherDataBits   int
	crc             bool
}

func lcConfig(version uint8) testConfig {
	return testConfig{
		version:         version,
		sameTimeFraming: true,
		subFrames:       1,
		streams:         []testStream{{samplingIndex: 4}},
	}
}

func (c testConfig) write(w *bits.Writer) {
	w.WriteBits(uint64(c.version), 1)
	if c.version == 1 {
		w.WriteBit(0) // audioMuxVersionA
		writeLatmValue(w, 0xff)
	}
	w.WriteBool(c.sameTimeFraming)
	w.WriteBits(uint64(c.subFrames-1), 6)
	w.WriteBits(uint64(len(c.streams)-1), 4)
	for i, s := range c.streams {
		w.WriteBits(0, 3)
		if i > 0 {
			w.WriteBool(s.sameConfig)
		}
		if i == 0 || !s.sameConfig {
			if c.version == 1 {
				writeLatmValue(w, 22)
				writeLC(w, s.samplingIndex)
				w.WriteBits(0, 6)
			} else {
				writeLC(w, s.samplingIndex)
			}
		}
		w.WriteBits(uint64(s.frameLengthType), 3)
		switch s.frameLengthType {
		case FrameLengthVariable:
			w.WriteBits(0xff, 8)
		case FrameLengthFixed:
			w.WriteBits(uint64(s.frameLength), 9)
		case FrameLengthCELP, FrameLengthCELP1of2, FrameLengthCELP2of2:
			w.WriteBits(0, 6)
		case FrameLengthHVXC, FrameLengthHVXC4k:
			w.WriteBit(0)
		}
	}
	w.WriteBool(c.otherDataBits > 0)
	if c.otherDataBits > 0 {
		if c.version == 1 {
			writeLatmValue(w, uint32(c.otherDataBits))
		} else {
			w.WriteBit(0)
			w.WriteBits(uint64(c.otherDataBits), 8)
		}
	}
	w.WriteBool(c.crc)
	if c.crc {
		w.WriteBits(0x5a, 8)
	}
}

func (c testConfig) bytes() []byte {
	w := bits.NewWriter(16)
	c.write(w)
	return w.Bytes()
}

func writeSlotLength(w *bits.Writer, n int) {
	for ; n >= 0xff; n -= 0xff {
		w.WriteBits(0xff, 8)
	}
	w.WriteBits(uint64(n), 8)
}

// element 单流、单子帧的 AudioMuxElement
func element(config *testConfig, payload []byte) []byte {
	w := bits.NewWriter(len(payload) + 16)
	w.WriteBool(config == nil)
	if config != nil {
		config.write(w)
	}
	writeSlotLength(w, len(payload))
	w.WriteBytes(payload)
	w.ByteAlign()
	return w.Bytes()
}

type frameRecorder struct {
	frames []*codec.Frame
}

func (r *frameRecorder) WriteFrame(frame *codec.Frame) error {
	r.frames = append(r.frames, frame)
	return nil
}

func (r *frameRecorder) payloads() [][]byte {
	var out [][]byte
	for _, f := range r.frames {
		out = append(out, f.Payload[7:])
	}
	return out
}

// newConfigWriter 写入单流 StreamMuxConfig 在 AudioSpecificConfig 之前的部分
func newConfigWriter(version uint8) *bits.Writer {
	w := bits.NewWriter(16)
	w.WriteBits(uint64(version), 1)
	if version == 1 {
		w.WriteBit(0)
		writeLatmValue(w, 0xff)
	}
	w.WriteBit(1)     // allStreamsSameTimeFraming
	w.WriteBits(0, 6) // numSubFrames
	w.WriteBits(0, 4) // numProgram
	w.WriteBits(0, 3) // numLayer
	return w
}
