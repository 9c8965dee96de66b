// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package latm

import "github.com/cnotch/latmdemux/utils/bits"

// readLengthInfo PayloadLengthInfo()
func (d *Demuxer) readLengthInfo(r *bits.Reader) error {
	smc := d.smc
	d.chunks = d.chunks[:0]

	if smc.AllStreamsSameTimeFraming {
		for prog, layers := range smc.Layers {
			for lay := 0; lay < layers; lay++ {
				s := smc.Streams[smc.StreamID(prog, lay)]
				length, err := readMuxSlotLength(r, s)
				if err != nil {
					return err
				}
				d.chunks = append(d.chunks, chunk{stream: s, length: length, auEnd: true})
			}
		}
		return nil
	}

	numChunk := r.ReadInt(4) + 1
	for i := 0; i < numChunk; i++ {
		streamIndx := r.ReadInt(4)
		if streamIndx >= len(smc.Streams) {
			return unsupported("PayloadLengthInfo: chunk %d names stream %d of %d",
				i, streamIndx, len(smc.Streams))
		}
		s := smc.Streams[streamIndx]
		length, err := readMuxSlotLength(r, s)
		if err != nil {
			return err
		}
		auEnd := true
		if s.FrameLengthType == FrameLengthVariable {
			auEnd = r.ReadBool()
		}
		d.chunks = append(d.chunks, chunk{stream: s, length: length, auEnd: auEnd})
	}
	return nil
}

func readMuxSlotLength(r *bits.Reader, s *Stream) (int, error) {
	switch s.FrameLengthType {
	case FrameLengthVariable:
		return readSlotLength(r), nil
	case FrameLengthFixed:
		length, _ := s.SlotLength()
		return length, nil
	default:
		return 0, unsupported("PayloadLengthInfo: stream %d frame length type %d",
			s.Index, s.FrameLengthType)
	}
}

// readPayloadMux PayloadMux()，依 PayloadLengthInfo 的顺序读取各流载荷，
// 选定流的载荷追加到本元素的缓冲
func (d *Demuxer) readPayloadMux(r *bits.Reader) {
	for _, c := range d.chunks {
		if c.stream.Index != d.stream {
			r.Skip(c.length << 3)
			continue
		}

		buf := &d.buffers[c.stream.Index]
		buf.data = r.AppendBytes(buf.data, c.length)
		buf.open = !c.auEnd
	}
}
