// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package latm

import "github.com/cnotch/latmdemux/utils/bits"

const maxOtherDataLenBits = 1<<31 - 1

// latmGetValue 先读 2 位字节数 n，再按大端读 n+1 个字节
func latmGetValue(r *bits.Reader) uint32 {
	bytesForValue := r.ReadInt(2)
	var value uint32
	for i := 0; i <= bytesForValue; i++ {
		value = value<<8 | r.Read(8)
	}
	return value
}

// readSlotLength MuxSlotLengthBytes for frameLengthType 0: bytes are summed
// while they equal 0xff. Every round consumes 8 bits, so the loop ends at
// the end of the input at the latest.
func readSlotLength(r *bits.Reader) int {
	length := 0
	for {
		tmp := r.ReadInt(8)
		length += tmp
		if tmp != 0xff {
			return length
		}
	}
}

// readOtherDataLenBits otherDataLenBits for audioMuxVersion 0: each round
// shifts the value by one byte, reads an escape bit and adds 8 bits.
func readOtherDataLenBits(r *bits.Reader) (int, error) {
	value := 0
	for esc := true; esc; {
		if value > maxOtherDataLenBits>>8 {
			return 0, unsupported("StreamMuxConfig: otherDataLenBits exceeds %d", maxOtherDataLenBits)
		}
		value <<= 8
		esc = r.ReadBool()
		value += r.ReadInt(8)
	}
	return value, nil
}
