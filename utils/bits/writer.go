// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bits

// Writer is a MSB-first bit writer that grows its buffer as needed.
type Writer struct {
	buf    []byte
	offset int // bit base
}

// NewWriter returns a new Writer with room for size bytes.
func NewWriter(size int) *Writer {
	return &Writer{
		buf: make([]byte, 0, size),
	}
}

// WriteBit write a bit.
func (w *Writer) WriteBit(b uint8) {
	if w.offset&0x7 == 0 {
		w.buf = append(w.buf, 0)
	}
	if b&1 != 0 {
		w.buf[w.offset>>3] |= 0x80 >> uint(w.offset&0x7)
	}
	w.offset++
}

// WriteBool write one bit bool.
func (w *Writer) WriteBool(b bool) {
	if b {
		w.WriteBit(1)
	} else {
		w.WriteBit(0)
	}
}

// WriteBits write the low n bits of v, MSB first.
func (w *Writer) WriteBits(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(uint8(v >> uint(i)))
	}
}

// WriteBytes write whole bytes from the current bit position.
func (w *Writer) WriteBytes(p []byte) {
	for _, b := range p {
		w.WriteBits(uint64(b), 8)
	}
}

// ByteAlign pads with zero bits up to the next byte boundary.
func (w *Writer) ByteAlign() {
	for w.offset&0x7 != 0 {
		w.WriteBit(0)
	}
}

// Offset returns the number of bits written.
func (w *Writer) Offset() int {
	return w.offset
}

// Bytes returns the written bytes; a trailing partial byte is zero padded.
func (w *Writer) Bytes() []byte {
	return w.buf
}
