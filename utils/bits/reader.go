// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bits

import (
	"errors"
	"fmt"
)

const uintBitsCount = int(32 << (^uint(0) >> 63))

// ErrTruncated 读取越过缓冲区末尾
var ErrTruncated = errors.New("bits: truncated stream")

// truncatedError records where a read ran out of input.
type truncatedError struct {
	offset int // bit offset at the failing read
	want   int // bits requested
	left   int // bits that were available
}

func (e *truncatedError) Error() string {
	return fmt.Sprintf("bits: truncated stream: need %d bits at bit offset %d, %d left",
		e.want, e.offset, e.left)
}

func (e *truncatedError) Unwrap() error { return ErrTruncated }

// Recover converts a truncation panic raised by a Reader into *err.
// It must be deferred directly: defer bits.Recover(&err).
// Panics that are not truncations propagate unchanged.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok && errors.Is(e, ErrTruncated) {
		*err = e
		return
	}
	panic(r)
}

// Reader is a MSB-first bit reader over a borrowed byte slice.
// Any read past the end panics with an error wrapping ErrTruncated.
type Reader struct {
	buf    []byte
	offset int // bit base
}

// NewReader retruns a new Reader.
func NewReader(buf []byte) *Reader {
	return &Reader{
		buf: buf,
	}
}

// Require panics with a truncation error unless n more bits are available.
func (r *Reader) Require(n int) {
	r.require(n)
}

func (r *Reader) require(n int) {
	if left := len(r.buf)<<3 - r.offset; n > left {
		panic(&truncatedError{offset: r.offset, want: n, left: left})
	}
}

// Skip skip n bits.
func (r *Reader) Skip(n int) {
	if n <= 0 {
		return
	}
	r.require(n)
	r.offset += n
}

// Peek peek the uint64 of n bits.
func (r *Reader) Peek(n int) uint64 {
	clone := *r
	return clone.readUint64(n, 64)
}

// Read read the uint32 of n bits.
func (r *Reader) Read(n int) uint32 {
	return uint32(r.readUint64(n, 32))
}

// ReadBit read a bit.
func (r *Reader) ReadBit() uint8 {
	r.require(1)

	tmp := (r.buf[r.offset>>3] >> (7 - r.offset&0x7)) & 1
	r.offset++
	return tmp
}

// ByteAlign 丢弃直到下一个字节边界的位，已对齐时不做任何事
func (r *Reader) ByteAlign() {
	if rem := r.offset & 0x7; rem != 0 {
		r.Skip(8 - rem)
	}
}

// AppendBytes reads n bytes starting at the current bit position, which need
// not be byte aligned, and appends them to dst.
func (r *Reader) AppendBytes(dst []byte, n int) []byte {
	if n <= 0 {
		return dst
	}
	r.require(n << 3)

	if r.offset&0x7 == 0 {
		start := r.offset >> 3
		r.offset += n << 3
		return append(dst, r.buf[start:start+n]...)
	}

	for i := 0; i < n; i++ {
		dst = append(dst, uint8(r.readUint64(8, 8)))
	}
	return dst
}

// ==== shortcut methods

// ReadBool read one bit bool.
func (r *Reader) ReadBool() bool { return r.ReadBit() == 1 }

// ReadUint read the uint of n bits.
func (r *Reader) ReadUint(n int) uint { return uint(r.readUint64(n, uintBitsCount)) }

// ReadUint8 read the uint8 of n bits.
func (r *Reader) ReadUint8(n int) uint8 { return uint8(r.readUint64(n, 8)) }

// ReadUint16 read the uint16 of n bits.
func (r *Reader) ReadUint16(n int) uint16 { return uint16(r.readUint64(n, 16)) }

// ReadUint32 read the uint32 of n bits.
func (r *Reader) ReadUint32(n int) uint32 { return uint32(r.readUint64(n, 32)) }

// ReadUint64 read the uint64 of n bits.
func (r *Reader) ReadUint64(n int) uint64 { return r.readUint64(n, 64) }

// ReadInt read the int of n bits.
func (r *Reader) ReadInt(n int) int { return int(r.readUint64(n, uintBitsCount)) }

// Offset returns the offset of bits.
func (r *Reader) Offset() int {
	return r.offset
}

// BitsSince returns the number of bits consumed since mark,
// a value previously returned by Offset.
func (r *Reader) BitsSince(mark int) int {
	return r.offset - mark
}

// ByteOffset returns the number of bytes touched so far, rounded up.
func (r *Reader) ByteOffset() int {
	return (r.offset + 7) >> 3
}

// BitsLeft returns the number of left bits.
func (r *Reader) BitsLeft() int {
	return len(r.buf)<<3 - r.offset
}

// BytesLeft returns the left byte slice.
func (r *Reader) BytesLeft() []byte {
	return r.buf[r.ByteOffset():]
}

var bitsMask = [9]byte{
	0x00,
	0x01, 0x03, 0x07, 0x0f,
	0x1f, 0x3f, 0x7f, 0xff,
}

// readUint64 read the uint64 of n bits.
func (r *Reader) readUint64(n, max int) uint64 {
	if n <= 0 || n > max {
		return 0
	}
	r.require(n)

	idx := r.offset >> 3
	validBits := 8 - r.offset&0x7
	r.offset += n

	var tmp uint64
	for n >= validBits {
		n -= validBits
		tmp |= uint64(r.buf[idx]&bitsMask[validBits]) << n
		idx++
		validBits = 8
	}

	if n > 0 {
		tmp |= uint64((r.buf[idx] >> (validBits - n)) & bitsMask[n])
	}
	return tmp
}
