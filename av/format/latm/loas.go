// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package latm

// LOAS AudioSyncStream
const (
	loasSyncWord   = 0x2b7 // 11 bits
	loasHeaderSize = 3
	// MaxLOASFrameLength audioMuxLengthBytes 的最大值
	MaxLOASFrameLength = 0x1fff
)

// IsLOAS reports whether data starts with an AudioSyncStream syncword.
func IsLOAS(data []byte) bool {
	return len(data) >= loasHeaderSize && (uint16(data[0])<<3|uint16(data[1]>>5)) == loasSyncWord
}

// DemuxLOAS decodes data as an AudioSyncStream: every AudioMuxElement is
// preceded by the 11-bit syncword 0x2B7 and a 13-bit byte length.
// A missing syncword fails the run, there is no resynchronization.
func (d *Demuxer) DemuxLOAS(data []byte) error {
	for offset := 0; offset < len(data); {
		if len(data)-offset < loasHeaderSize {
			return &Error{Element: d.elements, Offset: offset,
				Err: truncated("AudioSyncStream: %d bytes left for a 3 byte header", len(data)-offset)}
		}
		if !IsLOAS(data[offset:]) {
			return &Error{Element: d.elements, Offset: offset,
				Err: unsupported("AudioSyncStream: missing syncword, got %02x%02x", data[offset], data[offset+1])}
		}

		length := int(data[offset+1]&0x1f)<<8 | int(data[offset+2])
		end := offset + loasHeaderSize + length
		if end > len(data) {
			return &Error{Element: d.elements, Offset: offset,
				Err: truncated("AudioSyncStream: element of %d bytes, %d left", length, len(data)-offset-loasHeaderSize)}
		}

		if _, err := d.DecodeElement(data[offset+loasHeaderSize : end]); err != nil {
			return &Error{Element: d.elements, Offset: offset, Err: err}
		}
		d.flow.AddIn(int64(end - offset))
		offset = end
	}
	return nil
}
