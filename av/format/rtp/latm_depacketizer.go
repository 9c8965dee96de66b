// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtp

import (
	"fmt"

	"github.com/cnotch/latmdemux/av/format/latm"
	"github.com/cnotch/xlog"
)

// latmDepacketizer MP4A-LATM (RFC 6416) 解包器。
// 一个 AudioMuxElement 可以跨多个包，marker 位标记最后一个分片；
// 一个包也可以携带多个完整的 AudioMuxElement
type latmDepacketizer struct {
	demuxer *latm.Demuxer
	logger  *xlog.Logger
	buf     []byte
	started bool
	lastSeq uint16
	resync  bool // 丢包后等待下一个 marker
}

// NewLATMDepacketizer 实例化 MP4A-LATM 解包器，重组后的元素交给 demuxer
func NewLATMDepacketizer(demuxer *latm.Demuxer, logger *xlog.Logger) Depacketizer {
	return &latmDepacketizer{
		demuxer: demuxer,
		logger:  logger,
	}
}

func (dp *latmDepacketizer) Depacketize(packet *Packet) error {
	if dp.started && packet.SequenceNumber != dp.lastSeq+1 {
		// 丢失的包可能是任意分片，直到下一个 marker 的数据都不可用
		dp.logger.Warnf("rtp: sequence gap %d -> %d, drop %d buffered bytes and wait for the next marker",
			dp.lastSeq, packet.SequenceNumber, len(dp.buf))
		dp.buf = dp.buf[:0]
		dp.resync = true
	}
	dp.started = true
	dp.lastSeq = packet.SequenceNumber

	if dp.resync {
		dp.resync = !packet.Marker
		return nil
	}

	dp.buf = append(dp.buf, packet.Payload()...)
	if !packet.Marker {
		return nil
	}

	err := dp.demuxer.Demux(dp.buf)
	dp.buf = dp.buf[:0]
	if err != nil {
		return fmt.Errorf("rtp: packet seq %d: %w", packet.SequenceNumber, err)
	}
	return nil
}

// Flush 结尾处未收到 marker 的分片无法组成完整的元素
func (dp *latmDepacketizer) Flush() error {
	if len(dp.buf) > 0 {
		dp.logger.Warnf("rtp: drop %d bytes of an unterminated element at end of input", len(dp.buf))
		dp.buf = dp.buf[:0]
	}
	if err := dp.demuxer.Flush(); err != nil {
		return fmt.Errorf("rtp: %w", err)
	}
	return nil
}
