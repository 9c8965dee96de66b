// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtp

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/cnotch/queue"
	"github.com/cnotch/xlog"
)

// ErrClosed 解封装器已关闭
var ErrClosed = errors.New("rtp: demuxer closed")

// Depacketizer 解包器
type Depacketizer interface {
	Depacketize(p *Packet) error
	Flush() error
}

// endOfStream 排在最后的包，处理协程见到它即退出
var endOfStream = &Packet{}

// Demuxer 在独立的协程中把收到的音频包交给解包器
type Demuxer struct {
	closed    bool
	recvQueue *queue.SyncQueue
	adp       Depacketizer
	logger    *xlog.Logger
	done      chan struct{}
	packets   int
	err       error // 首个错误，done 关闭后可读
}

// NewDemuxer 创建 rtp.Packet 解封装处理器。
func NewDemuxer(adp Depacketizer, logger *xlog.Logger) *Demuxer {
	demuxer := &Demuxer{
		recvQueue: queue.NewSyncQueue(),
		adp:       adp,
		logger:    logger,
		done:      make(chan struct{}),
	}

	go demuxer.process()
	return demuxer
}

func (demuxer *Demuxer) process() {
	defer func() {
		if r := recover(); r != nil {
			demuxer.logger.Errorf("rtp demuxer routine panic; r = %v \n %s", r, debug.Stack())
			if demuxer.err == nil {
				demuxer.err = fmt.Errorf("rtp demuxer: panic: %v", r)
			}
		}

		// 尽早通知GC，回收内存
		demuxer.recvQueue.Reset()
		close(demuxer.done)
	}()

	for {
		p := demuxer.recvQueue.Pop()
		if p == nil {
			continue
		}

		packet := p.(*Packet)
		if packet == endOfStream {
			demuxer.err = demuxer.adp.Flush()
			return
		}
		if packet.Channel == ChannelAudio {
			demuxer.packets++
			if err := demuxer.adp.Depacketize(packet); err != nil {
				demuxer.logger.Errorf("rtp demuxer: depacketize packet %d (seq %d) error: %s",
					demuxer.packets, packet.SequenceNumber, err.Error())
				demuxer.err = err
				return // 出错后不再处理剩余的包
			}
		} else if demuxer.logger.LevelEnabled(xlog.DebugLevel) {
			demuxer.logger.Debugf("rtp demuxer: skip %s packet, %d bytes",
				ChannelName(int(packet.Channel)), len(packet.Data))
		}
	}
}

// Close 等待已收到的包处理完，返回处理中的首个错误
func (demuxer *Demuxer) Close() error {
	if !demuxer.closed {
		demuxer.closed = true
		demuxer.recvQueue.Push(endOfStream)
	}
	<-demuxer.done
	return demuxer.err
}

// WriteRtpPacket 排队等待处理；处理已失败时返回该错误
func (demuxer *Demuxer) WriteRtpPacket(packet *Packet) error {
	if demuxer.closed {
		return ErrClosed
	}
	select {
	case <-demuxer.done:
		return demuxer.err
	default:
	}
	demuxer.recvQueue.Push(packet)
	return nil
}
