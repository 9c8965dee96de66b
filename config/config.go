// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/cnotch/latmdemux/av/format/latm"
	"github.com/cnotch/latmdemux/converter"
)

// 输入格式
const (
	FormatLATM = converter.FormatLATM // 连续的 AudioMuxElement
	FormatLOAS = converter.FormatLOAS // AudioSyncStream
	FormatRTP  = converter.FormatRTP  // RTSP 交织格式保存的 MP4A-LATM RTP 包
)

// config 转换配置
type config struct {
	SampleRate int             `json:"samplerate"`       // 固定 ADTS 头的采样率
	Header     latm.HeaderMode `json:"header"`           // ADTS 头生成方式
	Format     string          `json:"format"`           // 输入格式
	FixSync    bool            `json:"fixsync"`          // 修正 B0 90 开头的输入
	Stream     int             `json:"stream"`           // 输出的流
	MuxConfig  string          `json:"smc,omitempty"`    // 带外 StreamMuxConfig，hex
	SDP        string          `json:"sdp,omitempty"`    // rtp 输入的 SDP 文件
	RtpChannel int             `json:"rtpchannel"`       // rtp 输入中音频的交织通道
	Output     string          `json:"output,omitempty"` // 输出文件
	Report     string          `json:"report,omitempty"` // JSON 报告文件
	Progress   time.Duration   `json:"progress"`         // 进度日志间隔，0 不输出
	Log        LogConfig       `json:"log"`              // 日志配置
	Input      string          `json:"-"`                // 输入文件，命令行参数
}

func (c *config) initFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.SampleRate, "samplerate", 44100,
		"Set the sample rate of fixed ADTS headers (44100 or 48000)")
	c.Header = latm.HeaderFixed
	fs.Var(&c.Header, "header",
		"Set how ADTS headers are built: fixed or config")
	fs.StringVar(&c.Format, "format", FormatLATM,
		"Set the input format: latm, loas or rtp")
	fs.BoolVar(&c.FixSync, "fixsync", true,
		"Determines if input starting with B0 90 should be normalized")
	fs.IntVar(&c.Stream, "stream", 0, "Set the stream index to convert")
	fs.StringVar(&c.MuxConfig, "smc", "",
		"Set the out-of-band StreamMuxConfig (hex)")
	fs.StringVar(&c.SDP, "sdp", "", "Set the SDP file describing rtp input")
	fs.IntVar(&c.RtpChannel, "rtpchannel", 0,
		"Set the interleaved channel of the audio rtp packets")
	fs.StringVar(&c.Output, "o", "", "Set the output file (default <input>_conv.aac)")
	fs.StringVar(&c.Report, "report", "", "Set the JSON report file")
	fs.DurationVar(&c.Progress, "progress", time.Second,
		"Set the progress log interval, 0 disables it")

	// 初始化日志配置
	c.Log.initFlags(fs)
}

func (c *config) validate() error {
	if c.Input == "" {
		return errors.New("missing input file")
	}
	if c.SampleRate != 44100 && c.SampleRate != 48000 {
		return fmt.Errorf("unsupported sample rate %d, only 44100 and 48000", c.SampleRate)
	}
	switch c.Format {
	case FormatLATM, FormatLOAS:
		if c.SDP != "" {
			return fmt.Errorf("-sdp requires -format %s", FormatRTP)
		}
	case FormatRTP:
		if c.RtpChannel < 0 || c.RtpChannel > 254 {
			return fmt.Errorf("rtp channel %d out of range", c.RtpChannel)
		}
	default:
		return fmt.Errorf("unrecognized input format: %q", c.Format)
	}
	if c.Stream < 0 {
		return fmt.Errorf("negative stream index %d", c.Stream)
	}
	if c.Progress < 0 {
		c.Progress = 0
	}
	return nil
}
