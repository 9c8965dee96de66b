// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package converter 把 LATM/LOAS 输入转换为 ADTS 文件.
package converter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"time"

	"github.com/cnotch/latmdemux/av/codec"
	"github.com/cnotch/latmdemux/av/format/adts"
	"github.com/cnotch/latmdemux/av/format/latm"
	"github.com/cnotch/latmdemux/av/format/rtp"
	"github.com/cnotch/latmdemux/av/format/sdp"
	"github.com/cnotch/latmdemux/stats"
	"github.com/cnotch/latmdemux/utils"
	"github.com/cnotch/xlog"
)

// 输入格式
const (
	FormatLATM = "latm"
	FormatLOAS = "loas"
	FormatRTP  = "rtp"
)

const outputBufferSize = 64 * 1024

// Options 一次转换的参数
type Options struct {
	Input      string
	Output     string
	Report     string // JSON 报告文件，空不输出
	Format     string
	FixSync    bool
	SampleRate int
	Header     latm.HeaderMode
	Stream     int
	MuxConfig  string // 带外 StreamMuxConfig，hex
	SDP        string // rtp 输入的 SDP 文件
	RtpChannel int
	Progress   time.Duration // 0 不输出进度
}

// Report 转换结果
type Report struct {
	Input     string                `json:"input"`
	Output    string                `json:"output"`
	Format    string                `json:"format"`
	Header    latm.HeaderMode       `json:"header"`
	SyncFixed bool                  `json:"syncfixed"`
	Elements  int                   `json:"elements"`
	Config    *latm.StreamMuxConfig `json:"config,omitempty"`
	Media     *sdp.LATMMedia        `json:"media,omitempty"`
	Audio     *codec.AudioMeta      `json:"audio,omitempty"` // 输出 ADTS 流的参数
	Duration  string                `json:"duration"`        // 输出音频时长
	Flow      stats.FlowSample      `json:"flow"`
	Elapsed   string                `json:"elapsed"`
	Runtime   *stats.Runtime        `json:"runtime"`
	Error     string                `json:"error,omitempty"`
}

// Run 执行转换。出错前已写出的帧保留在输出文件中，返回的报告总是有效的
func Run(opts Options, logger *xlog.Logger) (report *Report, err error) {
	if logger == nil {
		logger = xlog.L()
	}
	start := time.Now()
	flow := stats.NewFlow()
	report = &Report{
		Input:  opts.Input,
		Output: opts.Output,
		Format: opts.Format,
		Header: opts.Header,
	}
	defer func() {
		report.Flow = flow.GetSample()
		report.Elapsed = time.Since(start).String()
		report.Runtime = stats.MeasureRuntime()
		if err != nil {
			report.Error = err.Error()
		}
		if opts.Report != "" {
			if rerr := utils.EncodeJSONFile(opts.Report, report); rerr != nil {
				logger.Errorf("write report %s error: %s", opts.Report, rerr.Error())
			}
		}
	}()

	data, err := ioutil.ReadFile(opts.Input)
	if err != nil {
		return report, err
	}
	if opts.Format != FormatRTP && opts.FixSync && latm.NeedsSyncFix(data) {
		data = latm.FixSync(data)
		report.SyncFixed = true
		logger.Infof("input starts with B0 90, sync prefix restored (%d bytes)", len(data))
	}

	options, err := demuxerOptions(opts, report)
	if err != nil {
		return report, err
	}
	options = append(options, latm.WithLogger(logger), latm.WithFlow(flow))

	f, err := os.Create(opts.Output)
	if err != nil {
		return report, err
	}
	bw := bufio.NewWriterSize(f, outputBufferSize)
	defer func() {
		ferr := bw.Flush()
		if cerr := f.Close(); ferr == nil {
			ferr = cerr
		}
		if err == nil {
			err = ferr
		}
	}()

	writer := adts.NewWriter(bw, flow)
	defer func() {
		report.Audio = writer.Meta()
		report.Duration = writer.Duration().String()
	}()
	demuxer, err := latm.NewDemuxer(writer, options...)
	if err != nil {
		return report, err
	}
	if opts.Progress > 0 {
		p := startProgress(opts.Progress, int64(len(data)), flow, logger)
		defer p.stop()
	}

	switch opts.Format {
	case FormatLOAS:
		if err = demuxer.DemuxLOAS(data); err == nil {
			err = demuxer.Flush()
		}
	case FormatRTP:
		err = demuxRTP(data, opts.RtpChannel, demuxer, logger)
	default:
		if err = demuxer.Demux(data); err == nil {
			err = demuxer.Flush()
		}
	}
	report.Elements = demuxer.Elements()
	report.Config = demuxer.Config()
	if err != nil {
		return report, err
	}

	sample := flow.GetSample()
	logger.Infof("converted %s to %s: %d elements, %d frames (%s), %d bytes in, %d bytes out, elapsed %s",
		opts.Input, opts.Output, report.Elements, sample.OutFrames, writer.Duration(),
		sample.InBytes, sample.OutBytes, time.Since(start))
	return report, nil
}

func demuxerOptions(opts Options, report *Report) ([]latm.Option, error) {
	options := []latm.Option{
		latm.WithHeader(opts.Header),
		latm.WithSampleRate(opts.SampleRate),
		latm.WithStream(opts.Stream),
	}

	if opts.MuxConfig != "" {
		smc, err := latm.ParseStreamMuxConfigString(opts.MuxConfig)
		if err != nil {
			return nil, fmt.Errorf("parse -smc: %w", err)
		}
		options = append(options, latm.WithStreamMuxConfig(smc))
	}

	if opts.SDP != "" {
		raw, err := ioutil.ReadFile(opts.SDP)
		if err != nil {
			return nil, err
		}
		media, err := sdp.ParseLATM(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", opts.SDP, err)
		}
		report.Media = media
		// -smc 优先
		if !media.CPresent && opts.MuxConfig == "" {
			options = append(options, latm.WithStreamMuxConfig(media.Config))
		}
	}
	return options, nil
}

// demuxRTP 读取 RTSP 交织格式保存的 RTP 包，经排队后交给 LATM 解包
func demuxRTP(data []byte, channel int, demuxer *latm.Demuxer, logger *xlog.Logger) error {
	dmx := rtp.NewDemuxer(rtp.NewLATMDepacketizer(demuxer, logger), logger)
	r := bufio.NewReader(bytes.NewReader(data))
	channelConfig := rtp.ChannelConfig(channel)
	for {
		packet, err := rtp.ReadPacket(r, channelConfig)
		if err == io.EOF {
			break
		}
		if err == nil {
			err = dmx.WriteRtpPacket(packet)
		}
		if err != nil {
			if derr := dmx.Close(); derr != nil {
				return derr
			}
			return err
		}
	}
	return dmx.Close()
}
