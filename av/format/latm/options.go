// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package latm

import (
	"fmt"
	"strings"

	"github.com/cnotch/latmdemux/stats"
	"github.com/cnotch/xlog"
)

// HeaderMode ADTS 头的生成方式
type HeaderMode int

// ADTS 头生成方式常量
const (
	// HeaderFixed 固定模板：LC、选定的采样率、双声道
	HeaderFixed HeaderMode = iota
	// HeaderConfig 由流的 AudioSpecificConfig 推导
	HeaderConfig
)

// String returns a lower-case ASCII representation of the mode.
func (m HeaderMode) String() string {
	switch m {
	case HeaderFixed:
		return "fixed"
	case HeaderConfig:
		return "config"
	default:
		return ""
	}
}

// MarshalText marshals the HeaderMode to text.
func (m HeaderMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText unmarshals text to a HeaderMode.
func (m *HeaderMode) UnmarshalText(text []byte) error {
	return m.Set(string(text))
}

// Set implements flag.Value.
func (m *HeaderMode) Set(s string) error {
	switch strings.ToLower(s) {
	case "fixed":
		*m = HeaderFixed
	case "config":
		*m = HeaderConfig
	default:
		return fmt.Errorf("unrecognized header mode: %q", s)
	}
	return nil
}

// Option 配置 Demuxer 的选项接口
type Option interface {
	apply(*Demuxer)
}

// optionFunc 包装函数以便它满足 Option 接口
type optionFunc func(*Demuxer)

func (f optionFunc) apply(d *Demuxer) {
	f(d)
}

// WithLogger 日志选项
func WithLogger(logger *xlog.Logger) Option {
	return optionFunc(func(d *Demuxer) {
		d.logger = logger
	})
}

// WithHeader ADTS 头生成方式选项
func WithHeader(mode HeaderMode) Option {
	return optionFunc(func(d *Demuxer) {
		d.header = mode
	})
}

// WithSampleRate 固定模板使用的采样率，44100 或 48000
func WithSampleRate(rate int) Option {
	return optionFunc(func(d *Demuxer) {
		d.sampleRate = rate
	})
}

// WithStream 选择输出的流，按 StreamMuxConfig 中的枚举顺序
func WithStream(index int) Option {
	return optionFunc(func(d *Demuxer) {
		d.stream = index
	})
}

// WithStreamMuxConfig 带外配置，此时 AudioMuxElement 不包含 useSameStreamMux 位
func WithStreamMuxConfig(smc *StreamMuxConfig) Option {
	return optionFunc(func(d *Demuxer) {
		d.smc = smc
		d.outOfBand = smc != nil
	})
}

// WithFlow 输入输出流量统计选项
func WithFlow(flow stats.Flow) Option {
	return optionFunc(func(d *Demuxer) {
		d.flow = flow
	})
}
