// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cnotch/latmdemux/av/format/latm"
	"github.com/cnotch/latmdemux/converter"
	"github.com/cnotch/latmdemux/utils"
	cfg "github.com/cnotch/loader"
	"github.com/cnotch/xlog"
)

// 程序名
const (
	Vendor  = "CAOHONGJU"
	Name    = "latmdemux"
	Version = "V1.0.0"
)

var globalC *config

// InitConfig 初始化 Config，出错时返回错误而不是退出
func InitConfig() error {
	c := new(config)
	c.initFlags(flag.CommandLine)

	// 可执行文件旁的配置文件存在时才加载
	var err error
	if configPath, ok := configFile(); ok {
		err = cfg.Load(c,
			&cfg.JSONLoader{Path: configPath},
			&cfg.EnvLoader{Prefix: strings.ToUpper(Name)},
			&cfg.FlagLoader{})
	} else {
		err = cfg.Load(c,
			&cfg.EnvLoader{Prefix: strings.ToUpper(Name)},
			&cfg.FlagLoader{})
	}
	if err != nil {
		return err
	}

	if !flag.Parsed() {
		flag.Parse()
	}
	if flag.NArg() > 0 {
		c.Input = flag.Arg(0)
	}
	if err = c.validate(); err != nil {
		return err
	}
	if c.Output == "" {
		c.Output = utils.OutputName(c.Input, "_conv.aac")
	}

	globalC = c
	// 初始化日志
	xlog.ReplaceGlobal(c.Log.newLogger())
	return nil
}

func configFile() (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		return "", false
	}
	configPath := filepath.Join(filepath.Dir(exe), Name+".conf")
	if _, err = os.Stat(configPath); err != nil {
		return "", false
	}
	return configPath, true
}

// Input 输入文件
func Input() string {
	if globalC == nil {
		return ""
	}
	return globalC.Input
}

// Output 输出文件
func Output() string {
	if globalC == nil {
		return ""
	}
	return globalC.Output
}

// Report JSON 报告文件，空表示不输出
func Report() string {
	if globalC == nil {
		return ""
	}
	return globalC.Report
}

// Format 输入格式
func Format() string {
	if globalC == nil {
		return FormatLATM
	}
	return globalC.Format
}

// FixSync 是否修正 B0 90 开头的输入
func FixSync() bool {
	if globalC == nil {
		return true
	}
	return globalC.FixSync
}

// SampleRate 固定 ADTS 头的采样率
func SampleRate() int {
	if globalC == nil {
		return 44100
	}
	return globalC.SampleRate
}

// Header ADTS 头生成方式
func Header() latm.HeaderMode {
	if globalC == nil {
		return latm.HeaderFixed
	}
	return globalC.Header
}

// Stream 输出的流序号
func Stream() int {
	if globalC == nil {
		return 0
	}
	return globalC.Stream
}

// MuxConfig 带外 StreamMuxConfig 的 hex 串
func MuxConfig() string {
	if globalC == nil {
		return ""
	}
	return globalC.MuxConfig
}

// SDP rtp 输入的 SDP 文件
func SDP() string {
	if globalC == nil {
		return ""
	}
	return globalC.SDP
}

// RtpChannel rtp 输入中音频所在的交织通道
func RtpChannel() int {
	if globalC == nil {
		return 0
	}
	return globalC.RtpChannel
}

// Progress 进度日志间隔
func Progress() time.Duration {
	if globalC == nil {
		return time.Second
	}
	return globalC.Progress
}

// ConverterOptions 生成转换参数
func ConverterOptions() converter.Options {
	return converter.Options{
		Input:      Input(),
		Output:     Output(),
		Report:     Report(),
		Format:     Format(),
		FixSync:    FixSync(),
		SampleRate: SampleRate(),
		Header:     Header(),
		Stream:     Stream(),
		MuxConfig:  MuxConfig(),
		SDP:        SDP(),
		RtpChannel: RtpChannel(),
		Progress:   Progress(),
	}
}
