// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stats

import (
	"sync/atomic"
)

// FlowSample 流统计采样
type FlowSample struct {
	InBytes   int64 `json:"inbytes"`
	InFrames  int64 `json:"inframes"`
	OutBytes  int64 `json:"outbytes"`
	OutFrames int64 `json:"outframes"`
}

// Flow 流统计接口，每次调用计一帧
type Flow interface {
	AddIn(size int64)      // 增加一个输入帧
	AddOut(size int64)     // 增加一个输出帧
	GetSample() FlowSample // 获取当前时点采样
}

func (fs *FlowSample) clone() FlowSample {
	return FlowSample{
		InBytes:   atomic.LoadInt64(&fs.InBytes),
		InFrames:  atomic.LoadInt64(&fs.InFrames),
		OutBytes:  atomic.LoadInt64(&fs.OutBytes),
		OutFrames: atomic.LoadInt64(&fs.OutFrames),
	}
}

// Sub returns the difference fs - prev, the traffic of an interval.
func (fs FlowSample) Sub(prev FlowSample) FlowSample {
	return FlowSample{
		InBytes:   fs.InBytes - prev.InBytes,
		InFrames:  fs.InFrames - prev.InFrames,
		OutBytes:  fs.OutBytes - prev.OutBytes,
		OutFrames: fs.OutFrames - prev.OutFrames,
	}
}

type flow struct {
	sample FlowSample
}

// NewFlow 创建流量统计
func NewFlow() Flow {
	return &flow{}
}

func (r *flow) AddIn(size int64) {
	atomic.AddInt64(&r.sample.InBytes, size)
	atomic.AddInt64(&r.sample.InFrames, 1)
}

func (r *flow) AddOut(size int64) {
	atomic.AddInt64(&r.sample.OutBytes, size)
	atomic.AddInt64(&r.sample.OutFrames, 1)
}

func (r *flow) GetSample() FlowSample {
	return r.sample.clone()
}

type nopFlow struct{}

// NopFlow 不做统计的 Flow
var NopFlow Flow = nopFlow{}

func (nopFlow) AddIn(size int64)      {}
func (nopFlow) AddOut(size int64)     {}
func (nopFlow) GetSample() FlowSample { return FlowSample{} }
