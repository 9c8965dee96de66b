// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package converter

import (
	"fmt"
	"time"

	"github.com/cnotch/latmdemux/stats"
	"github.com/cnotch/scheduler"
	"github.com/cnotch/xlog"
)

// progress 定时输出转换进度
type progress struct {
	total  int64
	flow   stats.Flow
	logger *xlog.Logger
	last   stats.FlowSample
	job    *scheduler.ManagedJob
}

func startProgress(interval time.Duration, total int64, flow stats.Flow, logger *xlog.Logger) *progress {
	p := &progress{
		total:  total,
		flow:   flow,
		logger: logger,
	}
	p.job, _ = scheduler.PeriodFunc(interval, interval, p.run, "The task of reporting conversion progress")
	return p
}

func (p *progress) run() {
	sample := p.flow.GetSample()
	p.logger.Info(p.line(sample))
	p.last = sample
}

func (p *progress) line(sample stats.FlowSample) string {
	delta := sample.Sub(p.last)
	percent := 100.0
	if p.total > 0 {
		percent = float64(sample.InBytes) * 100 / float64(p.total)
	}
	return fmt.Sprintf("progress %.1f%%: %d/%d bytes in, %d frames out (+%d)",
		percent, sample.InBytes, p.total, sample.OutFrames, delta.OutFrames)
}

func (p *progress) stop() {
	p.job.Cancel()
}
