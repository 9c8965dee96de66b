// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/cnotch/latmdemux/config"
	"github.com/cnotch/latmdemux/converter"
	"github.com/cnotch/scheduler"
	"github.com/cnotch/xlog"
)

func main() {
	// 初始化配置
	if err := config.InitConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\nusage: %s [options] <input>\n",
			config.Name, err.Error(), config.Name)
		os.Exit(2)
	}
	// 初始化全局计划任务
	scheduler.SetPanicHandler(func(job *scheduler.ManagedJob, r interface{}) {
		xlog.Errorf("scheduler task panic. tag: %v, recover: %v", job.Tag, r)
	})

	logger := xlog.L()
	logger.Infof("%s %s: %s -> %s", config.Name, config.Version, config.Input(), config.Output())

	report, err := converter.Run(config.ConverterOptions(), logger)
	rt := report.Runtime
	logger.Infof("cpu %.1f%%, heap %d KB, priv %d KB, gc %d",
		rt.Proc.CPU, rt.Heap.Alloc, rt.Proc.Priv, rt.Heap.NumGC)
	if err != nil {
		logger.Errorf("convert %s error: %s", config.Input(), err.Error())
		os.Exit(1)
	}
}
