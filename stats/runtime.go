// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stats

import (
	"runtime"
	"time"

	"github.com/kelindar/process"
)

// 创建时间
var (
	StartingTime = time.Now()
)

// Proc 进程信息统计
type Proc struct {
	CPU    float64 `json:"cpu"`    // cpu使用情况
	Priv   int32   `json:"priv"`   // 私有内存 KB
	Virt   int32   `json:"virt"`   // 虚拟内存 KB
	Uptime int32   `json:"uptime"` // 运行时间 S
}

// Heap 运行时堆信息
type Heap struct {
	Alloc      int32  `json:"alloc"`      // KB MemStats.HeapAlloc
	Sys        int32  `json:"sys"`        // KB MemStats.HeapSys
	TotalAlloc int32  `json:"totalalloc"` // KB MemStats.TotalAlloc
	NumGC      uint32 `json:"numgc"`
}

// Runtime 运行时统计
type Runtime struct {
	Proc Proc `json:"proc"`
	Heap Heap `json:"heap"`
}

// MeasureProc 获取进程信息。
func MeasureProc() (proc Proc) {
	// ProcUsage 在不支持的平台上可能 panic
	defer func() { recover() }()

	proc.Uptime = int32(time.Since(StartingTime).Seconds())
	var memoryPriv, memoryVirtual int64
	var cpu float64
	process.ProcUsage(&cpu, &memoryPriv, &memoryVirtual)
	proc.CPU = cpu
	proc.Priv = toKB(uint64(memoryPriv))
	proc.Virt = toKB(uint64(memoryVirtual))
	return
}

// MeasureRuntime 获取运行时信息。
func MeasureRuntime() *Runtime {
	var memory runtime.MemStats
	runtime.ReadMemStats(&memory)

	return &Runtime{
		Proc: MeasureProc(),
		Heap: Heap{
			Alloc:      toKB(memory.HeapAlloc),
			Sys:        toKB(memory.HeapSys),
			TotalAlloc: toKB(memory.TotalAlloc),
			NumGC:      memory.NumGC,
		},
	}
}

// Converts the memory in bytes to KBs, otherwise it would overflow our int32
func toKB(v uint64) int32 {
	return int32(v / 1024)
}
