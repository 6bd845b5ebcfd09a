package metrics

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
)

// SysHealth represents real-time process and storage metrics.
type SysHealth struct {
	AllocMB       uint64  `json:"alloc_mb"`
	TotalAllocMB  uint64  `json:"total_alloc_mb"`
	SysMB         uint64  `json:"sys_mb"`
	NumGC         uint32  `json:"num_gc"`
	Goroutines    int     `json:"goroutines"`
	GoVersion     string  `json:"go_version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	DataDirBytes  int64   `json:"data_dir_bytes"`
	DataDirSize   string  `json:"data_dir_size"`
}

// GetSysHealth collects health data. started is the process start time.
func GetSysHealth(dataDir string, started time.Time) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	size := dirSize(dataDir)
	return SysHealth{
		AllocMB:       m.Alloc / 1024 / 1024,
		TotalAllocMB:  m.TotalAlloc / 1024 / 1024,
		SysMB:         m.Sys / 1024 / 1024,
		NumGC:         m.NumGC,
		Goroutines:    runtime.NumGoroutine(),
		GoVersion:     runtime.Version(),
		UptimeSeconds: time.Since(started).Round(time.Second).Seconds(),
		DataDirBytes:  size,
		DataDirSize:   humanize.IBytes(uint64(max(size, 0))),
	}
}

// dirSize sums regular file sizes below path. A missing directory has size zero.
func dirSize(path string) int64 {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}
