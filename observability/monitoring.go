package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// ProcessUsage is a sample of the server process resources.
type ProcessUsage struct {
	CPUPercent float64 `json:"cpu_percent"`
	RSSBytes   uint64  `json:"rss_bytes"`
	OpenFiles  int     `json:"open_files"`
}

// Health is the payload served on /health.
type Health struct {
	Status      string       `json:"status"`
	Uptime      string       `json:"uptime"`
	Goroutines  int          `json:"goroutines"`
	AllocMemMb  uint64       `json:"alloc_mem_mb"`
	NumGC       uint32       `json:"num_gc"`
	Connections int          `json:"connections"`
	Process     ProcessUsage `json:"process"`
	SampledAt   *time.Time   `json:"sampled_at,omitempty"`
}

// MonitoringManager keeps the latest process sample and builds health snapshots.
type MonitoringManager struct {
	log         *slog.Logger
	mu          sync.RWMutex
	startedAt   time.Time
	latest      ProcessUsage
	sampledAt   *time.Time
	connections func() int
}

func NewMonitoringManager(log *slog.Logger, connections func() int) *MonitoringManager {
	return &MonitoringManager{log: log, startedAt: time.Now(), connections: connections}
}

// Record stores a process sample, typically from the health monitoring worker.
func (mm *MonitoringManager) Record(usage ProcessUsage, at time.Time) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.latest = usage
	mm.sampledAt = &at
	mm.log.Debug("Process sampled", "cpu", usage.CPUPercent, "rss", usage.RSSBytes)
}

func (mm *MonitoringManager) GetLatest() Health {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Health{
		Status:      "ok",
		Uptime:      time.Since(mm.startedAt).Round(time.Second).String(),
		Goroutines:  runtime.NumGoroutine(),
		AllocMemMb:  m.Alloc / 1024 / 1024,
		NumGC:       m.NumGC,
		Connections: mm.connections(),
		Process:     mm.latest,
		SampledAt:   mm.sampledAt,
	}
}
