package workers

import (
	"context"
	"dm-chat/observability"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// UsageRecorder receives every process sample.
type UsageRecorder interface {
	Record(usage observability.ProcessUsage, at time.Time)
}

// HealthMonitoringWorker samples the server process on every tick and hands the
// figures to the health endpoint and the Prometheus gauges.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	pid            int32
	metricInterval time.Duration
	recorder       UsageRecorder
	metrics        *observability.Metrics
}

func NewHealthMonitoringWorker(log *slog.Logger, metricInterval time.Duration,
	recorder UsageRecorder, metrics *observability.Metrics) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		pid:            int32(os.Getpid()),
		metricInterval: metricInterval,
		recorder:       recorder,
		metrics:        metrics,
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(w.pid)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			usage, err := sample(p)
			if err != nil {
				w.log.Error("Error while sampling process", "pid", w.pid, "err", err)
				continue
			}
			w.recorder.Record(usage, time.Now().UTC())
			if w.metrics != nil {
				w.metrics.ObserveProcess(usage)
			}
		}
	}
}

func sample(p *process.Process) (observability.ProcessUsage, error) {
	cpu, err := p.CPUPercent()
	if err != nil {
		return observability.ProcessUsage{}, err
	}
	memory, err := p.MemoryInfo()
	if err != nil {
		return observability.ProcessUsage{}, err
	}
	usage := observability.ProcessUsage{CPUPercent: cpu, RSSBytes: memory.RSS}
	// Not supported on every platform
	if files, err := p.OpenFiles(); err == nil {
		usage.OpenFiles = len(files)
	}
	return usage, nil
}
