package workers

import (
	"context"
	"dm-chat/observability"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type usageRecorder struct {
	mu      sync.Mutex
	samples []observability.ProcessUsage
}

func (r *usageRecorder) Record(usage observability.ProcessUsage, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, usage)
}

func (r *usageRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

func TestHealthMonitoringWorker_Samples_Own_Process(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	recorder := &usageRecorder{}
	metrics := observability.NewMetrics(func() int { return 0 })
	worker := NewHealthMonitoringWorker(log, 10*time.Millisecond, recorder, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() { finished <- worker.Run(ctx) }()

	req.Eventually(func() bool { return recorder.count() >= 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	req.NoError(<-finished)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	req.Positive(recorder.samples[0].RSSBytes)
}
