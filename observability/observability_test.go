package observability

import (
	"dm-chat/domain/event"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	req := require.New(t)
	metrics := NewMetrics(func() int { return 3 })

	metrics.ObserveRequest(http.MethodPost, "/chat/createRoom", http.StatusCreated, 15*time.Millisecond)
	metrics.EventDelivered(event.MessageSentType)
	metrics.EventDelivered(event.MessageSentType)
	metrics.EventFailed(event.RoomCreatedType)
	metrics.WorkerRestarted("EventFanoutWorker")

	req.Equal(float64(1), testutil.ToFloat64(metrics.httpRequests.WithLabelValues("POST", "/chat/createRoom", "201")))
	req.Equal(float64(2), testutil.ToFloat64(metrics.eventsDelivered.WithLabelValues("new_message")))
	req.Equal(float64(1), testutil.ToFloat64(metrics.eventsFailed.WithLabelValues("new_room")))
	req.Equal(float64(1), testutil.ToFloat64(metrics.workerRestarts.WithLabelValues("EventFanoutWorker")))
}

func TestMetrics_Handler_Exposes_Connections(t *testing.T) {
	req := require.New(t)
	metrics := NewMetrics(func() int { return 3 })
	metrics.ObserveProcess(ProcessUsage{CPUPercent: 12.5, RSSBytes: 2048, OpenFiles: 9})

	recorder := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	req.Equal(http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	req.True(strings.Contains(body, "dmchat_websocket_connections 3"))
	req.True(strings.Contains(body, "dmchat_process_open_files 9"))
}

func TestMonitoringManager_GetLatest(t *testing.T) {
	req := require.New(t)
	manager := NewMonitoringManager(logs.GetLoggerFromLevel(slog.LevelDebug), func() int { return 2 })

	health := manager.GetLatest()
	req.Equal("ok", health.Status)
	req.Equal(2, health.Connections)
	req.Nil(health.SampledAt)

	at := time.Now()
	manager.Record(ProcessUsage{CPUPercent: 1.5, RSSBytes: 1024}, at)
	health = manager.GetLatest()
	req.Equal(1.5, health.Process.CPUPercent)
	req.Equal(at, *health.SampledAt)
	req.Positive(health.Goroutines)
}
