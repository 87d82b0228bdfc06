package server

import (
	"bytes"
	"context"
	"dm-chat/auth"
	"dm-chat/domain/event"
	"dm-chat/observability"
	"dm-chat/repositories"
	"dm-chat/runtime"
	"dm-chat/runtime/workers"
	"dm-chat/services"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const password = "ComplexPass123!"

type api struct {
	url      string
	registry *runtime.Registry
	metrics  *observability.Metrics
}

type response struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// setupAPI serves the whole stack on an in-memory Badger store.
func setupAPI(t *testing.T) *api {
	gin.SetMode(gin.TestMode)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	sequences, err := repositories.OpenSequences(db)
	require.NoError(t, err)

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	events := make(chan event.DomainEvent, 100)
	users := repositories.NewUserRepository(db)
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	chat := services.NewChatService(
		repositories.NewRoomRepository(db, log, sequences),
		repositories.NewMessageRepository(db, log, sequences),
		services.ChatConfig{MaxContentLength: 50, DefaultPageSize: 20, MaxPageSize: 50},
		log,
		services.WithEvents(events),
		services.WithUserDirectory(users))
	registry := runtime.NewRegistry()
	metrics := observability.NewMetrics(registry.Count)

	ctx, cancel := context.WithCancel(context.Background())
	fanout := workers.NewEventFanoutWorker(log, events, registry, metrics, time.Second)
	go func() { _ = fanout.Run(ctx) }()

	router := NewRouter(log, Dependencies{
		Chat:                 chat,
		Auth:                 services.NewAuthService(users, issuer, log),
		Identity:             auth.NewJWTResolver(issuer),
		Registry:             registry,
		Metrics:              metrics,
		Monitoring:           observability.NewMonitoringManager(log, registry.Count),
		ConnectionBufferSize: 16,
	})
	srv := httptest.NewUnstartedServer(router)
	srv.Config.BaseContext = func(net.Listener) context.Context { return ctx }
	srv.Start()

	t.Cleanup(func() {
		cancel()
		srv.Close()
		_ = sequences.Release()
		_ = db.Close()
	})
	return &api{url: srv.URL, registry: registry, metrics: metrics}
}

func (a *api) do(t *testing.T, method, path, token string, body any) (int, response) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	request, err := http.NewRequest(method, a.url+path, reader)
	require.NoError(t, err)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	request.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer res.Body.Close()

	var decoded response
	require.NoError(t, json.NewDecoder(res.Body).Decode(&decoded))
	return res.StatusCode, decoded
}

// register creates an account and returns its token and user identifier.
func (a *api) register(t *testing.T, email string) (string, string) {
	t.Helper()
	code, res := a.do(t, http.MethodPost, "/auth/register", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, code, res.Message)
	token := decode[struct {
		Token string `json:"token"`
	}](t, res).Token

	code, res = a.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code, res.Message)
	return token, decode[struct {
		UserID string `json:"userId"`
	}](t, res).UserID
}

func decode[T any](t *testing.T, res response) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(res.Data, &out), string(res.Data))
	return out
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
