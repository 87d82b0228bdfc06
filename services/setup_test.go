package services_test

import (
	"dm-chat/domain/event"
	"dm-chat/repositories"
	"dm-chat/services"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const (
	demir   = "demir"
	eddie   = "eddie"
	mallory = "mallory"
)

type chatFixture struct {
	svc    *services.ChatService
	events chan event.DomainEvent
	users  *repositories.UserRepository
}

// steppingClock returns a clock moving one second forward on every call.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

// setupChat wires the chat service on an in-memory Badger store.
func setupChat(t *testing.T, opts ...services.Option) chatFixture {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	sequences, err := repositories.OpenSequences(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sequences.Release()
		_ = db.Close()
	})

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	events := make(chan event.DomainEvent, 100)
	config := services.ChatConfig{MaxContentLength: 50, DefaultPageSize: 20, MaxPageSize: 50}
	opts = append([]services.Option{services.WithEvents(events), services.WithClock(steppingClock())}, opts...)

	return chatFixture{
		svc: services.NewChatService(
			repositories.NewRoomRepository(db, log, sequences),
			repositories.NewMessageRepository(db, log, sequences),
			config, log, opts...),
		events: events,
		users:  repositories.NewUserRepository(db),
	}
}

// drain returns the event types published so far.
func (f chatFixture) drain() []event.Type {
	var types []event.Type
	for {
		select {
		case e := <-f.events:
			types = append(types, e.Type())
		default:
			return types
		}
	}
}
