package runtime

import (
	"context"
	"dm-chat/domain"
	"dm-chat/domain/event"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	id string
}

func newSink() Sink { return Sink{id: uuid.NewString()} }

func (s Sink) ID() string { return s.id }

func (s Sink) Consume(context.Context, event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_User_One_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := domain.UserID("demir")
	sink := newSink()

	// Given no user is connected
	req.Empty(registry.Sessions)

	// When a user opens a connection
	registry.Subscribe(userID, sink)

	// Then
	req.Len(registry.Sessions, 1)
	req.Equal(sink, registry.Sessions[userID][sink.ID()])
	req.Equal(1, registry.Count())
	req.Len(registry.GetSinksForUsers(userID), 1)
	req.Contains(registry.GetSinksForUsers(userID), sink)
}

func TestRegistry_Subscribe_One_User_Multiple_Connections(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := domain.UserID("demir")
	phone, laptop := newSink(), newSink()

	// When the same user connects twice
	registry.Subscribe(userID, phone)
	registry.Subscribe(userID, laptop)

	// Then both connections receive its events
	req.Len(registry.Sessions, 1)
	req.Equal(2, registry.Count())
	req.ElementsMatch([]any{phone, laptop}, toAny(registry.GetSinksForUsers(userID)))
}

func TestRegistry_GetSinksForUsers_Skips_Offline_And_Duplicates(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sink := newSink()
	registry.Subscribe("demir", sink)

	sinks := registry.GetSinksForUsers("demir", "eddie", "demir")

	req.Len(sinks, 1)
	req.Equal(sink, sinks[0])
	req.Empty(registry.GetSinksForUsers("eddie"))
}

func TestRegistry_Unsubscribe(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := domain.UserID("demir")
	phone, laptop := newSink(), newSink()
	registry.Subscribe(userID, phone)
	registry.Subscribe(userID, laptop)

	// When one connection closes
	registry.Unsubscribe(userID, phone.ID())

	// Then the other is still registered
	req.Equal([]any{laptop}, toAny(registry.GetSinksForUsers(userID)))

	// When the last connection closes the user is forgotten
	registry.Unsubscribe(userID, laptop.ID())
	req.Empty(registry.Sessions)
	req.Zero(registry.Count())

	// Unknown users are ignored
	registry.Unsubscribe("ghost", "nothing")
	req.Empty(registry.Sessions)
}

func toAny[T any](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
