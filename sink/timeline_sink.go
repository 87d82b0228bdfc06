package sink

import (
	"context"
	"dm-chat/domain"
	"dm-chat/domain/event"
	"dm-chat/dto"
	"sync"

	"github.com/google/uuid"
)

// Timeline records the frames addressed to a user, in arrival order.
type Timeline struct {
	id     string
	Owner  domain.UserID
	mu     sync.Mutex
	frames []dto.Frame
}

func NewTimeline(owner domain.UserID) *Timeline {
	return &Timeline{id: uuid.NewString(), Owner: owner}
}

func (t *Timeline) ID() string {
	return t.id
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	frame, ok := dto.FromEvent(e)
	if !ok {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames = append(t.frames, frame)
	return nil
}

func (t *Timeline) Frames() []dto.Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]dto.Frame(nil), t.frames...)
}

func (t *Timeline) Types() []event.Type {
	frames := t.Frames()
	types := make([]event.Type, len(frames))
	for i, frame := range frames {
		types[i] = frame.Type
	}
	return types
}
