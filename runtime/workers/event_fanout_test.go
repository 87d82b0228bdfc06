package workers

import (
	"context"
	"dm-chat/contract"
	"dm-chat/domain"
	"dm-chat/domain/event"
	"dm-chat/mocks"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type countingObserver struct {
	mu        sync.Mutex
	delivered map[event.Type]int
	failed    map[event.Type]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{delivered: map[event.Type]int{}, failed: map[event.Type]int{}}
}

func (o *countingObserver) EventDelivered(t event.Type) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.delivered[t]++
}

func (o *countingObserver) EventFailed(t event.Type) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed[t]++
}

func messageSent() event.MessageSent {
	return event.MessageSent{
		Message:      domain.Message{ID: 1, RoomID: 1, AuthorID: "demir", Content: "hello"},
		Participants: []domain.UserID{"demir", "eddie"},
	}
}

func TestEventFanoutWorker_Fanout(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)
	demirSink := mocks.NewMockEventSink(ctrl)
	eddieSink := mocks.NewMockEventSink(ctrl)
	observer := newCountingObserver()

	worker := NewEventFanoutWorker(log, nil, mockRegistry, observer, time.Second, permanentSink)
	evt := messageSent()

	// Given both participants are connected
	mockRegistry.EXPECT().
		GetSinksForUsers(domain.UserID("demir"), domain.UserID("eddie")).
		Return([]contract.EventSink{demirSink, eddieSink}).
		Times(1)

	// Then every sink consumes the event once
	for _, sink := range []*mocks.MockEventSink{permanentSink, demirSink, eddieSink} {
		sink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)
	}

	// When an event is handled by the worker
	worker.Fanout(context.Background(), evt)

	require.Equal(t, 3, observer.delivered[event.MessageSentType])
}

func TestEventFanoutWorker_SinkTimeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	slowSink := mocks.NewMockEventSink(ctrl)
	fastSink := mocks.NewMockEventSink(ctrl)
	observer := newCountingObserver()

	worker := NewEventFanoutWorker(log, nil, mockRegistry, observer, 20*time.Millisecond)

	mockRegistry.EXPECT().GetSinksForUsers(gomock.Any()).Return([]contract.EventSink{slowSink, fastSink}).Times(1)
	slowSink.EXPECT().ID().Return("slow").AnyTimes()
	slowSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.DomainEvent) error {
			<-ctx.Done()
			return ctx.Err()
		}).
		Times(1)
	fastSink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	// When the first sink never answers
	start := time.Now()
	worker.Fanout(context.Background(), messageSent())

	// Then the timeout releases it and the next sink still gets the event
	req.Less(time.Since(start), time.Second)
	req.Equal(1, observer.failed[event.MessageSentType])
	req.Equal(1, observer.delivered[event.MessageSentType])
}

func TestEventFanoutWorker_Run_Consumes_Channel_In_Order(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	sink := mocks.NewMockEventSink(ctrl)

	events := make(chan event.DomainEvent, 3)
	worker := NewEventFanoutWorker(log, events, mockRegistry, nil, time.Second)

	var mu sync.Mutex
	var received []domain.MessageID
	done := make(chan struct{})
	mockRegistry.EXPECT().GetSinksForUsers(gomock.Any()).Return([]contract.EventSink{sink}).Times(3)
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt event.DomainEvent) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, evt.(event.MessageSent).Message.ID)
			if len(received) == 3 {
				close(done)
			}
			return nil
		}).
		Times(3)

	for id := domain.MessageID(1); id <= 3; id++ {
		evt := messageSent()
		evt.Message.ID = id
		events <- evt
	}

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() { finished <- worker.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Events were not delivered in time")
	}
	cancel()
	req.NoError(<-finished)

	mu.Lock()
	defer mu.Unlock()
	req.Equal([]domain.MessageID{1, 2, 3}, received)
}
