package workers

import (
	"context"
	"dm-chat/contract"
	"dm-chat/domain/event"
	"log/slog"
	"time"
)

// DeliveryObserver is notified of every delivery attempt.
type DeliveryObserver interface {
	EventDelivered(eventType event.Type)
	EventFailed(eventType event.Type)
}

// EventFanoutWorker routes domain events to the connections of their recipients.
//
// Delivery is best-effort: no retries, no durability. A sink that fails or does not
// answer within the delivery timeout is skipped; the mutation that produced the event
// has already been committed. Events reach a given sink in publication order.
type EventFanoutWorker struct {
	log             *slog.Logger
	events          <-chan event.DomainEvent
	registry        contract.IRegistry
	permanentSinks  []contract.EventSink
	observer        DeliveryObserver
	deliveryTimeout time.Duration
}

func NewEventFanoutWorker(log *slog.Logger, events <-chan event.DomainEvent, registry contract.IRegistry,
	observer DeliveryObserver, deliveryTimeout time.Duration, permanentSinks ...contract.EventSink) *EventFanoutWorker {
	return &EventFanoutWorker{
		log:             log,
		events:          events,
		registry:        registry,
		permanentSinks:  permanentSinks,
		observer:        observer,
		deliveryTimeout: deliveryTimeout,
	}
}

func (w *EventFanoutWorker) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Event channel closed, stopping fan-out")
				return nil
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fan-out")
			return nil
		}
	}
}

// Fanout delivers one event to the permanent sinks and to every connection of its recipients.
func (w *EventFanoutWorker) Fanout(ctx context.Context, evt event.DomainEvent) {
	sinks := append(append([]contract.EventSink{}, w.permanentSinks...),
		w.registry.GetSinksForUsers(evt.Recipients()...)...)
	for _, sink := range sinks {
		w.deliver(ctx, sink, evt)
	}
}

func (w *EventFanoutWorker) deliver(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.deliveryTimeout)
	defer cancel()

	if err := sink.Consume(sinkCtx, evt); err != nil {
		w.log.Debug("Event not delivered", "sink", sink.ID(), "type", evt.Type(), "room_id", evt.RoomID(), "error", err)
		if w.observer != nil {
			w.observer.EventFailed(evt.Type())
		}
		return
	}
	if w.observer != nil {
		w.observer.EventDelivered(evt.Type())
	}
}
