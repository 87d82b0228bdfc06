//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"dm-chat/domain"
	"dm-chat/domain/event"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// used for logging and supervision.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives the events addressed to one user connection.
type EventSink interface {
	ID() string
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry maps users to their open connections. A user may hold several.
type IRegistry interface {
	GetSinksForUsers(userIDs ...domain.UserID) []EventSink
	Subscribe(userID domain.UserID, sink EventSink)
	Unsubscribe(userID domain.UserID, sinkID string)
	Count() int
}
