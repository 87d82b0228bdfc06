//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"bytes"
	"context"
	"dm-chat/domain"
	"dm-chat/errors"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

type IRoomRepository interface {
	CreateRoom(ctx context.Context, room domain.Room, initial *domain.Message) (domain.Room, *domain.Message, error)
	GetRoom(ctx context.Context, id domain.RoomID) (domain.Room, error)
	UpdateRoom(ctx context.Context, id domain.RoomID, fn func(room *domain.Room) error) (domain.Room, error)
	ListRoomsForUser(ctx context.Context, userID domain.UserID) ([]domain.Room, error)
}

type RoomRepository struct {
	db        *badger.DB
	log       *slog.Logger
	sequences *Sequences
}

func NewRoomRepository(db *badger.DB, log *slog.Logger, sequences *Sequences) *RoomRepository {
	return &RoomRepository{db: db, log: log, sequences: sequences}
}

// CreateRoom persists a room, both subscriptions and the optional initial message
// in a single transaction. The pair key "pair:{len(low)}:{low}:{high}" is the uniqueness
// constraint: it is read and written in the same transaction, so two concurrent
// creations for the same pair cannot both commit.
func (r *RoomRepository) CreateRoom(ctx context.Context, room domain.Room,
	initial *domain.Message) (domain.Room, *domain.Message, error) {
	pair := pairKey(room.Pair())
	err := update(ctx, r.db, func(txn *badger.Txn) error {
		existing, err := getRoomID(txn, pair)
		switch {
		case err == nil:
			return errors.RoomExistsError{RoomID: uint64(existing)}
		case !stderrors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		if room.ID, err = r.sequences.nextRoomID(); err != nil {
			return fmt.Errorf("next room id: %w", err)
		}
		if err = setValue(txn, pair, uint64(room.ID)); err != nil {
			return err
		}
		for _, member := range room.Members {
			if err = txn.Set(memberKey(member.UserID, room.ID), nil); err != nil {
				return err
			}
		}

		if initial != nil {
			if initial.ID, err = r.sequences.nextMessageID(); err != nil {
				return fmt.Errorf("next message id: %w", err)
			}
			initial.RoomID = room.ID
			if err = putMessage(txn, *initial); err != nil {
				return err
			}
			room.Bump(initial.ID, initial.CreatedAt)
		}
		return putRoom(txn, room, nil)
	})
	if err != nil {
		return domain.Room{}, nil, err
	}
	r.log.Debug("Room created", "room_id", room.ID, "pair", room.Pair().String())
	return room, initial, nil
}

func (r *RoomRepository) GetRoom(ctx context.Context, id domain.RoomID) (domain.Room, error) {
	var room domain.Room
	err := view(ctx, r.db, func(txn *badger.Txn) (err error) {
		room, err = getRoom(txn, id)
		return err
	})
	return room, err
}

// UpdateRoom loads the room and applies fn inside one transaction, then writes back
// only the records fn changed. An error from fn aborts the transaction.
func (r *RoomRepository) UpdateRoom(ctx context.Context, id domain.RoomID,
	fn func(room *domain.Room) error) (domain.Room, error) {
	var room domain.Room
	err := update(ctx, r.db, func(txn *badger.Txn) error {
		current, err := getRoom(txn, id)
		if err != nil {
			return err
		}
		room = current
		if err = fn(&room); err != nil {
			return err
		}
		return putRoom(txn, room, &current)
	})
	if err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

// ListRoomsForUser walks the "member:{user}:" index. Order is by room identifier.
func (r *RoomRepository) ListRoomsForUser(ctx context.Context, userID domain.UserID) ([]domain.Room, error) {
	var rooms []domain.Room
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		prefix := memberPrefix(userID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := it.Item().Key()
			// A user id containing ':' could share the prefix of a shorter one
			if len(key) != len(prefix)+20 {
				continue
			}
			id, err := strconv.ParseUint(string(key[len(prefix):]), 10, 64)
			if err != nil {
				r.log.Warn("Skipping malformed member key", "key", string(key), "error", err)
				continue
			}
			room, err := getRoom(txn, domain.RoomID(id))
			if err != nil {
				return err
			}
			rooms = append(rooms, room)
		}
		return nil
	})
	return rooms, err
}

func getRoomID(txn *badger.Txn, key []byte) (domain.RoomID, error) {
	var id uint64
	if err := getValue(txn, key, &id); err != nil {
		return 0, err
	}
	return domain.RoomID(id), nil
}

func getRoom(txn *badger.Txn, id domain.RoomID) (domain.Room, error) {
	var diskRoom DiskRoom
	if err := getValue(txn, roomKey(id), &diskRoom); err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return domain.Room{}, fmt.Errorf("room %d: %w", id, errors.ErrNotFound)
		}
		return domain.Room{}, err
	}
	var creator, acceptor DiskSubscription
	if err := getValue(txn, subscriptionKey(id, domain.UserID(diskRoom.Creator)), &creator); err != nil {
		return domain.Room{}, fmt.Errorf("creator subscription of room %d: %w", id, err)
	}
	if err := getValue(txn, subscriptionKey(id, domain.UserID(diskRoom.Acceptor)), &acceptor); err != nil {
		return domain.Room{}, fmt.Errorf("acceptor subscription of room %d: %w", id, err)
	}
	return toRoom(diskRoom, creator, acceptor), nil
}

// putRoom writes the room record and its subscriptions. When previous is given,
// unchanged records are skipped so that a subscription change never conflicts
// with a transaction that only touched the other member.
func putRoom(txn *badger.Txn, room domain.Room, previous *domain.Room) error {
	if err := putIfChanged(txn, roomKey(room.ID), fromRoom(room), previousRoom(previous)); err != nil {
		return err
	}
	for i, member := range room.Members {
		var before any
		if previous != nil {
			before = fromSubscription(previous.Members[i])
		}
		if err := putIfChanged(txn, subscriptionKey(room.ID, member.UserID), fromSubscription(member), before); err != nil {
			return err
		}
	}
	return nil
}

func previousRoom(previous *domain.Room) any {
	if previous == nil {
		return nil
	}
	return fromRoom(*previous)
}

func putIfChanged(txn *badger.Txn, key []byte, value, before any) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	if before != nil {
		old, err := encode(before)
		if err != nil {
			return err
		}
		if bytes.Equal(old, data) {
			return nil
		}
	}
	return txn.Set(key, data)
}
