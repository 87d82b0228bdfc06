package repositories

import (
	"context"
	"dm-chat/domain"
	"dm-chat/errors"
	stderrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	roomSequenceKey    = "seq:room"
	messageSequenceKey = "seq:message"
	// Number of identifiers leased per sequence round trip. Leased but unused
	// identifiers are lost on restart, which leaves gaps but never reuses one.
	sequenceBandwidth = 100
)

// Sequences hands out room and message identifiers. Both are strictly increasing.
type Sequences struct {
	room    *badger.Sequence
	message *badger.Sequence
}

func OpenSequences(db *badger.DB) (*Sequences, error) {
	room, err := db.GetSequence([]byte(roomSequenceKey), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("room sequence: %w", err)
	}
	message, err := db.GetSequence([]byte(messageSequenceKey), sequenceBandwidth)
	if err != nil {
		_ = room.Release()
		return nil, fmt.Errorf("message sequence: %w", err)
	}
	return &Sequences{room: room, message: message}, nil
}

// Release returns the unused leases so they are not lost on a clean shutdown.
func (s *Sequences) Release() error {
	return stderrors.Join(s.room.Release(), s.message.Release())
}

// Badger sequences start at zero, identifiers start at one.
func (s *Sequences) nextRoomID() (domain.RoomID, error) {
	n, err := s.room.Next()
	return domain.RoomID(n + 1), err
}

func (s *Sequences) nextMessageID() (domain.MessageID, error) {
	n, err := s.message.Next()
	return domain.MessageID(n + 1), err
}

// Keys are zero padded to 20 digits so lexicographical order is numerical order.
func roomKey(id domain.RoomID) []byte {
	return []byte(fmt.Sprintf("room:%020d", id))
}

func subscriptionKey(id domain.RoomID, userID domain.UserID) []byte {
	return []byte(fmt.Sprintf("sub:%020d:%s", id, userID))
}

func pairKey(pair domain.PairKey) []byte {
	return []byte("pair:" + pair.String())
}

func memberPrefix(userID domain.UserID) []byte {
	return []byte(fmt.Sprintf("member:%s:", userID))
}

func memberKey(userID domain.UserID, id domain.RoomID) []byte {
	return []byte(fmt.Sprintf("member:%s:%020d", userID, id))
}

func messagePrefix(roomID domain.RoomID) []byte {
	return []byte(fmt.Sprintf("msg:%020d:", roomID))
}

func messageKey(roomID domain.RoomID, id domain.MessageID) []byte {
	return []byte(fmt.Sprintf("msg:%020d:%020d", roomID, id))
}

func messageIndexKey(id domain.MessageID) []byte {
	return []byte(fmt.Sprintf("msgidx:%020d", id))
}

// update runs fn in a read-write transaction. A cancelled context discards the
// transaction before commit so no partial state is ever written.
func update(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapBadgerError(db.Update(func(txn *badger.Txn) error {
		if err := fn(txn); err != nil {
			return err
		}
		return ctx.Err()
	}))
}

func view(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapBadgerError(db.View(fn))
}

func mapBadgerError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, badger.ErrConflict):
		return fmt.Errorf("%w: %v", errors.ErrStorageConflict, err)
	case stderrors.Is(err, badger.ErrKeyNotFound):
		return fmt.Errorf("%w: %v", errors.ErrNotFound, err)
	default:
		return err
	}
}

func getValue(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return decode(val, v)
	})
}

func setValue(txn *badger.Txn, key []byte, v any) error {
	data, err := encode(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}
