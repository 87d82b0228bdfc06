//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"dm-chat/domain"
	"dm-chat/errors"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	AppendMessage(ctx context.Context, draft domain.Message,
		authorize func(room domain.Room) error) (domain.Message, domain.Room, error)
	UpdateMessage(ctx context.Context, id domain.MessageID,
		fn func(room domain.Room, message *domain.Message) error) (domain.Message, domain.Room, error)
	GetMessage(ctx context.Context, id domain.MessageID) (domain.Message, error)
	ListMessages(ctx context.Context, roomID domain.RoomID, query MessageQuery) (MessagePage, error)
	CountUnread(ctx context.Context, roomID domain.RoomID, readerID domain.UserID, after *domain.MessageID) (int, error)
}

// MessageQuery selects a page of a room log, newest first from Before (exclusive).
type MessageQuery struct {
	Limit          int
	Before         *domain.MessageID
	IncludeDeleted bool
}

// MessagePage is returned in ascending identifier order.
// NextCursor is the Before value of the following, older page.
type MessagePage struct {
	Messages   []domain.Message
	NextCursor *domain.MessageID
	TotalCount int
}

type MessageRepository struct {
	db        *badger.DB
	log       *slog.Logger
	sequences *Sequences
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, sequences *Sequences) *MessageRepository {
	return &MessageRepository{db: db, log: log, sequences: sequences}
}

// AppendMessage stores a message at the end of its room log.
// The key is formatted as "msg:{room_id}:{message_id}", both padded to 20 digits, so a
// prefix scan returns the room log in insertion order. authorize runs against the room
// as read by the same transaction; the room is bumped with the new message.
func (m *MessageRepository) AppendMessage(ctx context.Context, draft domain.Message,
	authorize func(room domain.Room) error) (domain.Message, domain.Room, error) {
	var room domain.Room
	err := update(ctx, m.db, func(txn *badger.Txn) error {
		current, err := getRoom(txn, draft.RoomID)
		if err != nil {
			return err
		}
		if err = authorize(current); err != nil {
			return err
		}
		if draft.ParentID != nil {
			if err = checkParent(txn, draft.RoomID, *draft.ParentID); err != nil {
				return err
			}
		}
		if draft.ID, err = m.sequences.nextMessageID(); err != nil {
			return fmt.Errorf("next message id: %w", err)
		}
		if err = putMessage(txn, draft); err != nil {
			return err
		}
		room = current
		room.Bump(draft.ID, draft.CreatedAt)
		return putRoom(txn, room, &current)
	})
	if err != nil {
		return domain.Message{}, domain.Room{}, err
	}
	return draft, room, nil
}

// UpdateMessage applies fn to a stored message within one transaction.
func (m *MessageRepository) UpdateMessage(ctx context.Context, id domain.MessageID,
	fn func(room domain.Room, message *domain.Message) error) (domain.Message, domain.Room, error) {
	var message domain.Message
	var room domain.Room
	err := update(ctx, m.db, func(txn *badger.Txn) (err error) {
		if message, err = getMessage(txn, id); err != nil {
			return err
		}
		if room, err = getRoom(txn, message.RoomID); err != nil {
			return err
		}
		if err = fn(room, &message); err != nil {
			return err
		}
		return putMessage(txn, message)
	})
	if err != nil {
		return domain.Message{}, domain.Room{}, err
	}
	return message, room, nil
}

func (m *MessageRepository) GetMessage(ctx context.Context, id domain.MessageID) (domain.Message, error) {
	var message domain.Message
	err := view(ctx, m.db, func(txn *badger.Txn) (err error) {
		message, err = getMessage(txn, id)
		return err
	})
	return message, err
}

// ListMessages uses a reverse prefix scan starting right before the cursor.
// It stops once Limit messages are collected and reports whether older ones remain.
func (m *MessageRepository) ListMessages(ctx context.Context, roomID domain.RoomID,
	query MessageQuery) (MessagePage, error) {
	var page MessagePage
	err := view(ctx, m.db, func(txn *badger.Txn) error {
		prefix := messagePrefix(roomID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		// Beyond the highest possible padded identifier
		seekKey := append(slices.Clone(prefix), []byte("99999999999999999999")...)
		if query.Before != nil {
			seekKey = messageKey(roomID, *query.Before-1)
		}

		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if query.Before != nil && *query.Before <= 1 {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			var diskMessage DiskMessage
			if err := it.Item().Value(func(val []byte) error {
				return decode(val, &diskMessage)
			}); err != nil {
				return err
			}
			if diskMessage.Deleted && !query.IncludeDeleted {
				continue
			}
			if query.Limit > 0 && len(page.Messages) == query.Limit {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", query.Limit))
				oldest := page.Messages[len(page.Messages)-1].ID
				page.NextCursor = &oldest
				break
			}
			page.Messages = append(page.Messages, toMessage(diskMessage))
		}
		slices.Reverse(page.Messages)

		count, err := countMessages(txn, prefix, query.IncludeDeleted)
		page.TotalCount = count
		return err
	})
	return page, err
}

// CountUnread counts the live messages written by the other participant after the read marker.
func (m *MessageRepository) CountUnread(ctx context.Context, roomID domain.RoomID,
	readerID domain.UserID, after *domain.MessageID) (int, error) {
	count := 0
	err := view(ctx, m.db, func(txn *badger.Txn) error {
		prefix := messagePrefix(roomID)
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		start := prefix
		if after != nil {
			start = messageKey(roomID, *after+1)
		}
		for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
			var diskMessage DiskMessage
			if err := it.Item().Value(func(val []byte) error {
				return decode(val, &diskMessage)
			}); err != nil {
				return err
			}
			if !diskMessage.Deleted && domain.UserID(diskMessage.Author) != readerID {
				count++
			}
		}
		return nil
	})
	return count, err
}

// countMessages counts the room log under the same tombstone filter as the page.
// Keys alone are enough when tombstones are included.
func countMessages(txn *badger.Txn, prefix []byte, includeDeleted bool) (int, error) {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = !includeDeleted
	options.Prefix = prefix
	it := txn.NewIterator(options)
	defer it.Close()
	count := 0
	for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
		if !includeDeleted {
			var diskMessage DiskMessage
			if err := it.Item().Value(func(val []byte) error {
				return decode(val, &diskMessage)
			}); err != nil {
				return 0, err
			}
			if diskMessage.Deleted {
				continue
			}
		}
		count++
	}
	return count, nil
}

func putMessage(txn *badger.Txn, message domain.Message) error {
	if err := setValue(txn, messageKey(message.RoomID, message.ID), fromMessage(message)); err != nil {
		return err
	}
	return setValue(txn, messageIndexKey(message.ID), uint64(message.RoomID))
}

func getMessage(txn *badger.Txn, id domain.MessageID) (domain.Message, error) {
	roomID, err := getRoomID(txn, messageIndexKey(id))
	if err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return domain.Message{}, fmt.Errorf("message %d: %w", id, errors.ErrNotFound)
		}
		return domain.Message{}, err
	}
	var diskMessage DiskMessage
	if err = getValue(txn, messageKey(roomID, id), &diskMessage); err != nil {
		return domain.Message{}, fmt.Errorf("message %d of room %d: %w", id, roomID, err)
	}
	return toMessage(diskMessage), nil
}

func checkParent(txn *badger.Txn, roomID domain.RoomID, parentID domain.MessageID) error {
	parentRoom, err := getRoomID(txn, messageIndexKey(parentID))
	switch {
	case stderrors.Is(err, badger.ErrKeyNotFound):
		return fmt.Errorf("parent message %d does not exist: %w", parentID, errors.ErrValidation)
	case err != nil:
		return err
	case parentRoom != roomID:
		return fmt.Errorf("parent message %d belongs to another room: %w", parentID, errors.ErrValidation)
	}
	return nil
}
