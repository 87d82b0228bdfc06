package repositories

import (
	"dm-chat/domain"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Values are stored as CBOR. Timestamps keep nanoseconds.
var encMode = func() cbor.EncMode {
	mode, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor encoding mode: %v", err))
	}
	return mode
}()

func encode(v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return data, nil
}

func decode(data []byte, v any) error {
	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}

type DiskRoom struct {
	ID            uint64    `cbor:"id"`
	Creator       string    `cbor:"creator"`
	Acceptor      string    `cbor:"acceptor"`
	CreatedAt     time.Time `cbor:"created_at"`
	BumpedAt      time.Time `cbor:"bumped_at"`
	LastMessageID *uint64   `cbor:"last_message_id,omitempty"`
}

type DiskSubscription struct {
	UserID            string    `cbor:"user_id"`
	Subscribed        bool      `cbor:"subscribed"`
	IsNew             bool      `cbor:"is_new"`
	IsUnread          bool      `cbor:"is_unread,omitempty"`
	JoinedAt          time.Time `cbor:"joined_at"`
	LastReadMessageID *uint64   `cbor:"last_read_message_id,omitempty"`
}

type DiskMessage struct {
	ID        uint64     `cbor:"id"`
	Room      uint64     `cbor:"room"`
	Author    string     `cbor:"author"`
	Content   string     `cbor:"content"`
	ParentID  *uint64    `cbor:"parent_id,omitempty"`
	At        time.Time  `cbor:"at"`
	EditedAt  *time.Time `cbor:"edited_at,omitempty"`
	Deleted   bool       `cbor:"deleted"`
	DeletedAt *time.Time `cbor:"deleted_at,omitempty"`
}

func fromRoom(room domain.Room) DiskRoom {
	return DiskRoom{
		ID:            uint64(room.ID),
		Creator:       string(room.Creator()),
		Acceptor:      string(room.Acceptor()),
		CreatedAt:     room.CreatedAt,
		BumpedAt:      room.BumpedAt,
		LastMessageID: (*uint64)(room.LastMessageID),
	}
}

func toRoom(room DiskRoom, creator, acceptor DiskSubscription) domain.Room {
	return domain.Room{
		ID:            domain.RoomID(room.ID),
		Members:       [2]domain.Subscription{toSubscription(creator), toSubscription(acceptor)},
		CreatedAt:     room.CreatedAt,
		BumpedAt:      room.BumpedAt,
		LastMessageID: (*domain.MessageID)(room.LastMessageID),
	}
}

func fromSubscription(sub domain.Subscription) DiskSubscription {
	return DiskSubscription{
		UserID:            string(sub.UserID),
		Subscribed:        sub.IsSubscribed(),
		IsNew:             sub.IsNew,
		IsUnread:          sub.IsUnread,
		JoinedAt:          sub.JoinedAt,
		LastReadMessageID: (*uint64)(sub.LastReadMessageID),
	}
}

func toSubscription(sub DiskSubscription) domain.Subscription {
	state := domain.Unsubscribed
	if sub.Subscribed {
		state = domain.Subscribed
	}
	return domain.Subscription{
		UserID:            domain.UserID(sub.UserID),
		State:             state,
		IsNew:             sub.IsNew,
		IsUnread:          sub.IsUnread,
		JoinedAt:          sub.JoinedAt,
		LastReadMessageID: (*domain.MessageID)(sub.LastReadMessageID),
	}
}

func fromMessage(message domain.Message) DiskMessage {
	return DiskMessage{
		ID:        uint64(message.ID),
		Room:      uint64(message.RoomID),
		Author:    string(message.AuthorID),
		Content:   message.Content,
		ParentID:  (*uint64)(message.ParentID),
		At:        message.CreatedAt,
		EditedAt:  message.EditedAt,
		Deleted:   message.Deleted,
		DeletedAt: message.DeletedAt,
	}
}

func toMessage(message DiskMessage) domain.Message {
	return domain.Message{
		ID:        domain.MessageID(message.ID),
		RoomID:    domain.RoomID(message.Room),
		AuthorID:  domain.UserID(message.Author),
		Content:   message.Content,
		ParentID:  (*domain.MessageID)(message.ParentID),
		CreatedAt: message.At,
		EditedAt:  message.EditedAt,
		Deleted:   message.Deleted,
		DeletedAt: message.DeletedAt,
	}
}
