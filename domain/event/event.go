// Package event defines the domain events published after a successful mutation.
// They are delivered best-effort to the participants' realtime connections.
package event

import (
	"dm-chat/domain"
	"time"
)

type Type string

const (
	RoomCreatedType       Type = "new_room"
	RoomSubscribedType    Type = "subscribe_room"
	RoomUnsubscribedType  Type = "unsubscribe_room"
	MessageSentType       Type = "new_message"
	MessageEditedType     Type = "edit_message"
	MessageDeletedType    Type = "delete_message"
	LastReadUpdatedType   Type = "updated_last_read_msg_id"
	UnreadFlagUpdatedType Type = "updated_unread_status"
)

type DomainEvent interface {
	RoomID() domain.RoomID
	Type() Type
	// Recipients are the users whose connections receive the event.
	Recipients() []domain.UserID
	OccurredAt() time.Time
}

type RoomCreated struct {
	Room domain.Room
	At   time.Time
}

func (e RoomCreated) RoomID() domain.RoomID       { return e.Room.ID }
func (e RoomCreated) Type() Type                  { return RoomCreatedType }
func (e RoomCreated) Recipients() []domain.UserID { return e.Room.Participants() }
func (e RoomCreated) OccurredAt() time.Time       { return e.At }

type RoomSubscribed struct {
	Room   domain.Room
	UserID domain.UserID
	At     time.Time
}

func (e RoomSubscribed) RoomID() domain.RoomID       { return e.Room.ID }
func (e RoomSubscribed) Type() Type                  { return RoomSubscribedType }
func (e RoomSubscribed) Recipients() []domain.UserID { return e.Room.Participants() }
func (e RoomSubscribed) OccurredAt() time.Time       { return e.At }

type RoomUnsubscribed struct {
	Room   domain.Room
	UserID domain.UserID
	At     time.Time
}

func (e RoomUnsubscribed) RoomID() domain.RoomID       { return e.Room.ID }
func (e RoomUnsubscribed) Type() Type                  { return RoomUnsubscribedType }
func (e RoomUnsubscribed) Recipients() []domain.UserID { return e.Room.Participants() }
func (e RoomUnsubscribed) OccurredAt() time.Time       { return e.At }

type MessageSent struct {
	Message      domain.Message
	Participants []domain.UserID
}

func (e MessageSent) RoomID() domain.RoomID       { return e.Message.RoomID }
func (e MessageSent) Type() Type                  { return MessageSentType }
func (e MessageSent) Recipients() []domain.UserID { return e.Participants }
func (e MessageSent) OccurredAt() time.Time       { return e.Message.CreatedAt }

type MessageEdited struct {
	Message      domain.Message
	Participants []domain.UserID
	At           time.Time
}

func (e MessageEdited) RoomID() domain.RoomID       { return e.Message.RoomID }
func (e MessageEdited) Type() Type                  { return MessageEditedType }
func (e MessageEdited) Recipients() []domain.UserID { return e.Participants }
func (e MessageEdited) OccurredAt() time.Time       { return e.At }

// MessageDeleted carries the redacted message, never the retained content.
type MessageDeleted struct {
	Message      domain.Message
	Participants []domain.UserID
	At           time.Time
}

func (e MessageDeleted) RoomID() domain.RoomID       { return e.Message.RoomID }
func (e MessageDeleted) Type() Type                  { return MessageDeletedType }
func (e MessageDeleted) Recipients() []domain.UserID { return e.Participants }
func (e MessageDeleted) OccurredAt() time.Time       { return e.At }

type LastReadUpdated struct {
	Room              domain.RoomID
	ReaderID          domain.UserID
	LastReadMessageID domain.MessageID
	Participants      []domain.UserID
	At                time.Time
}

func (e LastReadUpdated) RoomID() domain.RoomID       { return e.Room }
func (e LastReadUpdated) Type() Type                  { return LastReadUpdatedType }
func (e LastReadUpdated) Recipients() []domain.UserID { return e.Participants }
func (e LastReadUpdated) OccurredAt() time.Time       { return e.At }

// UnreadFlagUpdated only concerns the user who flagged the room.
type UnreadFlagUpdated struct {
	Room   domain.RoomID
	UserID domain.UserID
	Unread bool
	At     time.Time
}

func (e UnreadFlagUpdated) RoomID() domain.RoomID       { return e.Room }
func (e UnreadFlagUpdated) Type() Type                  { return UnreadFlagUpdatedType }
func (e UnreadFlagUpdated) Recipients() []domain.UserID { return []domain.UserID{e.UserID} }
func (e UnreadFlagUpdated) OccurredAt() time.Time       { return e.At }
