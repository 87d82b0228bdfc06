// Package dto holds the JSON representations shared by the HTTP API and the realtime frames.
package dto

import (
	"dm-chat/domain"
	"dm-chat/domain/event"
	"time"
)

type Message struct {
	ID              domain.MessageID  `json:"id"`
	RoomID          domain.RoomID     `json:"roomId"`
	AuthorID        domain.UserID     `json:"authorId"`
	Content         string            `json:"content"`
	ParentMessageID *domain.MessageID `json:"parentMessageId,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	EditedAt        *time.Time        `json:"editedAt,omitempty"`
	Deleted         bool              `json:"deleted"`
	DeletedAt       *time.Time        `json:"deletedAt,omitempty"`
}

type Member struct {
	UserID            domain.UserID     `json:"userId"`
	State             string            `json:"state"`
	IsNew             bool              `json:"isNew"`
	IsUnread          bool              `json:"isUnread"`
	JoinedAt          time.Time         `json:"joinedAt"`
	LastReadMessageID *domain.MessageID `json:"lastReadMessageId,omitempty"`
}

type Room struct {
	ID            domain.RoomID     `json:"id"`
	Members       []Member          `json:"members"`
	CreatedAt     time.Time         `json:"createdAt"`
	BumpedAt      time.Time         `json:"bumpedAt"`
	LastMessageID *domain.MessageID `json:"lastMessageId,omitempty"`
}

type RoomView struct {
	Room
	LastMessage    *Message `json:"lastMessage,omitempty"`
	UnreadMessages int      `json:"unreadMessages"`
}

type MessagePage struct {
	Messages   []Message         `json:"messages"`
	NextCursor *domain.MessageID `json:"nextCursor,omitempty"`
	TotalCount int               `json:"totalCount"`
}

// Frame is pushed on realtime connections.
type Frame struct {
	Type event.Type `json:"type"`
	Body any        `json:"body"`
}

type SubscriptionChange struct {
	Room   Room          `json:"room"`
	UserID domain.UserID `json:"userId"`
}

type UnreadFlag struct {
	RoomID   domain.RoomID `json:"roomId"`
	UserID   domain.UserID `json:"userId"`
	IsUnread bool          `json:"isUnread"`
}

type LastRead struct {
	RoomID            domain.RoomID    `json:"roomId"`
	UserID            domain.UserID    `json:"userId"`
	LastReadMessageID domain.MessageID `json:"lastReadMessageId"`
}

// FromMessage never exposes the content of a tombstone.
func FromMessage(message domain.Message) Message {
	message = message.Redacted()
	return Message{
		ID:              message.ID,
		RoomID:          message.RoomID,
		AuthorID:        message.AuthorID,
		Content:         message.Content,
		ParentMessageID: message.ParentID,
		CreatedAt:       message.CreatedAt,
		EditedAt:        message.EditedAt,
		Deleted:         message.Deleted,
		DeletedAt:       message.DeletedAt,
	}
}

func FromMessages(messages []domain.Message) []Message {
	out := make([]Message, len(messages))
	for i, message := range messages {
		out[i] = FromMessage(message)
	}
	return out
}

func FromRoom(room domain.Room) Room {
	members := make([]Member, len(room.Members))
	for i, member := range room.Members {
		members[i] = Member{
			UserID:            member.UserID,
			State:             member.State.String(),
			IsNew:             member.IsNew,
			IsUnread:          member.IsUnread,
			JoinedAt:          member.JoinedAt,
			LastReadMessageID: member.LastReadMessageID,
		}
	}
	return Room{
		ID:            room.ID,
		Members:       members,
		CreatedAt:     room.CreatedAt,
		BumpedAt:      room.BumpedAt,
		LastMessageID: room.LastMessageID,
	}
}

func FromRoomView(room domain.Room, lastMessage *domain.Message, unread int) RoomView {
	view := RoomView{Room: FromRoom(room), UnreadMessages: unread}
	if lastMessage != nil {
		last := FromMessage(*lastMessage)
		view.LastMessage = &last
	}
	return view
}

// FromEvent builds the realtime frame of a domain event. It returns false for
// events that have no realtime representation.
func FromEvent(e event.DomainEvent) (Frame, bool) {
	var body any
	switch evt := e.(type) {
	case event.RoomCreated:
		body = FromRoom(evt.Room)
	case event.RoomSubscribed:
		body = SubscriptionChange{Room: FromRoom(evt.Room), UserID: evt.UserID}
	case event.RoomUnsubscribed:
		body = SubscriptionChange{Room: FromRoom(evt.Room), UserID: evt.UserID}
	case event.MessageSent:
		body = FromMessage(evt.Message)
	case event.MessageEdited:
		body = FromMessage(evt.Message)
	case event.MessageDeleted:
		body = FromMessage(evt.Message)
	case event.LastReadUpdated:
		body = LastRead{RoomID: evt.Room, UserID: evt.ReaderID, LastReadMessageID: evt.LastReadMessageID}
	case event.UnreadFlagUpdated:
		body = UnreadFlag{RoomID: evt.Room, UserID: evt.UserID, IsUnread: evt.Unread}
	default:
		return Frame{}, false
	}
	return Frame{Type: e.Type(), Body: body}, true
}
