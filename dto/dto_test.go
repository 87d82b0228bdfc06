package dto

import (
	"dm-chat/domain"
	"dm-chat/domain/event"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFromMessage_Hides_Tombstone_Content(t *testing.T) {
	req := require.New(t)
	message := domain.Message{ID: 3, RoomID: 1, AuthorID: "demir", Content: "secret", CreatedAt: at}
	message.Delete(at)

	out := FromMessage(message)

	req.True(out.Deleted)
	req.Empty(out.Content)
	req.Equal(&at, out.DeletedAt)
}

func TestFromRoomView(t *testing.T) {
	req := require.New(t)
	room := domain.NewRoom(1, "demir", "eddie", at)
	last := domain.Message{ID: 7, RoomID: 1, AuthorID: "demir", Content: "hello", CreatedAt: at}
	room.Bump(last.ID, at)

	view := FromRoomView(room, &last, 1)

	req.Equal(domain.RoomID(1), view.ID)
	req.Equal("subscribed", view.Members[0].State)
	req.Equal("unsubscribed", view.Members[1].State)
	req.True(view.Members[1].IsNew)
	req.Equal("hello", view.LastMessage.Content)

	// Embedded room fields are flattened in JSON
	data, err := json.Marshal(view)
	req.NoError(err)
	var decoded map[string]any
	req.NoError(json.Unmarshal(data, &decoded))
	req.Equal(float64(1), decoded["id"])
	req.Equal(float64(1), decoded["unreadMessages"])
	req.Equal(float64(7), decoded["lastMessageId"])
	members := decoded["members"].([]any)
	req.Equal(false, members[1].(map[string]any)["isUnread"])
}

func TestFromEvent(t *testing.T) {
	req := require.New(t)
	room := domain.NewRoom(1, "demir", "eddie", at)
	message := domain.Message{ID: 2, RoomID: 1, AuthorID: "eddie", Content: "hi", CreatedAt: at}
	participants := room.Participants()

	tests := []struct {
		evt      event.DomainEvent
		expected event.Type
	}{
		{event.RoomCreated{Room: room, At: at}, "new_room"},
		{event.RoomSubscribed{Room: room, UserID: "eddie", At: at}, "subscribe_room"},
		{event.RoomUnsubscribed{Room: room, UserID: "eddie", At: at}, "unsubscribe_room"},
		{event.MessageSent{Message: message, Participants: participants}, "new_message"},
		{event.MessageEdited{Message: message, Participants: participants, At: at}, "edit_message"},
		{event.MessageDeleted{Message: message, Participants: participants, At: at}, "delete_message"},
		{event.LastReadUpdated{Room: 1, ReaderID: "demir", LastReadMessageID: 2, Participants: participants, At: at}, "updated_last_read_msg_id"},
		{event.UnreadFlagUpdated{Room: 1, UserID: "eddie", Unread: true, At: at}, "updated_unread_status"},
	}
	for _, tt := range tests {
		frame, ok := FromEvent(tt.evt)
		req.True(ok)
		req.Equal(tt.expected, frame.Type)
		req.NotNil(frame.Body)
	}

	frame, _ := FromEvent(event.LastReadUpdated{Room: 1, ReaderID: "demir", LastReadMessageID: 2})
	req.Equal(LastRead{RoomID: 1, UserID: "demir", LastReadMessageID: 2}, frame.Body)

	frame, _ = FromEvent(event.UnreadFlagUpdated{Room: 1, UserID: "eddie", Unread: true})
	req.Equal(UnreadFlag{RoomID: 1, UserID: "eddie", IsUnread: true}, frame.Body)
}
