package access

import (
	"dm-chat/domain"
	"dm-chat/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newRoom() domain.Room {
	return domain.NewRoom(1, "demir", "eddie", time.Now().UTC())
}

func TestPredicates(t *testing.T) {
	req := require.New(t)
	room := newRoom()

	req.True(IsParticipant(room, "demir"))
	req.True(IsParticipant(room, "eddie"))
	req.False(IsParticipant(room, "mallory"))

	req.True(IsSubscribed(room, "demir"))
	req.False(IsSubscribed(room, "eddie"))
	req.False(IsSubscribed(room, "mallory"))

	msg := domain.Message{ID: 1, AuthorID: "demir"}
	req.True(IsAuthor(msg, "demir"))
	req.False(IsAuthor(msg, "eddie"))
}

func TestCanRead(t *testing.T) {
	req := require.New(t)
	room := newRoom()

	// Given eddie never subscribed, reading is still allowed
	req.NoError(CanRead(room, "eddie"))
	req.ErrorIs(CanRead(room, "mallory"), errors.ErrForbidden)
}

func TestCanSend_Requires_Both_Members_Subscribed(t *testing.T) {
	req := require.New(t)
	room := newRoom()

	// Given only the creator is subscribed
	req.ErrorIs(CanSend(room, "demir"), errors.ErrForbidden)
	req.ErrorIs(CanSend(room, "eddie"), errors.ErrForbidden)
	req.ErrorIs(CanSend(room, "mallory"), errors.ErrForbidden)

	// When the acceptor subscribes
	member, _ := room.Member("eddie")
	member.Subscribe()

	// Then both can send, outsiders still cannot
	req.NoError(CanSend(room, "demir"))
	req.NoError(CanSend(room, "eddie"))
	req.ErrorIs(CanSend(room, "mallory"), errors.ErrForbidden)

	// When the creator leaves, nobody can send
	creator, _ := room.Member("demir")
	creator.Unsubscribe()
	req.ErrorIs(CanSend(room, "demir"), errors.ErrForbidden)
	req.ErrorIs(CanSend(room, "eddie"), errors.ErrForbidden)
}

func TestCanMutate(t *testing.T) {
	req := require.New(t)
	msg := domain.Message{ID: 1, AuthorID: "demir"}

	req.NoError(CanMutate(msg, "demir"))
	req.ErrorIs(CanMutate(msg, "eddie"), errors.ErrForbidden)
	req.ErrorIs(CanMutate(msg, "mallory"), errors.ErrForbidden)
}
