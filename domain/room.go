package domain

import (
	"fmt"
	"time"
)

type RoomID uint64

// PairKey is the normalized, order independent key of a two-party room.
type PairKey struct {
	Low  UserID
	High UserID
}

func NewPairKey(a, b UserID) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}

// String prefixes the lower identifier with its length so that identifiers
// containing ':' cannot make two different pairs share a key.
func (p PairKey) String() string {
	return fmt.Sprintf("%d:%s:%s", len(p.Low), p.Low, p.High)
}

// Room is a conversation between exactly two users.
// Members[0] is always the creator, Members[1] the acceptor.
type Room struct {
	ID            RoomID
	Members       [2]Subscription
	CreatedAt     time.Time
	BumpedAt      time.Time
	LastMessageID *MessageID
}

// NewRoom builds a room where only the creator is subscribed.
func NewRoom(id RoomID, creator, acceptor UserID, at time.Time) Room {
	return Room{
		ID: id,
		Members: [2]Subscription{
			{UserID: creator, State: Subscribed, JoinedAt: at},
			{UserID: acceptor, State: Unsubscribed, IsNew: true, JoinedAt: at},
		},
		CreatedAt: at,
		BumpedAt:  at,
	}
}

func (r Room) Creator() UserID  { return r.Members[0].UserID }
func (r Room) Acceptor() UserID { return r.Members[1].UserID }

func (r Room) Pair() PairKey {
	return NewPairKey(r.Creator(), r.Acceptor())
}

func (r Room) Participants() []UserID {
	return []UserID{r.Creator(), r.Acceptor()}
}

// Member returns the subscription held by userID in this room.
func (r *Room) Member(userID UserID) (*Subscription, bool) {
	for i := range r.Members {
		if r.Members[i].UserID == userID {
			return &r.Members[i], true
		}
	}
	return nil, false
}

// Other returns the participant that is not userID.
func (r Room) Other(userID UserID) UserID {
	if r.Creator() == userID {
		return r.Acceptor()
	}
	return r.Creator()
}

// Bump records activity on the room, used to order room listings.
func (r *Room) Bump(messageID MessageID, at time.Time) {
	r.LastMessageID = &messageID
	if at.After(r.BumpedAt) {
		r.BumpedAt = at
	}
}
