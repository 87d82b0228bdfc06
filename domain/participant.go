// Package domain contains core concepts of the chat system.
// This file defines participants and their per-room subscription state.
// No runtime, network, or storage logic should be added here.
package domain

import "time"

// UserID is the opaque, stable identifier of a user resolved by the identity layer.
type UserID string

type SubscriptionState int

const (
	Unsubscribed SubscriptionState = iota
	Subscribed
)

func (s SubscriptionState) String() string {
	if s == Subscribed {
		return "subscribed"
	}
	return "unsubscribed"
}

// Subscription is the (Room, User) relation. Only the two participants of a room hold one.
type Subscription struct {
	UserID            UserID
	State             SubscriptionState
	IsNew             bool // invitation never answered
	IsUnread          bool // flagged by the user, independent of the read marker
	JoinedAt          time.Time
	LastReadMessageID *MessageID
}

func (s Subscription) IsSubscribed() bool {
	return s.State == Subscribed
}

// Subscribe is idempotent: it reports false when nothing changed.
func (s *Subscription) Subscribe() bool {
	if s.State == Subscribed && !s.IsNew {
		return false
	}
	s.State = Subscribed
	s.IsNew = false
	return true
}

func (s *Subscription) Unsubscribe() bool {
	if s.State == Unsubscribed && !s.IsNew {
		return false
	}
	s.State = Unsubscribed
	s.IsNew = false
	return true
}

// MarkRead moves the read marker forward only.
func (s *Subscription) MarkRead(id MessageID) bool {
	if s.LastReadMessageID != nil && *s.LastReadMessageID >= id {
		return false
	}
	s.LastReadMessageID = &id
	return true
}

// MarkUnread sets the manual unread flag, reporting whether it changed.
func (s *Subscription) MarkUnread(unread bool) bool {
	if s.IsUnread == unread {
		return false
	}
	s.IsUnread = unread
	return true
}
