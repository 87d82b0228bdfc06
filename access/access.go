// Package access holds the authorization predicates shared by the room registry,
// the subscription manager and the message store. Every mutating operation goes
// through these checks instead of re-implementing them.
package access

import (
	"dm-chat/domain"
	"dm-chat/errors"
	"fmt"
)

func IsParticipant(room domain.Room, userID domain.UserID) bool {
	_, ok := room.Member(userID)
	return ok
}

func IsSubscribed(room domain.Room, userID domain.UserID) bool {
	member, ok := room.Member(userID)
	return ok && member.IsSubscribed()
}

func IsAuthor(message domain.Message, userID domain.UserID) bool {
	return message.AuthorID == userID
}

// CanRead allows any participant, whatever its subscription state.
func CanRead(room domain.Room, userID domain.UserID) error {
	if !IsParticipant(room, userID) {
		return fmt.Errorf("user %s is not a member of room %d: %w", userID, room.ID, errors.ErrForbidden)
	}
	return nil
}

// CanSend requires the caller and the other participant to be subscribed:
// a room is not live for messaging until both members joined it.
func CanSend(room domain.Room, userID domain.UserID) error {
	if err := CanRead(room, userID); err != nil {
		return err
	}
	if !IsSubscribed(room, userID) {
		return fmt.Errorf("user %s is not subscribed to room %d: %w", userID, room.ID, errors.ErrForbidden)
	}
	if !IsSubscribed(room, room.Other(userID)) {
		return fmt.Errorf("the other member of room %d is not subscribed: %w", room.ID, errors.ErrForbidden)
	}
	return nil
}

// CanMutate restricts edit and delete to the original author.
func CanMutate(message domain.Message, userID domain.UserID) error {
	if !IsAuthor(message, userID) {
		return fmt.Errorf("user %s is not the author of message %d: %w", userID, message.ID, errors.ErrForbidden)
	}
	return nil
}
