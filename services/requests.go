package services

import (
	"dm-chat/domain"
	"dm-chat/errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type CreateRoomRequest struct {
	CreatorID      domain.UserID `validate:"required"`
	AcceptorID     domain.UserID `validate:"required,nefield=CreatorID"`
	InitialMessage *string
}

type SendMessageRequest struct {
	RoomID   domain.RoomID `validate:"required"`
	AuthorID domain.UserID `validate:"required"`
	Content  string
	ParentID *domain.MessageID
}

type EditMessageRequest struct {
	MessageID domain.MessageID `validate:"required"`
	CallerID  domain.UserID    `validate:"required"`
	Content   string
}

type ListMessagesRequest struct {
	RoomID   domain.RoomID `validate:"required"`
	CallerID domain.UserID `validate:"required"`
	Limit    int           `validate:"gte=0"`
	Before   *domain.MessageID
	// IncludeDeleted defaults to true when nil.
	IncludeDeleted *bool
}

type MarkReadRequest struct {
	RoomID    domain.RoomID    `validate:"required"`
	CallerID  domain.UserID    `validate:"required"`
	MessageID domain.MessageID `validate:"required"`
}

type MarkUnreadRequest struct {
	RoomID   domain.RoomID `validate:"required"`
	CallerID domain.UserID `validate:"required"`
	Unread   bool
}

func validateCreateRoom(req CreateRoomRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidParticipants, err)
	}
	return nil
}

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	return nil
}

// checkContent rejects blank content and content longer than maxLength runes.
// A zero maxLength disables the upper bound.
func checkContent(content string, maxLength int) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is empty", errors.ErrValidation)
	}
	if maxLength > 0 && utf8.RuneCountInString(content) > maxLength {
		return fmt.Errorf("%w: content exceeds %d characters", errors.ErrValidation, maxLength)
	}
	return nil
}
