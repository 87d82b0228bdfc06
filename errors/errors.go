package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrInvalidParticipants = fmt.Errorf("invalid participants")
	ErrRoomAlreadyExists   = fmt.Errorf("room already exists")
	ErrNotFound            = fmt.Errorf("not found")
	ErrForbidden           = fmt.Errorf("forbidden")
	ErrValidation          = fmt.Errorf("validation error")
	// ErrStorageConflict is transient, the caller may retry.
	ErrStorageConflict = fmt.Errorf("storage conflict")

	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrUnauthenticated    = fmt.Errorf("unauthenticated")

	ErrSinkClosed    = fmt.Errorf("sink closed")
	ErrSinkSaturated = fmt.Errorf("sink buffer exceeded")
)

// RoomExistsError carries the identifier of the room already holding a participant pair.
type RoomExistsError struct {
	RoomID uint64
}

func (e RoomExistsError) Error() string {
	return fmt.Sprintf("%s: room %d", ErrRoomAlreadyExists, e.RoomID)
}

func (e RoomExistsError) Unwrap() error {
	return ErrRoomAlreadyExists
}
