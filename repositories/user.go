//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"context"
	"dm-chat/domain"
	"dm-chat/errors"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, email, hashedPassword string) (domain.UserID, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UserExists(ctx context.Context, id domain.UserID) (bool, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

// User is the account record backing the identity adapter.
type User struct {
	ID           string    `cbor:"id"`
	Email        string    `cbor:"email"`
	PasswordHash string    `cbor:"password_hash"`
	Roles        []string  `cbor:"roles"`
	CreatedAt    time.Time `cbor:"created_at"`
}

// CreateUser persists the user under "user:{email}" and indexes its identifier
// under "userid:{id}". It returns the newly generated identifier.
func (u *UserRepository) CreateUser(ctx context.Context, email, hashedPassword string) (domain.UserID, error) {
	user := User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashedPassword,
		Roles:        []string{"user"},
		CreatedAt:    time.Now().UTC(),
	}

	err := update(ctx, u.db, func(txn *badger.Txn) error {
		key := []byte("user:" + email)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := setValue(txn, key, user); err != nil {
			return err
		}
		return txn.Set([]byte("userid:"+user.ID), []byte(email))
	})
	if err != nil {
		return "", err
	}
	return domain.UserID(user.ID), nil
}

func (u *UserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := view(ctx, u.db, func(txn *badger.Txn) error {
		return getValue(txn, []byte("user:"+email), &user)
	})
	if err != nil {
		return User{}, fmt.Errorf("user %s: %w", email, err)
	}
	return user, nil
}

func (u *UserRepository) UserExists(ctx context.Context, id domain.UserID) (bool, error) {
	err := view(ctx, u.db, func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("userid:" + string(id)))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case stderrors.Is(err, errors.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
