package repositories

import (
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type testStore struct {
	db       *badger.DB
	rooms    *RoomRepository
	messages *MessageRepository
	users    *UserRepository
}

// setupTestStore opens an in-memory Badger instance shared by all repositories.
func setupTestStore(t *testing.T) testStore {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	sequences, err := OpenSequences(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sequences.Release()
		_ = db.Close()
	})
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	return testStore{
		db:       db,
		rooms:    NewRoomRepository(db, log, sequences),
		messages: NewMessageRepository(db, log, sequences),
		users:    NewUserRepository(db),
	}
}
