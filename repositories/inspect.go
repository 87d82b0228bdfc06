package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// InspectRow is a human readable view of one stored key.
type InspectRow struct {
	Key    string
	Kind   string
	Detail string
}

// Scan walks the keys under prefix in order and describes each of them.
// A limit of zero scans everything.
func Scan(ctx context.Context, db *badger.DB, prefix string, limit int, fn func(InspectRow) error) error {
	return view(ctx, db, func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		seen := 0
		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if limit > 0 && seen == limit {
				return nil
			}
			key := string(it.Item().KeyCopy(nil))
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			if err = fn(describe(key, value)); err != nil {
				return err
			}
			seen++
		}
		return nil
	})
}

func describe(key string, value []byte) InspectRow {
	kind, _, _ := strings.Cut(key, ":")
	row := InspectRow{Key: key, Kind: kind}
	var err error
	switch kind {
	case "room":
		var room DiskRoom
		if err = decode(value, &room); err == nil {
			row.Detail = fmt.Sprintf("%s -> %s, bumped %s", room.Creator, room.Acceptor, room.BumpedAt.Format("2006-01-02 15:04:05"))
		}
	case "sub":
		var sub DiskSubscription
		if err = decode(value, &sub); err == nil {
			row.Detail = fmt.Sprintf("%s subscribed=%t new=%t read=%s", sub.UserID, sub.Subscribed, sub.IsNew, optional(sub.LastReadMessageID))
		}
	case "msg":
		var message DiskMessage
		if err = decode(value, &message); err == nil {
			row.Detail = fmt.Sprintf("#%d by %s: %q", message.ID, message.Author, message.Content)
			if message.Deleted {
				row.Detail = fmt.Sprintf("#%d by %s: deleted", message.ID, message.Author)
			}
		}
	case "user":
		var user User
		if err = decode(value, &user); err == nil {
			row.Detail = fmt.Sprintf("%s %v", user.ID, user.Roles)
		}
	case "pair", "msgidx":
		var roomID uint64
		if err = decode(value, &roomID); err == nil {
			row.Detail = fmt.Sprintf("room %d", roomID)
		}
	case "userid":
		row.Detail = string(value)
	case "member":
		row.Detail = "index"
	default:
		row.Detail = fmt.Sprintf("%d bytes", len(value))
	}
	if err != nil {
		row.Detail = fmt.Sprintf("undecodable: %v", err)
	}
	return row
}

func optional(id *uint64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(*id)
}
