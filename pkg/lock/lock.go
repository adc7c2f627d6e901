// Package lock provides per-room mutual exclusion for check-then-mutate
// sequences on bookings.
package lock

import (
	"context"
	"slices"
)

// Locker acquires exclusive ownership of a set of keys. The returned unlock
// func is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// normalize sorts and de-duplicates keys so that two callers locking the same
// pair of rooms always acquire them in the same order.
func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// RoomKey is the lock key guarding all bookings of one room.
func RoomKey(roomID string) string {
	return "room:" + roomID
}
