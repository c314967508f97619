package userdirectory

import (
	"context"
	"sort"
	"sync"
)

// StaticDirectory serves a fixed, mutable set of users from memory. Used in
// tests and for local runs without a user service.
type StaticDirectory struct {
	mu    sync.RWMutex
	users map[int64]User
	err   error
}

func NewStaticDirectory(users ...User) *StaticDirectory {
	d := &StaticDirectory{users: make(map[int64]User, len(users))}
	for _, u := range users {
		d.users[u.UserID] = u
	}
	return d
}

// Put adds or replaces a user.
func (d *StaticDirectory) Put(u User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.UserID] = u
}

// FailWith makes every subsequent call return err (nil clears it).
func (d *StaticDirectory) FailWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

func (d *StaticDirectory) GetUserByID(_ context.Context, userID int64) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.err != nil {
		return nil, d.err
	}
	u, ok := d.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (d *StaticDirectory) GetAllUsers(_ context.Context) ([]User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.err != nil {
		return nil, d.err
	}
	out := make([]User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
