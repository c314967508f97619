// Package userdirectory is the capability boundary to the external user
// service. The core only ever uses it for enrichment and existence checks,
// never for authorization.
package userdirectory

import (
	"context"
	"strings"
)

// User is the identity data the external service exposes.
type User struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Directory looks users up by id or returns the whole list. GetUserByID
// returns (nil, nil) when the user does not exist.
type Directory interface {
	GetUserByID(ctx context.Context, userID int64) (*User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
}

// Index keys a user list by id for per-row enrichment without extra calls.
func Index(users []User) map[int64]User {
	out := make(map[int64]User, len(users))
	for _, u := range users {
		out[u.UserID] = u
	}
	return out
}

// MatchName returns the ids of users whose name contains fragment,
// case-insensitively.
func MatchName(users []User, fragment string) []int64 {
	needle := strings.ToLower(fragment)
	ids := make([]int64, 0)
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), needle) {
			ids = append(ids, u.UserID)
		}
	}
	return ids
}
