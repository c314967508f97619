package e2e

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// StubUser is served by the stub user directory.
type StubUser struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// NewUserDirectoryStub serves the two user service endpoints the customer
// service calls.
func NewUserDirectoryStub(users ...StubUser) http.Handler {
	byID := make(map[int64]StubUser, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, users)
	})
	mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/users/"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		u, ok := byID[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, u)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
