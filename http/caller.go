package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/defendnet/backend/teamsrvc"
)

// Caller identifies the authenticated requester. Authentication itself is
// owned by the fronting proxy, which injects the team id and role headers
// after validating the session.
type Caller struct {
	TeamID int
	UserID int
	Role   teamsrvc.Color
}

type callerCtxKey struct{}

const (
	headerTeamID = "X-Team-Id"
	headerUserID = "X-User-Id"
	headerRole   = "X-Team-Role"
)

func callerMiddleware(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		role := teamsrvc.Color(r.Header.Get(headerRole))
		teamID, err := strconv.Atoi(r.Header.Get(headerTeamID))
		if err != nil || !role.Valid() {
			next.ServeHTTP(w, r)
			return
		}
		userID, _ := strconv.Atoi(r.Header.Get(headerUserID))

		caller := Caller{TeamID: teamID, UserID: userID, Role: role}
		ctx := context.WithValue(r.Context(), callerCtxKey{}, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hfn)
}

func callerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerCtxKey{}).(Caller)
	return caller, ok
}
