// Package session holds the authenticated context the core operations need:
// the bearer token and the set of owner ids the user may access. A Session is
// passed explicitly into services; Store persists it between runs.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	Token      string
	UserID     string
	Authorized models.AuthorizedSet
}

// Anonymous is the zero session: no token, no access.
var Anonymous = Session{}

// BearerToken returns the token to send, or common.ErrNotAuthenticated when
// there is none or it is a JWT whose exp has passed. Non-JWT tokens are
// passed through unchecked.
func (s Session) BearerToken() (string, error) {
	return s.bearerToken(time.Now())
}

func (s Session) bearerToken(now time.Time) (string, error) {
	if s.Token == "" {
		return "", common.ErrNotAuthenticated
	}

	exp, err := expiry(s.Token)
	if err != nil {
		return s.Token, nil
	}
	if !exp.IsZero() && !now.Before(exp) {
		return "", fmt.Errorf("token expired at %s: %w", exp.Format(time.RFC3339), common.ErrNotAuthenticated)
	}
	return s.Token, nil
}

// Authenticated reports whether BearerToken would succeed.
func (s Session) Authenticated() bool {
	_, err := s.BearerToken()
	return err == nil
}

var errNotJWT = errors.New("not a jwt")

// expiry reads the exp claim without verifying the signature; the server
// still verifies every request.
func expiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, errNotJWT
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// Subject returns the JWT sub claim, or "" for opaque tokens.
func (s Session) Subject() string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}
