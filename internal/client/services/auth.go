// Package services contains application services for the reader client.
// This file defines the authentication service: login against the backend,
// logout, liveness probe and access to the persisted session.
package services

import (
	"context"
	"fmt"

	"github.com/akash-siv/pen-and-paper/internal/client/client"
	"github.com/akash-siv/pen-and-paper/internal/client/session"
	"github.com/akash-siv/pen-and-paper/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and persist the session.
//   - Logout: forget the session; cached documents stay in the store.
//   - Current: the persisted session, or session.Anonymous.
//   - Ping: check server liveness.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (session.Session, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (session.Session, error)
	Ping(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client and the
// session store.
type authService struct {
	client client.Client
	store  *session.Store
	log    logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and store.
func NewAuthService(c client.Client, store *session.Store, log logging.Logger) AuthService {
	return &authService{client: c, store: store, log: log.With("component", "auth")}
}

// Login authenticates and replaces any stored session with the new token
// and authorized document ids.
func (a *authService) Login(ctx context.Context, email string, password []byte) (session.Session, error) {
	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		return session.Anonymous, fmt.Errorf("login error: %w", err)
	}

	sess, err := a.store.Save(ctx, *res)
	if err != nil {
		return session.Anonymous, fmt.Errorf("session saving error: %w", err)
	}
	a.log.Info(ctx, "logged in", "user", sess.UserID, "documents", len(sess.Authorized))
	return sess, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) Current(ctx context.Context) (session.Session, error) {
	return a.store.Load(ctx)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
