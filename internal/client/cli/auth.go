package cli

import (
	"context"
	"errors"

	"github.com/akash-siv/pen-and-paper/internal/client/client"
	"github.com/akash-siv/pen-and-paper/internal/client/notify"
	"github.com/akash-siv/pen-and-paper/internal/client/session"
	"github.com/akash-siv/pen-and-paper/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and authenticates against the
// server. On success the session (token and document ids) replaces any
// previous one and the app switches to online mode.
//
// When the server is unreachable the previous session, if any, stays in use
// so cached documents remain readable. The password is wiped before
// returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	sess, err := a.authService.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ctx, ModeOffline)
			notify.Warnf(ctx, a.notifier, "Server unavailable; continuing with cached documents")
			return err
		}
		notify.Failure(ctx, a.notifier, "Login unsuccessful", err)
		return err
	}

	a.setSession(sess)
	a.setMode(ctx, ModeOnline)
	notify.Successf(ctx, a.notifier, "Logged in; %d documents available", len(sess.Authorized))
	return nil
}

// Logout forgets the session and closes the open document. Cached documents
// stay on disk but are hidden until a session that owns them logs in.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		notify.Failure(ctx, a.notifier, "Logout failed", err)
		return err
	}
	a.setSession(session.Anonymous)
	a.viewer.Close()
	a.viewer = a.newViewer()
	a.search.Panel().Close()
	notify.Successf(ctx, a.notifier, "Logged out")
	return nil
}

// Status prints the session, connectivity and open document.
func (a *App) Status(ctx context.Context) error {
	sess := a.currentSession(ctx)

	user := sess.UserID
	if user == "" {
		user = sess.Subject()
	}
	switch {
	case !sess.Authenticated():
		a.printf("Not logged in\n")
	case user != "":
		a.printf("Logged in as %s, %d documents\n", user, len(sess.Authorized))
	default:
		a.printf("Logged in, %d documents\n", len(sess.Authorized))
	}

	if m := a.Mode(); m != "" {
		a.printf("Mode: %s\n", m)
	}
	if a.inbox != nil {
		a.printf("Inbox: %s\n", a.config.InboxDir)
	}
	if a.viewer.Record() != nil {
		a.printView()
	}
	return nil
}
