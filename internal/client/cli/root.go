package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.session.UserID != "" {
		s = a.session.UserID + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root restores the saved session (prompting for a login when there is
// none), starts the background watchers and runs the REPL until the user
// exits.
func (a *App) Root(ctx context.Context) {
	a.printf("Welcome to the pen-and-paper reader (type 'help' for commands)\n")

	sess := a.currentSession(ctx)
	if !sess.Authenticated() {
		_ = a.Login(ctx)
	} else {
		a.printf("Restored session with %d documents\n", len(sess.Authorized))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	if a.inbox != nil {
		if err := a.inbox.Watch(ctx); err != nil {
			a.log.Warn(ctx, "inbox disabled", "error", err)
			a.printf("Inbox disabled: %v\n", err)
		} else {
			defer func() {
				cancel()
				<-a.inbox.Done()
			}()
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
