package cli

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/akash-siv/pen-and-paper/internal/client/client"
	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/notify"
	"github.com/akash-siv/pen-and-paper/internal/client/render/rendertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginResult(ids ...string) *models.LoginResult {
	return &models.LoginResult{AccessToken: "opaque-token", TokenType: "bearer", UserID: "u1", BookIDs: ids}
}

func TestLogin_Success(t *testing.T) {
	h := newHarness(t, &fakeClient{login: loginResult("b1", "b2")})
	h.login(t)

	assert.True(t, h.app.isLoggedIn())
	assert.Equal(t, "(u1 online)", h.app.getStatus())
	last := h.lastNotice(t)
	assert.Equal(t, notify.Success, last.Level)
	assert.Contains(t, last.Message, "2 documents")

	stored, err := h.sessions.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.AuthorizedSet{"b1", "b2"}, stored.Authorized)

	require.NoError(t, h.app.Status(context.Background()))
	assert.Contains(t, h.out.String(), "Logged in as u1, 2 documents")
	assert.Contains(t, h.out.String(), "Mode: online")
}

func TestLogin_ServerUnavailable(t *testing.T) {
	h := newHarness(t, &fakeClient{loginErr: fmt.Errorf("%w: dial tcp", client.ErrUnavailable)})

	restore := stubInputs(t, "reader@example.org", []byte("secret"))
	defer restore()
	err := h.app.Login(context.Background())

	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.False(t, h.app.isLoggedIn())
	assert.Equal(t, ModeOffline, h.app.Mode())
	assert.Equal(t, notify.Warning, h.lastNotice(t).Level)
}

func TestLogin_Rejected(t *testing.T) {
	h := newHarness(t, &fakeClient{loginErr: fmt.Errorf("%w: bad credentials", client.ErrUnauthorized)})

	restore := stubInputs(t, "reader@example.org", []byte("wrong"))
	defer restore()
	err := h.app.Login(context.Background())

	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, h.app.isLoggedIn())
	last := h.lastNotice(t)
	assert.Equal(t, notify.Error, last.Level)
	assert.Contains(t, last.Message, "Login unsuccessful")
}

func TestLogin_PasswordIsWiped(t *testing.T) {
	h := newHarness(t, &fakeClient{login: loginResult()})
	pw := []byte("secret")
	restore := stubInputs(t, "reader@example.org", pw)
	defer restore()

	require.NoError(t, h.app.Login(context.Background()))
	assert.Equal(t, make([]byte, len(pw)), pw)
}

func TestLogin_PromptError(t *testing.T) {
	h := newHarness(t, &fakeClient{})
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return nil, io.ErrUnexpectedEOF }
	defer func() { getPassword = orig }()

	require.ErrorIs(t, h.app.Login(context.Background()), io.ErrUnexpectedEOF)
}

func TestLogout_HidesDocuments(t *testing.T) {
	fc := &fakeClient{
		login: loginResult("b1"),
		docs:  map[string][]byte{"b1": rendertest.BuildPDF("one", "two")},
	}
	h := newHarness(t, fc)
	h.login(t)
	ctx := context.Background()
	require.NoError(t, h.app.Open(ctx, "b1"))

	require.NoError(t, h.app.Logout(ctx))

	assert.False(t, h.app.isLoggedIn())
	assert.Nil(t, h.app.viewer.Record())
	assert.False(t, h.app.search.Panel().IsOpen())

	h.out.Reset()
	require.NoError(t, h.app.List(ctx))
	assert.Contains(t, h.out.String(), "No cached documents")

	h.out.Reset()
	require.NoError(t, h.app.Storage(ctx))
	assert.Contains(t, h.out.String(), "1 documents cached", "the blob stays on disk")

	h.out.Reset()
	require.NoError(t, h.app.Status(ctx))
	assert.Contains(t, h.out.String(), "Not logged in")
}
