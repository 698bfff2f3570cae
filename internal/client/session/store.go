package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/repositories/metadata"
	"github.com/akash-siv/pen-and-paper/internal/common"
)

// Store persists the session in the metadata table. The authorized set is
// kept as a JSON array under common.SessionBookIDsKey.
type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// Save replaces the stored session with the login result.
func (s *Store) Save(ctx context.Context, res models.LoginResult) (Session, error) {
	ids := res.BookIDs
	if ids == nil {
		ids = []string{}
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return Anonymous, fmt.Errorf("encode book ids: %w", err)
	}

	err = s.repo.SetAll(ctx, map[string][]byte{
		common.SessionTokenKey:   []byte(res.AccessToken),
		common.SessionUserKey:    []byte(res.UserID),
		common.SessionBookIDsKey: encoded,
	})
	if err != nil {
		return Anonymous, err
	}

	return Session{Token: res.AccessToken, UserID: res.UserID, Authorized: models.AuthorizedSet(ids)}, nil
}

// Load returns the stored session or Anonymous when none is stored. A
// malformed book id list loads as an empty set.
func (s *Store) Load(ctx context.Context) (Session, error) {
	token, err := s.repo.Get(ctx, common.SessionTokenKey)
	if errors.Is(err, common.ErrNotFound) {
		return Anonymous, nil
	}
	if err != nil {
		return Anonymous, err
	}

	sess := Session{Token: string(token)}

	if user, err := s.repo.Get(ctx, common.SessionUserKey); err == nil {
		sess.UserID = string(user)
	} else if !errors.Is(err, common.ErrNotFound) {
		return Anonymous, err
	}

	raw, err := s.repo.Get(ctx, common.SessionBookIDsKey)
	switch {
	case errors.Is(err, common.ErrNotFound):
		sess.Authorized = models.AuthorizedSet{}
	case err != nil:
		return Anonymous, err
	default:
		sess.Authorized = decodeIDs(raw)
	}
	return sess, nil
}

// Authorize adds ownerID to the stored set and returns the updated session.
func (s *Store) Authorize(ctx context.Context, sess Session, ownerID string) (Session, error) {
	if sess.Authorized.Contains(ownerID) {
		return sess, nil
	}
	next := sess.Authorized.With(ownerID)

	encoded, err := json.Marshal([]string(next))
	if err != nil {
		return sess, fmt.Errorf("encode book ids: %w", err)
	}
	if err := s.repo.Set(ctx, common.SessionBookIDsKey, encoded); err != nil {
		return sess, err
	}
	sess.Authorized = next
	return sess, nil
}

// Clear removes the session keys. Cached documents are left alone.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, common.SessionTokenKey, common.SessionUserKey, common.SessionBookIDsKey)
}

func decodeIDs(raw []byte) models.AuthorizedSet {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return models.AuthorizedSet{}
	}
	out := make(models.AuthorizedSet, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
