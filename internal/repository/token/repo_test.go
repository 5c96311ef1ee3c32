package token

import (
	"context"
	"errors"
	"testing"

	"github.com/glyphdex/glyphdex/internal/domain"
)

// mockStore serves hash documents by exact key.
type mockStore struct {
	docs map[string]map[string]string
	err  error
	keys []string
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m.keys = append(m.keys, key)
	if m.err != nil {
		return nil, m.err
	}
	return m.docs[key], nil
}

func storeWith(token string, tokenDoc, identityDoc map[string]string) *mockStore {
	docs := map[string]map[string]string{}
	if tokenDoc != nil {
		docs[tokenKey(token)] = tokenDoc
	}
	if identityDoc != nil {
		docs[identityKey(tokenDoc[fieldIdentityID])] = identityDoc
	}
	return &mockStore{docs: docs}
}

func TestResolve_Success(t *testing.T) {
	s := storeWith("secret-token",
		map[string]string{fieldIdentityID: "acct-1"},
		map[string]string{fieldName: "ACME CI", fieldSearchLimit: "500"},
	)
	repo := New(s)

	id, err := repo.Resolve(context.Background(), "secret-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.ID != "acct-1" || id.Name != "ACME CI" || id.SearchLimit != 500 {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestResolve_LooksUpHashedToken(t *testing.T) {
	s := storeWith("secret-token",
		map[string]string{fieldIdentityID: "acct-1"},
		map[string]string{fieldSearchLimit: "500"},
	)
	repo := New(s)

	if _, err := repo.Resolve(context.Background(), "secret-token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The raw secret must never appear in a store key.
	for _, key := range s.keys {
		if key == domain.KeyPrefix+"token:secret-token" {
			t.Fatal("raw token used as store key")
		}
	}
	if s.keys[0] != tokenKey("secret-token") {
		t.Errorf("expected digest lookup, got %q", s.keys[0])
	}
}

func TestResolve_UnknownToken(t *testing.T) {
	repo := New(&mockStore{docs: map[string]map[string]string{}})

	if _, err := repo.Resolve(context.Background(), "nope"); !errors.Is(err, domain.ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid, got %v", err)
	}
}

func TestResolve_RevokedToken(t *testing.T) {
	s := storeWith("secret-token",
		map[string]string{fieldIdentityID: "acct-1", fieldRevoked: "true"},
		map[string]string{fieldSearchLimit: "500"},
	)
	repo := New(s)

	if _, err := repo.Resolve(context.Background(), "secret-token"); !errors.Is(err, domain.ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid, got %v", err)
	}
}

func TestResolve_DanglingIdentity(t *testing.T) {
	s := storeWith("secret-token", map[string]string{fieldIdentityID: "acct-1"}, nil)
	repo := New(s)

	if _, err := repo.Resolve(context.Background(), "secret-token"); !errors.Is(err, domain.ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid, got %v", err)
	}
}

func TestResolve_UnresolvableLimit(t *testing.T) {
	for _, limit := range []string{"", "0", "-5", "abc"} {
		s := storeWith("secret-token",
			map[string]string{fieldIdentityID: "acct-1"},
			map[string]string{fieldSearchLimit: limit},
		)
		repo := New(s)

		if _, err := repo.Resolve(context.Background(), "secret-token"); !errors.Is(err, domain.ErrAuthInvalid) {
			t.Errorf("limit %q: expected ErrAuthInvalid, got %v", limit, err)
		}
	}
}

func TestResolve_StoreError(t *testing.T) {
	repo := New(&mockStore{err: errors.New("db down")})

	_, err := repo.Resolve(context.Background(), "secret-token")
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
	if errors.Is(err, domain.ErrAuthInvalid) {
		t.Error("a storage failure must not masquerade as an auth failure")
	}
}
