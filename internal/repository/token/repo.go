package token

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/glyphdex/glyphdex/internal/domain"
)

// Hash field names of token and identity documents.
const (
	fieldIdentityID  = "identity_id"
	fieldRevoked     = "revoked"
	fieldName        = "name"
	fieldSearchLimit = "search_limit"
)

// store is the consumer interface for token lookups (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo resolves bearer tokens to identities. Tokens are stored hashed:
// only the SHA-256 digest of the presented secret ever touches the store,
// so a dump of the keyspace does not leak usable credentials.
type Repo struct {
	store store
}

// New creates a token repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Resolve maps a presented token to its identity. Unknown tokens, revoked
// tokens, and identities without a resolvable search limit all surface as
// domain.ErrAuthInvalid; the caller cannot distinguish them and neither
// should the response.
func (r *Repo) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	tok, err := r.store.HGetAll(ctx, tokenKey(token))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("resolve token: %w", err)
	}
	if len(tok) == 0 {
		return domain.Identity{}, domain.ErrAuthInvalid
	}
	if revoked, _ := strconv.ParseBool(tok[fieldRevoked]); revoked {
		return domain.Identity{}, domain.ErrAuthInvalid
	}

	identityID := tok[fieldIdentityID]
	if identityID == "" {
		return domain.Identity{}, domain.ErrAuthInvalid
	}

	ident, err := r.store.HGetAll(ctx, identityKey(identityID))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("load identity %s: %w", identityID, err)
	}
	if len(ident) == 0 {
		return domain.Identity{}, domain.ErrAuthInvalid
	}

	limit, err := strconv.ParseInt(ident[fieldSearchLimit], 10, 64)
	if err != nil || limit <= 0 {
		return domain.Identity{}, domain.ErrAuthInvalid
	}

	return domain.Identity{
		ID:          identityID,
		Name:        ident[fieldName],
		SearchLimit: limit,
	}, nil
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return domain.KeyPrefix + "token:" + hex.EncodeToString(sum[:])
}

func identityKey(id string) string {
	return domain.KeyPrefix + "identity:" + id
}
