// Package shortlink maps short identifiers to candle tokens.
//
// Tokens grow with the number of candles, so a crowded cake produces a long
// share link. A short link stores the token in a cache backend under an
// identifier derived from the token itself: shortening the same
// arrangement twice yields the same identifier.
//
//	store := shortlink.New(c, 30*24*time.Hour)
//	id, err := store.Shorten(ctx, token)   // "3f2a9c0d81b4"
//	token, err = store.Resolve(ctx, id)
package shortlink

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/candlecake/pkg/cache"
	"github.com/matzehuels/candlecake/pkg/errors"
	"github.com/matzehuels/candlecake/pkg/observability"
)

// DefaultTTL is how long a short link stays resolvable.
const DefaultTTL = 30 * 24 * time.Hour

// idLength is the number of hex characters in an identifier.
const idLength = 12

// namespace scopes the name-based UUIDs short links are derived from.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("candlecake:shortlink"))

// Store creates and resolves short links.
type Store struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// New returns a store backed by c. A zero ttl keeps links forever.
func New(c cache.Cache, ttl time.Duration) *Store {
	return NewWithKeyer(c, cache.NewDefaultKeyer(), ttl)
}

// NewWithKeyer returns a store that builds its keys with keyer.
func NewWithKeyer(c cache.Cache, keyer cache.Keyer, ttl time.Duration) *Store {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Store{cache: c, keyer: keyer, ttl: ttl}
}

// ID returns the identifier a token is stored under.
func ID(token string) string {
	u := uuid.NewSHA1(namespace, []byte(token))
	return strings.ReplaceAll(u.String(), "-", "")[:idLength]
}

// Shorten stores token and returns its identifier.
func (s *Store) Shorten(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "cannot shorten an empty arrangement")
	}

	id := ID(token)
	if err := s.cache.Set(ctx, s.keyer.LinkKey(id), []byte(token), s.ttl); err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreUnavailable, err, "store short link %s", id)
	}
	observability.Cache().OnCacheSet(ctx, "link", len(token))
	return id, nil
}

// Resolve returns the token stored under id.
func (s *Store) Resolve(ctx context.Context, id string) (string, error) {
	if err := errors.ValidateShortID(id); err != nil {
		return "", err
	}

	data, hit, err := s.cache.Get(ctx, s.keyer.LinkKey(id))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreUnavailable, err, "read short link %s", id)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "link")
		return "", errors.New(errors.ErrCodeLinkNotFound, "short link %s not found or expired", id)
	}
	observability.Cache().OnCacheHit(ctx, "link")
	return string(data), nil
}

// Forget removes the short link id.
func (s *Store) Forget(ctx context.Context, id string) error {
	if err := errors.ValidateShortID(id); err != nil {
		return err
	}
	return s.cache.Delete(ctx, s.keyer.LinkKey(id))
}

// ValidID reports whether id has the shape of a short link identifier.
func ValidID(id string) bool {
	return errors.ValidateShortID(id) == nil
}
