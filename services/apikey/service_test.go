package apikey

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"salonbook/database/repository"
	"salonbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeKeyRepo struct {
	mu      sync.Mutex
	keys    map[string]*models.APIKey
	lookups int
	err     error
}

func newFakeKeyRepo() *fakeKeyRepo {
	return &fakeKeyRepo{keys: map[string]*models.APIKey{}}
}

func (r *fakeKeyRepo) GetByKeyID(ctx context.Context, keyID string) (*models.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if r.err != nil {
		return nil, r.err
	}
	k, ok := r.keys[keyID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *k
	return &cp, nil
}

func (r *fakeKeyRepo) Create(ctx context.Context, key *models.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *key
	r.keys[key.KeyID] = &cp
	return nil
}

func (r *fakeKeyRepo) Delete(ctx context.Context, keyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keys[keyID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.keys, keyID)
	return nil
}

// syncCache stores values immediately so assertions need no waiting.
type syncCache struct {
	mu          sync.Mutex
	values      map[string]cachedKey
	invalidated []string
}

func newSyncCache() *syncCache { return &syncCache{values: map[string]cachedKey{}} }

func (c *syncCache) GetJSON(ctx context.Context, key string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return false
	}
	*(dst.(*cachedKey)) = v
	return true
}

func (c *syncCache) SetJSONAsync(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value.(cachedKey)
}

func (c *syncCache) InvalidateAsync(patterns ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, patterns...)
	c.values = map[string]cachedKey{}
}

func newTestService(repo *fakeKeyRepo, c RecordCache) *Service {
	s := NewService(repo, c, time.Hour, zap.NewNop())
	s.Params = cheapParams
	return s
}

func TestService_CreateThenAuthenticate(t *testing.T) {
	repo := newFakeKeyRepo()
	c := newSyncCache()
	svc := newTestService(repo, c)
	ctx := context.Background()

	plain, record, err := svc.Create(ctx, "org-1")
	require.NoError(t, err)
	assert.NotContains(t, record.HashedKey, plain)

	identity, err := svc.Authenticate(ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, "org-1", identity.OrganisationID)
	assert.Equal(t, record.KeyID, identity.KeyID)
	assert.Equal(t, 1, repo.lookups)

	// Second call is served from the cached record.
	_, err = svc.Authenticate(ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lookups)
}

func TestService_Authenticate_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid_format_skips_repository", func(t *testing.T) {
		repo := newFakeKeyRepo()
		svc := newTestService(repo, nil)

		_, err := svc.Authenticate(ctx, "not-a-key")
		assert.ErrorIs(t, err, ErrInvalidFormat)
		assert.Equal(t, 0, repo.lookups)
	})

	t.Run("unknown_key", func(t *testing.T) {
		svc := newTestService(newFakeKeyRepo(), nil)
		full, _, _, err := Generate()
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, full)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("wrong_token", func(t *testing.T) {
		repo := newFakeKeyRepo()
		svc := newTestService(repo, nil)
		plain, record, err := svc.Create(ctx, "org-1")
		require.NoError(t, err)

		forged := Prefix + record.KeyID + "_forged"
		assert.NotEqual(t, plain, forged)
		_, err = svc.Authenticate(ctx, forged)
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("corrupt_hash", func(t *testing.T) {
		repo := newFakeKeyRepo()
		svc := newTestService(repo, nil)
		plain, record, err := svc.Create(ctx, "org-1")
		require.NoError(t, err)
		repo.keys[record.KeyID].HashedKey = "garbage"

		_, err = svc.Authenticate(ctx, plain)
		assert.ErrorIs(t, err, ErrHashVerify)
	})

	for _, tc := range []struct {
		name   string
		params string
	}{
		{name: "zero_rounds", params: "m=64,t=0,p=1"},
		{name: "zero_parallelism", params: "m=64,t=1,p=0"},
		{name: "memory_below_minimum", params: "m=4,t=1,p=1"},
		{name: "memory_above_cap", params: "m=4294967295,t=1,p=1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeKeyRepo()
			svc := newTestService(repo, nil)
			plain, record, err := svc.Create(ctx, "org-1")
			require.NoError(t, err)
			stored := repo.keys[record.KeyID]
			require.Contains(t, stored.HashedKey, "m=64,t=1,p=1")
			stored.HashedKey = strings.Replace(stored.HashedKey, "m=64,t=1,p=1", tc.params, 1)

			assert.NotPanics(t, func() {
				_, err = svc.Authenticate(ctx, plain)
			})
			assert.ErrorIs(t, err, ErrHashVerify)
		})
	}

	t.Run("missing_organisation", func(t *testing.T) {
		svc := newTestService(newFakeKeyRepo(), nil)
		plain, _, err := svc.Create(ctx, "")
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, plain)
		assert.ErrorIs(t, err, ErrOrganisationNotFound)
	})

	t.Run("repository_failure_propagates", func(t *testing.T) {
		repo := newFakeKeyRepo()
		repo.err = errors.New("mongo down")
		svc := newTestService(repo, nil)
		full, _, _, err := Generate()
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, full)
		assert.EqualError(t, err, "mongo down")
	})
}

func TestService_Revoke(t *testing.T) {
	repo := newFakeKeyRepo()
	c := newSyncCache()
	svc := newTestService(repo, c)
	ctx := context.Background()

	plain, record, err := svc.Create(ctx, "org-1")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, plain)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, record.KeyID))
	assert.Equal(t, []string{"apiKeys:*"}, c.invalidated)

	_, err = svc.Authenticate(ctx, plain)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.ErrorIs(t, svc.Revoke(ctx, record.KeyID), ErrKeyNotFound)
}
