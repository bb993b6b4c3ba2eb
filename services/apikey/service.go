package apikey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/database/repository"
	apikeyRepo "salonbook/database/repository/apikey"
	"salonbook/models"
	"salonbook/services/cache"

	"go.uber.org/zap"
)

// RecordCache is the slice of the cache layer the service needs.
type RecordCache interface {
	GetJSON(ctx context.Context, key string, dst any) bool
	SetJSONAsync(key string, value any, ttl time.Duration)
	InvalidateAsync(patterns ...string)
}

// Identity is what a verified key resolves to.
type Identity struct {
	KeyID          string
	OrganisationID string
}

type cachedKey struct {
	HashedKey      string `json:"hashedKey"`
	OrganisationID string `json:"organisationId"`
}

// Service issues, verifies and revokes API keys.
type Service struct {
	Repo     apikeyRepo.APIKeyRepository
	Cache    RecordCache
	Params   Params
	CacheTTL time.Duration
	Logger   *zap.Logger
}

func NewService(repo apikeyRepo.APIKeyRepository, c RecordCache, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{Repo: repo, Cache: c, Params: DefaultParams, CacheTTL: ttl, Logger: logger}
}

func recordKey(keyID string) string {
	return cache.PrefixAPIKeys + ":" + keyID
}

// Create issues a key for orgID. The plaintext is returned once and never stored.
func (s *Service) Create(ctx context.Context, orgID string) (string, *models.APIKey, error) {
	full, keyID, _, err := Generate()
	if err != nil {
		return "", nil, err
	}
	hashed, err := Hash(full, s.Params)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash api key: %w", err)
	}

	record := &models.APIKey{KeyID: keyID, HashedKey: hashed, OrganisationID: orgID}
	if err := s.Repo.Create(ctx, record); err != nil {
		return "", nil, err
	}
	s.Logger.Info("api key issued", zap.String("keyId", keyID), zap.String("organisationId", orgID))
	return full, record, nil
}

// Authenticate verifies raw and resolves the owning organisation.
func (s *Service) Authenticate(ctx context.Context, raw string) (*Identity, error) {
	keyID, _, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	record, fromCache, err := s.lookup(ctx, keyID)
	if err != nil {
		return nil, err
	}

	ok, err := Verify(raw, record.HashedKey)
	if err != nil {
		s.Logger.Error("api key hash verification errored", zap.String("keyId", keyID), zap.Error(err))
		return nil, ErrHashVerify
	}
	if !ok {
		return nil, ErrInvalidKey
	}

	if !fromCache && s.Cache != nil {
		s.Cache.SetJSONAsync(recordKey(keyID), record, s.CacheTTL)
	}

	if record.OrganisationID == "" {
		return nil, ErrOrganisationNotFound
	}
	return &Identity{KeyID: keyID, OrganisationID: record.OrganisationID}, nil
}

func (s *Service) lookup(ctx context.Context, keyID string) (cachedKey, bool, error) {
	var record cachedKey
	if s.Cache != nil && s.Cache.GetJSON(ctx, recordKey(keyID), &record) && record.HashedKey != "" {
		return record, true, nil
	}

	stored, err := s.Repo.GetByKeyID(ctx, keyID)
	if errors.Is(err, repository.ErrNotFound) {
		return record, false, ErrKeyNotFound
	}
	if err != nil {
		return record, false, err
	}
	return cachedKey{HashedKey: stored.HashedKey, OrganisationID: stored.OrganisationID}, false, nil
}

// Revoke deletes a key and drops every cached key record.
func (s *Service) Revoke(ctx context.Context, keyID string) error {
	if err := s.Repo.Delete(ctx, keyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrKeyNotFound
		}
		return err
	}
	if s.Cache != nil {
		s.Cache.InvalidateAsync(cache.Patterns(cache.APIKeyChanged)...)
	}
	s.Logger.Info("api key revoked", zap.String("keyId", keyID))
	return nil
}
