package service

import (
	"fmt"
	"sync"
	"time"

	"pdf-compare/internal/domain"
)

const (
	tokenCacheTTL     = 30 * time.Second
	tokenCacheMaxSize = 1024
)

type tokenCacheEntry struct {
	user      *domain.SupabaseUser
	expiresAt time.Time
}

// AuthService validates bearer tokens against Supabase Auth and caches
// successful lookups briefly so repeated requests skip the round trip.
type AuthService struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
	now            func() time.Time

	tokenCacheMu sync.RWMutex
	tokenCache   map[string]tokenCacheEntry
}

func NewAuthService(
	supabaseClient domain.SupabaseClient,
	logger domain.Logger,
) *AuthService {
	return &AuthService{
		supabaseClient: supabaseClient,
		logger:         logger,
		now:            time.Now,
		tokenCache:     make(map[string]tokenCacheEntry),
	}
}

// ValidateToken validates a token and returns user info
func (s *AuthService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrInvalidToken)
	}

	now := s.now()
	s.tokenCacheMu.RLock()
	entry, ok := s.tokenCache[token]
	s.tokenCacheMu.RUnlock()
	if ok && now.Before(entry.expiresAt) {
		return entry.user, nil
	}

	user, err := s.supabaseClient.ValidateToken(token)
	if err != nil {
		s.logger.Debug("Token rejected by Supabase", "error", err.Error())
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	s.tokenCacheMu.Lock()
	if len(s.tokenCache) >= tokenCacheMaxSize {
		s.evictExpired(now)
	}
	if len(s.tokenCache) < tokenCacheMaxSize {
		s.tokenCache[token] = tokenCacheEntry{user: user, expiresAt: now.Add(tokenCacheTTL)}
	}
	s.tokenCacheMu.Unlock()

	return user, nil
}

// evictExpired must be called with tokenCacheMu held.
func (s *AuthService) evictExpired(now time.Time) {
	for token, entry := range s.tokenCache {
		if !now.Before(entry.expiresAt) {
			delete(s.tokenCache, token)
		}
	}
}
