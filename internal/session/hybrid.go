package session

import (
	"context"
	"errors"
	"fmt"
)

// HybridStore combines Redis (shared between terminals) and Badger (local
// copy). Writes go to both; reads prefer Redis and fall back to Badger only
// when Redis cannot answer.
type HybridStore struct {
	shared *RedisStore
	local  *BadgerStore
}

// NewHybridStore connects to redis at addr and opens badger at badgerPath.
// Pass badgerPath="" to keep the local copy in memory.
func NewHybridStore(ctx context.Context, addr, badgerPath string) (*HybridStore, error) {
	shared, err := NewRedisStore(ctx, addr, "")
	if err != nil {
		return nil, err
	}
	local, err := NewBadgerStore(badgerPath)
	if err != nil {
		_ = shared.Close()
		return nil, err
	}
	return &HybridStore{shared: shared, local: local}, nil
}

// Close cleans up connections
func (s *HybridStore) Close() error {
	return errors.Join(s.shared.Close(), s.local.Close())
}

func (s *HybridStore) Token(ctx context.Context) (string, error) {
	token, err := s.shared.Token(ctx)
	if err == nil || errors.Is(err, ErrNoToken) {
		// A logout in another terminal wins over the local copy
		return token, err
	}
	local, localErr := s.local.Token(ctx)
	if localErr != nil {
		return "", fmt.Errorf("%w (local copy: %v)", err, localErr)
	}
	return local, nil
}

func (s *HybridStore) SetToken(ctx context.Context, token string) error {
	if err := s.local.SetToken(ctx, token); err != nil {
		return err
	}
	return s.shared.SetToken(ctx, token)
}

func (s *HybridStore) Clear(ctx context.Context) error {
	return errors.Join(s.local.Clear(ctx), s.shared.Clear(ctx))
}
