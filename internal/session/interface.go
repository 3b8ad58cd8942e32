package session

import (
	"context"
	"errors"
)

var (
	ErrNoToken = errors.New("no token stored")
)

// TokenKey is the name of the slot that holds the token.
const TokenKey = "token"

// Store is the durable slot holding the auth token between runs.
type Store interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Close() error
}
