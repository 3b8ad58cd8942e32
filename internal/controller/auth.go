package controller

import (
	"context"
	"errors"
	"fmt"

	"article-desk/internal/model"
	"article-desk/internal/session"

	"go.uber.org/zap"
)

// Login exchanges credentials for a token, persists it and moves to the
// articles view. On failure the server's message is shown and the view and
// stored token are left alone.
func (c *Controller) Login(ctx context.Context, creds model.Credentials) error {
	creds, err := creds.Normalize()
	if err != nil {
		c.setMessage(err.Error())
		return err
	}

	ctx, ticket, err := c.begin(ctx, "login")
	if err != nil {
		return err
	}

	resp, err := c.api.Login(ctx, creds)
	if err != nil {
		c.fail(ticket, "login", err)
		return err
	}

	ok, err := c.commit(ticket,
		func() error { return c.session.SetToken(ctx, resp.Token) },
		func(s *State) {
			s.Message = resp.Message
			s.View = ViewArticles
		})
	if err != nil {
		err = fmt.Errorf("save token: %w", err)
		c.fail(ticket, "login", err)
		return err
	}
	if !ok {
		// Logged out while the answer was on its way
		return context.Canceled
	}

	c.logger.Info("Logged in", zap.String("username", creds.Username), zap.String("request_id", ticket))
	return nil
}

// Logout forgets the token and returns to the login view. It makes no
// network call and abandons any request still in flight.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.abandonLocked()
	c.mu.Unlock()

	_, err := c.session.Token(ctx)
	hadToken := err == nil
	if err != nil && !errors.Is(err, session.ErrNoToken) {
		c.logger.Error("Failed to read token", zap.Error(err))
	}

	var clearErr error
	if hadToken {
		if clearErr = c.session.Clear(ctx); clearErr != nil {
			c.logger.Error("Failed to clear token", zap.Error(clearErr))
		}
	}

	c.update(func(s *State) {
		if hadToken {
			s.Message = FarewellMessage
		}
		s.View = ViewLogin
		s.Articles = []model.Article{}
		s.CurrentArticleID = nil
	})
	return clearErr
}
