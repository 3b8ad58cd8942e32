package controller

import (
	"context"
	"errors"
	"fmt"

	"article-desk/internal/api"
	"article-desk/internal/model"

	"go.uber.org/zap"
)

// GetArticles replaces the local collection with the server's. A 401 drops
// the stored token and sends the user back to the login view.
func (c *Controller) GetArticles(ctx context.Context) error {
	ctx, ticket, err := c.begin(ctx, "list")
	if err != nil {
		return err
	}

	resp, err := c.api.ListArticles(ctx, c.token(ctx))
	if api.IsUnauthorized(err) {
		c.logger.Warn("Token rejected, returning to login", zap.String("request_id", ticket), zap.Error(err))
		msg := api.MessageOf(err)
		ok, _ := c.commit(ticket,
			func() error {
				if clearErr := c.session.Clear(ctx); clearErr != nil {
					c.logger.Error("Failed to clear token", zap.Error(clearErr))
				}
				return nil
			},
			func(s *State) {
				s.Message = msg
				s.View = ViewLogin
			})
		if !ok {
			return context.Canceled
		}
		return err
	}
	if err != nil {
		c.fail(ticket, "list", err)
		return err
	}

	if !c.finish(ticket, func(s *State) {
		s.Articles = append([]model.Article{}, resp.Articles...)
		s.Message = resp.Message
	}) {
		return context.Canceled
	}
	return nil
}

// PostArticle creates an article and appends the server's copy.
func (c *Controller) PostArticle(ctx context.Context, in model.ArticleInput) (Outcome, error) {
	in, err := in.Normalize()
	if err != nil {
		c.setMessage(err.Error())
		return OutcomeFailure, err
	}

	ctx, ticket, err := c.begin(ctx, "create")
	if err != nil {
		return OutcomeIndeterminate, err
	}

	resp, err := c.api.CreateArticle(ctx, c.token(ctx), in)
	if err != nil {
		return c.failOutcome(ticket, "create", err), err
	}

	if !c.finish(ticket, func(s *State) {
		s.Articles = append(s.Articles, resp.Article)
		s.Message = resp.Message
	}) {
		return OutcomeIndeterminate, context.Canceled
	}
	return OutcomeSuccess, nil
}

// UpdateArticle replaces article id with the server's copy and leaves create
// mode selected.
func (c *Controller) UpdateArticle(ctx context.Context, id int, in model.ArticleInput) (Outcome, error) {
	in, err := in.Normalize()
	if err != nil {
		c.setMessage(err.Error())
		return OutcomeFailure, err
	}

	ctx, ticket, err := c.begin(ctx, "update")
	if err != nil {
		return OutcomeIndeterminate, err
	}

	resp, err := c.api.UpdateArticle(ctx, c.token(ctx), id, in)
	if err != nil {
		return c.failOutcome(ticket, "update", err), err
	}

	if !c.finish(ticket, func(s *State) {
		updated := resp.Article
		if i := indexOf(s.Articles, updated.ID); i >= 0 {
			s.Articles[i] = updated
		} else {
			s.Articles = append(s.Articles, updated)
		}
		s.Message = resp.Message
		s.CurrentArticleID = nil
	}) {
		return OutcomeIndeterminate, context.Canceled
	}
	return OutcomeSuccess, nil
}

// DeleteArticle removes article id on the server and then locally.
func (c *Controller) DeleteArticle(ctx context.Context, id int) error {
	ctx, ticket, err := c.begin(ctx, "delete")
	if err != nil {
		return err
	}

	resp, err := c.api.DeleteArticle(ctx, c.token(ctx), id)
	if err != nil {
		c.fail(ticket, "delete", err)
		return err
	}

	if !c.finish(ticket, func(s *State) {
		if i := indexOf(s.Articles, id); i >= 0 {
			s.Articles = append(s.Articles[:i], s.Articles[i+1:]...)
		}
		s.Message = resp.Message
		s.CurrentArticleID = nil
	}) {
		return context.Canceled
	}
	return nil
}

// SelectArticle puts the article form in edit mode for id.
func (c *Controller) SelectArticle(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if indexOf(c.state.Articles, id) < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownArticle, id)
	}
	c.state.CurrentArticleID = &id
	c.notifyLocked()
	return nil
}

// ClearSelection puts the article form back in create mode.
func (c *Controller) ClearSelection() {
	c.update(func(s *State) { s.CurrentArticleID = nil })
}

// CurrentArticle returns the article being edited.
func (c *Controller) CurrentArticle() (model.Article, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.CurrentArticleID == nil {
		return model.Article{}, false
	}
	i := indexOf(c.state.Articles, *c.state.CurrentArticleID)
	if i < 0 {
		return model.Article{}, false
	}
	return c.state.Articles[i], true
}

// failOutcome reports the failure and maps it to what the form should do.
// A cancelled request may or may not have reached the server.
func (c *Controller) failOutcome(ticket, op string, err error) Outcome {
	c.fail(ticket, op, err)
	if errors.Is(err, context.Canceled) {
		return OutcomeIndeterminate
	}
	return OutcomeFailure
}
