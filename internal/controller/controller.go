package controller

import (
	"context"
	"errors"
	"sync"

	"article-desk/internal/api"
	"article-desk/internal/model"
	"article-desk/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type View string

const (
	ViewLogin    View = "login"
	ViewArticles View = "articles"
)

// FarewellMessage is shown after logging out a session that had a token.
const FarewellMessage = "Goodbye!"

// Outcome tells the article form whether to reset its inputs.
type Outcome int

const (
	// OutcomeIndeterminate means the request was not sent, or was abandoned
	// before an answer arrived.
	OutcomeIndeterminate Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "indeterminate"
	}
}

var (
	// ErrBusy is returned when an action is dispatched while another request
	// is still in flight.
	ErrBusy = errors.New("another request is in flight")

	ErrUnknownArticle = errors.New("article not in the list")
	ErrClosed         = errors.New("controller closed")
)

// State is a snapshot of everything the views render.
type State struct {
	Message  string
	Articles []model.Article
	// CurrentArticleID is nil in create mode.
	CurrentArticleID *int
	Spinner          bool
	View             View
	// RequestID is the ticket of the request in flight, empty when idle.
	RequestID string
}

func (s State) clone() State {
	out := s
	out.Articles = append([]model.Article{}, s.Articles...)
	if s.CurrentArticleID != nil {
		id := *s.CurrentArticleID
		out.CurrentArticleID = &id
	}
	return out
}

// API is the subset of the HTTP client the controller drives.
type API interface {
	Login(ctx context.Context, creds model.Credentials) (*api.LoginResponse, error)
	ListArticles(ctx context.Context, token string) (*api.ListResponse, error)
	CreateArticle(ctx context.Context, token string, in model.ArticleInput) (*api.ArticleResponse, error)
	UpdateArticle(ctx context.Context, token string, id int, in model.ArticleInput) (*api.ArticleResponse, error)
	DeleteArticle(ctx context.Context, token string, id int) (*api.MessageResponse, error)
}

// Controller owns all application state and performs every network call.
// Views read snapshots and call its methods; they hold no shared state.
type Controller struct {
	api     API
	session session.Store
	logger  *zap.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	subs   map[chan State]struct{}
	closed bool
}

func New(client API, store session.Store, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		api:     client,
		session: store,
		logger:  logger,
		state:   State{View: ViewLogin, Articles: []model.Article{}},
		subs:    make(map[chan State]struct{}),
	}
}

// Open reads any token left by a previous run. With a token present the
// controller starts on the articles view.
func (c *Controller) Open(ctx context.Context) (bool, error) {
	_, err := c.session.Token(ctx)
	if errors.Is(err, session.ErrNoToken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	c.update(func(s *State) { s.View = ViewArticles })
	return true, nil
}

// Close abandons the request in flight and ends all subscriptions.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.abandonLocked()
	for ch := range c.subs {
		close(ch)
	}
	c.subs = nil
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe delivers a snapshot after every change. Slow readers only see the
// latest snapshot. Call the returned func to stop.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.subs[ch] = struct{}{}
	ch <- c.state.clone()

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subs[ch]; ok {
			delete(c.subs, ch)
			close(ch)
		}
	}
}

// notifyLocked must be called with c.mu held.
func (c *Controller) notifyLocked() {
	for ch := range c.subs {
		snap := c.state.clone()
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot, keep the newest
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (c *Controller) update(fn func(s *State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
	c.notifyLocked()
}

// abandonLocked cancels the request in flight, if any. Its completion will
// find a different ticket and be ignored.
func (c *Controller) abandonLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.state.RequestID != "" {
		c.state.RequestID = ""
		c.state.Spinner = false
		c.notifyLocked()
	}
}

// begin claims the in-flight ticket, clears the message and turns the
// spinner on. It refuses with ErrBusy while another ticket is outstanding.
func (c *Controller) begin(ctx context.Context, op string) (context.Context, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, "", ErrClosed
	}
	if c.state.RequestID != "" {
		c.logger.Warn("Dispatch refused",
			zap.String("op", op),
			zap.String("in_flight", c.state.RequestID))
		return nil, "", ErrBusy
	}

	ticket := uuid.NewString()
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state.RequestID = ticket
	c.state.Message = ""
	c.state.Spinner = true
	c.notifyLocked()

	c.logger.Debug("Request started", zap.String("op", op), zap.String("request_id", ticket))
	return api.WithRequestID(reqCtx, ticket), ticket, nil
}

// finish applies fn and turns the spinner off, unless the ticket was
// abandoned in the meantime. It reports whether fn ran.
func (c *Controller) finish(ticket string, fn func(s *State)) bool {
	ok, _ := c.commit(ticket, nil, fn)
	return ok
}

// commit is finish with a session write in front of it. write runs under the
// lock and only while ticket is current, so an abandoned request never
// touches the stored token. When write fails the ticket stays claimed and
// the state is left alone.
func (c *Controller) commit(ticket string, write func() error, fn func(s *State)) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.RequestID != ticket {
		c.logger.Debug("Dropping stale response", zap.String("request_id", ticket))
		return false, nil
	}
	if write != nil {
		if err := write(); err != nil {
			return true, err
		}
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if fn != nil {
		fn(&c.state)
	}
	c.state.Spinner = false
	c.state.RequestID = ""
	c.notifyLocked()
	return true, nil
}

// token reads the stored token. A missing token is sent as an empty header
// and left for the server to reject.
func (c *Controller) token(ctx context.Context) string {
	token, err := c.session.Token(ctx)
	if err != nil && !errors.Is(err, session.ErrNoToken) {
		c.logger.Error("Failed to read token", zap.Error(err))
	}
	return token
}

func (c *Controller) fail(ticket, op string, err error) {
	c.logger.Error("Request failed",
		zap.String("op", op),
		zap.String("request_id", ticket),
		zap.Error(err))
	msg := api.MessageOf(err)
	if errors.Is(err, context.Canceled) {
		msg = "Request cancelled"
	}
	c.finish(ticket, func(s *State) { s.Message = msg })
}

// setMessage records a client-side message without touching the network.
// It is skipped while a request is in flight so that request's message wins.
func (c *Controller) setMessage(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.RequestID != "" {
		return
	}
	c.state.Message = msg
	c.notifyLocked()
}

func indexOf(articles []model.Article, id int) int {
	for i, a := range articles {
		if a.ID == id {
			return i
		}
	}
	return -1
}
