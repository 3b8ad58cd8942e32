// Package apitest runs an in-process stand-in for the articles API so the
// client, controller and UI can be exercised without the real backend.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"article-desk/internal/model"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type failure struct {
	status  int
	message string
}

type gate struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

// Server mimics the articles API. All methods are safe for concurrent use.
type Server struct {
	mu         sync.Mutex
	articles   []model.Article
	nextID     int
	tokens     map[string]string
	failures   map[string]failure
	gates      map[string]*gate
	requestIDs []string

	router *mux.Router
	server *httptest.Server
}

// NewServer starts the fake API and closes it when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		nextID:   1,
		tokens:   make(map[string]string),
		failures: make(map[string]failure),
		gates:    make(map[string]*gate),
		router:   mux.NewRouter(),
	}
	s.routes()
	s.server = httptest.NewServer(s.router)
	t.Cleanup(s.server.Close)
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", s.wrap("login", s.handleLogin)).Methods(http.MethodPost)
	api.HandleFunc("/articles", s.wrap("list", s.authed(s.handleList))).Methods(http.MethodGet)
	api.HandleFunc("/articles", s.wrap("create", s.authed(s.handleCreate))).Methods(http.MethodPost)
	api.HandleFunc("/articles/{id:[0-9]+}", s.wrap("update", s.authed(s.handleUpdate))).Methods(http.MethodPut)
	api.HandleFunc("/articles/{id:[0-9]+}", s.wrap("delete", s.authed(s.handleDelete))).Methods(http.MethodDelete)
}

// URL is the API base, including the /api prefix.
func (s *Server) URL() string {
	return s.server.URL + "/api"
}

// Seed replaces the stored articles. Ids are kept as given.
func (s *Server) Seed(articles ...model.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append([]model.Article(nil), articles...)
	for _, a := range articles {
		if a.ID >= s.nextID {
			s.nextID = a.ID + 1
		}
	}
}

// Articles returns a copy of the stored articles.
func (s *Server) Articles() []model.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Article(nil), s.articles...)
}

// IssueToken registers a token for username, as if they had logged in.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = username
	return token
}

// RevokeTokens makes every issued token invalid.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// Fail makes every later call to op answer with status and message.
// op is one of login, list, create, update, delete.
func (s *Server) Fail(op string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = failure{status: status, message: message}
}

// Recover undoes Fail.
func (s *Server) Recover(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, op)
}

// Hold blocks the next calls to op until release is called. entered is closed
// once a request for op is being held.
func (s *Server) Hold(op string) (entered <-chan struct{}, release func()) {
	g := &gate{entered: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	s.gates[op] = g
	s.mu.Unlock()

	var once sync.Once
	return g.entered, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, op)
			s.mu.Unlock()
			close(g.release)
		})
	}
}

// RequestIDs lists the X-Request-ID headers seen so far, in arrival order.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

func (s *Server) wrap(op string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		if id := r.Header.Get("X-Request-ID"); id != "" {
			s.requestIDs = append(s.requestIDs, id)
		}
		g := s.gates[op]
		f, failing := s.failures[op]
		s.mu.Unlock()

		if g != nil {
			g.once.Do(func() { close(g.entered) })
			select {
			case <-g.release:
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			writeJSON(w, f.status, map[string]any{"message": f.message})
			return
		}
		next(w, r)
	}
}

type authedHandler func(w http.ResponseWriter, r *http.Request, username string)

func (s *Server) authed(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		s.mu.Lock()
		username, ok := s.tokens[token]
		s.mu.Unlock()
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Ouch: token required"})
			return
		}
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Ouch: jwt malformed"})
			return
		}
		next(w, r, username)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Malformed request body"})
		return
	}
	username := strings.TrimSpace(creds.Username)
	if username == "" || creds.Password == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Ouch: username and password required"})
		return
	}
	token := s.IssueToken(username)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Welcome back, %s!", username),
		"token":   token,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request, username string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  fmt.Sprintf("Here are your articles, %s!", username),
		"articles": s.Articles(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, username string) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	article := model.Article{ID: s.nextID, Title: in.Title, Text: in.Text, Topic: in.Topic}
	s.nextID++
	s.articles = append(s.articles, article)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("Well done, %s. Great article!", username),
		"article": article,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, username string) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]any{"message": fmt.Sprintf("Article %d not found", id)})
		return
	}
	s.articles[idx] = model.Article{ID: id, Title: in.Title, Text: in.Text, Topic: in.Topic}
	article := s.articles[idx]
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Nice update, %s!", username),
		"article": article,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, username string) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]any{"message": fmt.Sprintf("Article %d not found", id)})
		return
	}
	s.articles = append(s.articles[:idx], s.articles[idx+1:]...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Article %d was deleted, %s!", id, username),
	})
}

// indexOf must be called with s.mu held.
func (s *Server) indexOf(id int) int {
	for i, a := range s.articles {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func decodeInput(w http.ResponseWriter, r *http.Request) (model.ArticleInput, bool) {
	var in model.ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Malformed request body"})
		return in, false
	}
	norm, err := in.Normalize()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "Ouch: " + err.Error()})
		return in, false
	}
	return norm, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
