// Package apitest runs an in-memory Japa backend for tests. It follows the
// endpoint contract the client consumes and lets tests force responses or
// hold requests in flight.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/atinyakov/JapaKeeper/internal/models"
)

// User is an account known to the fake backend.
type User struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Password string
}

type canned struct {
	status int
	body   string
}

// Server is a fake backend listening on a local httptest server.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    []User
	posts    map[string][]models.HistoryRecord
	requests []models.ServiceRequest
	canned   map[string]canned
	gates    map[string]chan struct{}
	calls    map[string]int
	bodies   map[string][]string
}

// New starts a Server that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		posts:  map[string][]models.HistoryRecord{},
		canned: map[string]canned{},
		gates:  map[string]chan struct{}{},
		calls:  map[string]int{},
		bodies: map[string][]string{},
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(s.record)

	r.Post("/register", s.register)
	r.Post("/login", s.login)
	r.Post("/posts", s.createPost)
	r.Get("/posts/{userID}", s.listPosts)
	r.Post("/request", s.createRequest)

	return r
}

func key(method, path string) string { return method + " " + path }

// record counts calls, applies gates and canned responses.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		k := key(r.Method, r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.calls[k]++
		s.bodies[k] = append(s.bodies[k], string(body))
		gate := s.gates[k]
		c, hasCanned := s.canned[k]
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}

		if hasCanned {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(c.status)
			_, _ = w.Write([]byte(c.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Respond makes every later request to method and path answer with status and body.
func (s *Server) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned[key(method, path)] = canned{status: status, body: body}
}

// Hold blocks requests to method and path until release is called.
func (s *Server) Hold(method, path string) (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gates[key(method, path)] = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, key(method, path))
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns how many requests reached method and path.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key(method, path)]
}

// LastBody returns the body of the most recent request to method and path.
func (s *Server) LastBody(method, path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bodies[key(method, path)]
	if len(b) == 0 {
		return ""
	}
	return b[len(b)-1]
}

// AddUser registers an account directly and returns its id.
func (s *Server) AddUser(u User) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(u)
}

func (s *Server) addUserLocked(u User) string {
	if u.ID == "" {
		u.ID = strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
	}
	s.users = append(s.users, u)
	return u.ID
}

// AddPost stores a record for userID.
func (s *Server) AddPost(userID string, rec models.HistoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.UserID = userID
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	s.posts[userID] = append(s.posts[userID], rec)
}

// Posts returns the stored records of userID.
func (s *Server) Posts(userID string) []models.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.HistoryRecord(nil), s.posts[userID]...)
}

// Requests returns the stored service requests.
func (s *Server) Requests() []models.ServiceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ServiceRequest(nil), s.requests...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
