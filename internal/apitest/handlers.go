package apitest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/atinyakov/JapaKeeper/internal/models"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request"})
		return
	}
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "All fields are required"})
		return
	}

	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) || u.Phone == req.Phone {
			s.mu.Unlock()
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "User already exists"})
			return
		}
	}
	id := s.addUserLocked(User{Name: req.Name, Email: req.Email, Phone: req.Phone, Password: req.Password})
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
		"userId":  id,
		"name":    req.Name,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if (strings.EqualFold(u.Email, req.Input) || u.Phone == req.Input) && u.Password == req.Password {
			writeJSON(w, http.StatusOK, map[string]string{"name": u.Name, "_id": u.ID})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email/phone or password"})
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var rec models.ChantingRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request"})
		return
	}
	if rec.UserID == "" || rec.Name == "" || rec.JapaCount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing required fields"})
		return
	}

	h := models.HistoryRecord{
		ID:        uuid.NewString(),
		Name:      rec.Name,
		Tower:     rec.Tower,
		Flat:      rec.Flat,
		JapaName:  rec.JapaName,
		JapaCount: rec.JapaCount,
		Date:      rec.Date,
	}
	s.AddPost(rec.UserID, h)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Post created", "post": h})
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts := s.Posts(chi.URLParam(r, "userID"))
	if posts == nil {
		posts = []models.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) createRequest(w http.ResponseWriter, r *http.Request) {
	var req models.ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request"})
		return
	}
	if req.UserID == "" || req.PoojaName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing required fields"})
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Request submitted"})
}
