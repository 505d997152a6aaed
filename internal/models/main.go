// Package models defines the core data structures exchanged with the Japa
// backend and persisted locally.
package models

import (
	"time"
)

// Session is the locally persisted identity of the logged-in user.
type Session struct {
	// ID is the opaque user identifier issued by the backend.
	ID string `json:"id"`
	// Name is the display name shown in the Home greeting.
	Name string `json:"name"`
}

// ChantingRecord is a Japa count submitted from the Home screen.
// The client holds no copy once it has been posted.
type ChantingRecord struct {
	Name  string `json:"name"`
	Tower string `json:"tower"`
	Flat  string `json:"flat"`
	// Date is an ISO-8601 timestamp generated at submit time, see FormatISO.
	Date      string `json:"date"`
	JapaName  string `json:"japaName"`
	JapaCount int    `json:"japaCount"`
	UserID    string `json:"userId"`
}

// ISOLayout is the millisecond UTC layout the backend stores record dates in.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatISO renders t in ISOLayout after converting it to UTC.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ServiceRequest is a pooja service request submitted from the RequestForm screen.
type ServiceRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Tower string `json:"tower"`
	Flat  string `json:"flat"`
	// Date is kept in the DD-MM-YYYY form the user typed.
	Date      string `json:"date"`
	PoojaName string `json:"poojaName"`
	UserID    string `json:"userId"`
}

// HistoryRecord is one entry of the list returned by GET /posts/:id.
type HistoryRecord struct {
	// ID is the backend document id, when present.
	ID        string `json:"_id,omitempty"`
	Name      string `json:"name"`
	Tower     string `json:"tower"`
	Flat      string `json:"flat"`
	JapaName  string `json:"japaName"`
	JapaCount int    `json:"japaCount"`
	// Date is the raw ISO timestamp as stored by the backend.
	Date   string `json:"date"`
	UserID string `json:"userId,omitempty"`
}

// RegisterRequest is the payload of POST /register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// RegisterResponse is the success body of POST /register.
type RegisterResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// LoginRequest is the payload of POST /login. Input is an email or a phone number.
type LoginRequest struct {
	Input    string `json:"input"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /login.
type LoginResponse struct {
	Name string `json:"name"`
	ID   string `json:"_id"`
}
