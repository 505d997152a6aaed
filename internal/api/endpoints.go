package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atinyakov/JapaKeeper/internal/models"
)

// Register creates an account via POST /register.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, PathRegister, req, "message")
	if err != nil {
		return models.RegisterResponse{}, err
	}
	return decode[models.RegisterResponse](resp, PathRegister)
}

// Login authenticates via POST /login. Only data.error is read on failure.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, PathLogin, req, "error")
	if err != nil {
		return models.LoginResponse{}, err
	}
	return decode[models.LoginResponse](resp, PathLogin)
}

// CreatePost submits a chanting record via POST /posts.
func (c *Client) CreatePost(ctx context.Context, rec models.ChantingRecord) error {
	_, err := c.do(ctx, http.MethodPost, PathPosts, rec, "message")
	return err
}

// ListPosts fetches the records of userID via GET /posts/:userId.
// A null body is an empty list.
func (c *Client) ListPosts(ctx context.Context, userID string) ([]models.HistoryRecord, error) {
	endpoint := PathPosts + "/" + url.PathEscape(userID)
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil, "message")
	if err != nil {
		return nil, err
	}
	records, err := decode[[]models.HistoryRecord](resp, endpoint)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.HistoryRecord{}
	}
	return records, nil
}

// CreateRequest submits a pooja service request via POST /request.
func (c *Client) CreateRequest(ctx context.Context, req models.ServiceRequest) error {
	_, err := c.do(ctx, http.MethodPost, PathRequest, req, "message")
	return err
}
