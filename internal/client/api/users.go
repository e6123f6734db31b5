package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/charitydesk/internal/client/models"
)

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe saves the profile and hands the stored result to the session.
func (c *Client) UpdateMe(ctx context.Context, in models.ProfileUpdate) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPut, "/users/profile", nil, in, &out); err != nil {
		return nil, err
	}
	if err := c.session.UpdateUser(ctx, out); err != nil {
		return &out, fmt.Errorf("update session user: %w", err)
	}
	return &out, nil
}
