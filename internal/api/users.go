package api

import (
	"context"
	"net/http"

	"github.com/chatzone/chatsync/internal/domain"
)

func (c *Client) SetStatus(ctx context.Context, status domain.Status) (domain.Status, error) {
	raw, err := c.do(ctx, http.MethodPost, "/users/status", map[string]string{
		"status": string(status),
	})
	if err != nil {
		return "", err
	}
	var out struct {
		Status domain.Status `json:"status"`
	}
	if err := decodeInto(raw, &out, "user"); err != nil {
		return "", err
	}
	if out.Status == "" {
		// authority echoed nothing usable; trust the requested value
		return status, nil
	}
	return out.Status, nil
}

func (c *Client) GetStatus(ctx context.Context) (domain.Status, error) {
	raw, err := c.do(ctx, http.MethodGet, "/users/status", nil)
	if err != nil {
		return "", err
	}
	var out struct {
		Status domain.Status `json:"status"`
	}
	if err := decodeInto(raw, &out, "user"); err != nil {
		return "", err
	}
	return out.Status, nil
}

// AllStatuses fetches the status map for every known user.
func (c *Client) AllStatuses(ctx context.Context) (map[domain.UserID]domain.Status, error) {
	raw, err := c.do(ctx, http.MethodGet, "/users/statuses", nil)
	if err != nil {
		return nil, err
	}
	var out map[domain.UserID]domain.Status
	if err := decodeInto(raw, &out, "statuses"); err != nil {
		return nil, err
	}
	return out, nil
}
