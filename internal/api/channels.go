package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chatzone/chatsync/internal/domain"
)

func (c *Client) ListChannels(ctx context.Context) ([]*domain.Channel, error) {
	raw, err := c.do(ctx, http.MethodGet, "/channels", nil)
	if err != nil {
		return nil, err
	}
	var list []*domain.Channel
	if err := decodeInto(raw, &list, "channels"); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateChannel(ctx context.Context, name string, typ domain.ChannelType) (*domain.Channel, error) {
	raw, err := c.do(ctx, http.MethodPost, "/channels", map[string]string{
		"name": name,
		"type": string(typ),
	})
	if err != nil {
		return nil, err
	}
	var ch domain.Channel
	if err := decodeInto(raw, &ch, "channel"); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *Client) GetChannel(ctx context.Context, id domain.ChannelID) (*domain.Channel, error) {
	raw, err := c.do(ctx, http.MethodGet, "/channels/"+string(id), nil)
	if err != nil {
		return nil, err
	}
	var ch domain.Channel
	if err := decodeInto(raw, &ch, "channel"); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *Client) LeaveChannel(ctx context.Context, id domain.ChannelID) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/leave", id), nil)
	return err
}

func (c *Client) ChannelMembers(ctx context.Context, id domain.ChannelID) ([]*domain.User, error) {
	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/channels/%s/members", id), nil)
	if err != nil {
		return nil, err
	}
	var list []*domain.User
	if err := decodeInto(raw, &list, "members"); err != nil {
		return nil, err
	}
	return list, nil
}

// Cleanup asks the authority to retire inactive channels and returns the
// IDs it deleted, so the local model can evict the same ones.
func (c *Client) Cleanup(ctx context.Context) ([]domain.ChannelID, error) {
	raw, err := c.do(ctx, http.MethodPost, "/channels/cleanup", nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Deleted []domain.ChannelID `json:"deleted"`
	}
	if err := decodeInto(raw, &out); err != nil {
		return nil, err
	}
	return out.Deleted, nil
}
