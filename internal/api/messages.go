package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/chatzone/chatsync/internal/domain"
)

// MessagePage is one pagination window as the authority returns it.
type MessagePage struct {
	Messages []*domain.Message `json:"messages"`
	Page     int               `json:"page"`
	HasMore  bool              `json:"has_more"`
	PageSize int               `json:"page_size"`
}

func (c *Client) LoadMessages(ctx context.Context, id domain.ChannelID, page int) (*MessagePage, error) {
	path := fmt.Sprintf("/channels/%s/messages?page=%d", id, page)
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var mp MessagePage
	if err := decodeInto(raw, &mp, "messages"); err != nil {
		return nil, err
	}
	return &mp, nil
}

func (c *Client) SendMessage(ctx context.Context, id domain.ChannelID, content string) (*domain.Message, error) {
	raw, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/messages", id), map[string]string{
		"content": content,
	})
	if err != nil {
		return nil, err
	}
	var m domain.Message
	if err := decodeInto(raw, &m, "message"); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) EditMessage(ctx context.Context, id domain.MessageID, content string) (*domain.Message, error) {
	raw, err := c.do(ctx, http.MethodPut, "/messages/"+string(id), map[string]string{
		"content": content,
	})
	if err != nil {
		return nil, err
	}
	var m domain.Message
	if err := decodeInto(raw, &m, "message"); err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMessage returns the canonical tombstoned message when the
// authority supplies one; a bare 2xx with no body is also accepted.
func (c *Client) DeleteMessage(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	raw, err := c.do(ctx, http.MethodDelete, "/messages/"+string(id), nil)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var m domain.Message
	if err := decodeInto(raw, &m, "message"); err != nil {
		return nil, nil
	}
	return &m, nil
}

func (c *Client) SearchMessages(ctx context.Context, id domain.ChannelID, query string, page int) (*MessagePage, error) {
	path := fmt.Sprintf("/channels/%s/messages/search?q=%s&page=%d", id, url.QueryEscape(query), page)
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var mp MessagePage
	if err := decodeInto(raw, &mp, "messages"); err != nil {
		return nil, err
	}
	return &mp, nil
}

func (c *Client) MarkRead(ctx context.Context, id domain.MessageID) error {
	_, err := c.do(ctx, http.MethodPost, "/messages/read", map[string]string{
		"message_id": string(id),
	})
	return err
}

func (c *Client) MarkReadBatch(ctx context.Context, ids []domain.MessageID) error {
	_, err := c.do(ctx, http.MethodPost, "/messages/read/multiple", map[string]any{
		"message_ids": ids,
	})
	return err
}

func (c *Client) PinMessage(ctx context.Context, id domain.MessageID) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/messages/%s/pin", id), nil)
	return err
}

func (c *Client) UnpinMessage(ctx context.Context, id domain.MessageID) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/messages/%s/pin", id), nil)
	return err
}

func (c *Client) PinnedMessages(ctx context.Context, id domain.ChannelID) ([]*domain.Message, error) {
	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/channels/%s/pinned", id), nil)
	if err != nil {
		return nil, err
	}
	var list []*domain.Message
	if err := decodeInto(raw, &list, "messages"); err != nil {
		return nil, err
	}
	return list, nil
}
