// Package api is the REST side of the authority boundary. It owns no
// state: it issues requests, maps failures onto the shared error
// taxonomy and hands tolerantly-decoded payloads to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/apperr"
)

// TokenSource supplies the current auth credential. The session store
// implements it; requests always read the credential at send time so a
// re-login is picked up without rebuilding the client.
type TokenSource interface {
	Token() string
}

type Client struct {
	base  string
	http  *http.Client
	creds TokenSource
}

func NewClient(baseURL string, creds TokenSource) *Client {
	return &Client{
		base:  baseURL,
		http:  &http.Client{},
		creds: creds,
	}
}

// errorBody is the authority's failure envelope. Both {"message": ...}
// and {"error": ...} occur in the wild.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, "encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.creds.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Transient("request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Transient("read response", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return json.RawMessage(data), nil
	}

	var eb errorBody
	_ = json.Unmarshal(data, &eb)
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	if msg == "" {
		msg = fmt.Sprintf("%s %s: status %d", method, path, resp.StatusCode)
	}
	log.Debug().Str("module", "api").Str("path", path).Int("status", resp.StatusCode).Msg(msg)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, apperr.NotFound(msg)
	case http.StatusForbidden:
		return nil, apperr.NotAuthorized(msg)
	case http.StatusUnauthorized:
		return nil, apperr.NotAuthorized(msg)
	case http.StatusConflict:
		return nil, apperr.AlreadyExists(msg)
	case http.StatusBadRequest:
		return nil, apperr.InvalidArg(msg)
	default:
		if resp.StatusCode >= 500 {
			return nil, apperr.Transient(msg, nil)
		}
		return nil, apperr.Internal(msg)
	}
}
