package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vesselworks/crewcomm/internal/models"
)

// SendRequest is the payload for dispatching a new message.
type SendRequest struct {
	ToID     string                 `json:"to_id"`
	ToName   string                 `json:"to_name,omitempty"`
	Content  string                 `json:"content"`
	Priority models.MessagePriority `json:"priority,omitempty"`
}

// SendMessage dispatches a message to the correspondent. The response
// body is not consumed beyond error detection; callers reload the thread
// afterwards and let the server list win.
func (c *Client) SendMessage(ctx context.Context, req SendRequest) error {
	if req.Priority == "" {
		req.Priority = models.PriorityNormal
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/messages", req)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// UpdateMessage replaces the content of an existing message.
func (c *Client) UpdateMessage(ctx context.Context, messageID, content string) error {
	payload := struct {
		Content string `json:"content"`
	}{Content: content}

	path := "/api/v1/messages/" + url.PathEscape(messageID)
	resp, err := c.do(ctx, http.MethodPatch, path, payload)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	path := "/api/v1/messages/" + url.PathEscape(messageID)
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}
