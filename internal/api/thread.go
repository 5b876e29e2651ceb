package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/vesselworks/crewcomm/internal/models"
)

// messageRecord is the wire shape of a persisted message.
type messageRecord struct {
	ID       string    `json:"id"`
	FromID   string    `json:"from_id"`
	ToID     string    `json:"to_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
	Status   string    `json:"status"`
	Priority string    `json:"priority"`
}

// LoadThread fetches the ordered message history for the given
// correspondent and maps it into domain messages, deriving IsMine from
// the operator identity.
//
// The result of a load is the sole source of truth for the thread: any
// locally held list, including provisional or failed entries, must be
// wholly replaced by it. An empty contact id yields an empty thread
// without touching the service.
func (c *Client) LoadThread(ctx context.Context, contactID string) ([]models.Message, error) {
	if contactID == "" {
		return []models.Message{}, nil
	}

	path := "/api/v1/threads/" + url.PathEscape(contactID) + "/messages"
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var records []messageRecord
	if err := decode(resp, &records); err != nil {
		return nil, err
	}

	out := make([]models.Message, 0, len(records))
	for _, record := range records {
		out = append(out, models.Message{
			ID:       record.ID,
			FromID:   record.FromID,
			ToID:     record.ToID,
			Content:  record.Content,
			SentAt:   record.SentAt,
			Status:   models.MessageStatus(record.Status),
			Priority: models.MessagePriority(record.Priority),
			IsMine:   record.FromID == c.operator.ID,
		})
	}
	return out, nil
}
