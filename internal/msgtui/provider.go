package msgtui

import (
	"context"

	"github.com/vesselworks/crewcomm/internal/api"
	"github.com/vesselworks/crewcomm/internal/models"
)

// Provider is the slice of the message service the TUI consumes. The
// real implementation is the HTTP client; tests substitute stubs.
type Provider interface {
	Operator() models.Operator
	LoadDirectory(ctx context.Context, roleFilter []models.Role) ([]models.Correspondent, error)
	LoadThread(ctx context.Context, contactID string) ([]models.Message, error)
	SendMessage(ctx context.Context, req api.SendRequest) error
	UpdateMessage(ctx context.Context, messageID, content string) error
	DeleteMessage(ctx context.Context, messageID string) error
}

var _ Provider = (*api.Client)(nil)
