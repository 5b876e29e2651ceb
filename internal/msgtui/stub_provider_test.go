package msgtui

import (
	"context"
	"sync"

	"github.com/vesselworks/crewcomm/internal/api"
	"github.com/vesselworks/crewcomm/internal/models"
)

// stubProvider is an in-memory Provider for view tests. Behavior per
// call is steered by the err fields; calls are recorded for assertion.
type stubProvider struct {
	mu sync.Mutex

	operator models.Operator

	contacts     []models.Correspondent
	directoryErr error

	threads   map[string][]models.Message
	threadErr error

	sendErr   error
	updateErr error
	deleteErr error

	sentRequests   []api.SendRequest
	updatedIDs     []string
	updatedContent []string
	deletedIDs     []string
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		operator: models.Operator{ID: "op-1", CrewID: "CR-1", FullName: "Dana Reyes"},
		threads:  make(map[string][]models.Message),
	}
}

func (s *stubProvider) Operator() models.Operator {
	return s.operator
}

func (s *stubProvider) LoadDirectory(_ context.Context, _ []models.Role) ([]models.Correspondent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.directoryErr != nil {
		return nil, s.directoryErr
	}
	return s.contacts, nil
}

func (s *stubProvider) LoadThread(_ context.Context, contactID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.threadErr != nil {
		return nil, s.threadErr
	}
	return s.threads[contactID], nil
}

func (s *stubProvider) SendMessage(_ context.Context, req api.SendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sentRequests = append(s.sentRequests, req)
	return s.sendErr
}

func (s *stubProvider) UpdateMessage(_ context.Context, messageID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedIDs = append(s.updatedIDs, messageID)
	s.updatedContent = append(s.updatedContent, content)
	return s.updateErr
}

func (s *stubProvider) DeleteMessage(_ context.Context, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedIDs = append(s.deletedIDs, messageID)
	return s.deleteErr
}
