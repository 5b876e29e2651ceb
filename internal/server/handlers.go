package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vesselworks/crewcomm/internal/db"
	"github.com/vesselworks/crewcomm/internal/models"
)

// contactDTO is the wire shape of a directory entry.
type contactDTO struct {
	ID       string `json:"id"`
	CrewID   string `json:"crew_id,omitempty"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Position string `json:"position,omitempty"`
	Status   string `json:"status"`
}

// messageDTO is the wire shape of a persisted message.
type messageDTO struct {
	ID       string    `json:"id"`
	FromID   string    `json:"from_id"`
	ToID     string    `json:"to_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
	Status   string    `json:"status"`
	Priority string    `json:"priority"`
}

// sendMessageRequest is the POST /messages payload.
type sendMessageRequest struct {
	ToID     string `json:"to_id" validate:"required"`
	ToName   string `json:"to_name"`
	Content  string `json:"content" validate:"required"`
	Priority string `json:"priority" validate:"omitempty,oneof=normal urgent"`
}

// updateMessageRequest is the PATCH /messages/{id} payload.
type updateMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// upsertContactRequest is the PUT /contacts/{id} payload.
type upsertContactRequest struct {
	CrewID   string `json:"crew_id"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.contacts.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list contacts")
		writeError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}

	out := make([]contactDTO, 0, len(contacts))
	for _, contact := range contacts {
		out = append(out, contactDTO{
			ID:       contact.ID,
			CrewID:   contact.CrewID,
			FullName: contact.FullName,
			Role:     contact.Role,
			Position: models.Role(contact.Role).PositionLabel(),
			Status:   contact.Status,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpsertContact(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	var req upsertContactRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	contact := &db.Contact{
		ID:       contactID,
		CrewID:   req.CrewID,
		FullName: req.FullName,
		Role:     req.Role,
		Status:   req.Status,
	}
	if err := s.contacts.Upsert(r.Context(), contact); err != nil {
		s.log.Error().Err(err).Str("contact_id", contactID).Msg("upsert contact")
		writeError(w, http.StatusInternalServerError, "failed to store contact")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": contactID})
}

func (s *Server) handleThread(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")
	operator := operatorID(r)

	// Fetching the thread is what the recipient acknowledging delivery
	// looks like in a poll-based system: progress inbound statuses
	// before reading so the response reflects them.
	if err := s.messages.AdvanceInboundStatus(r.Context(), operator, contactID); err != nil {
		s.log.Error().Err(err).Str("contact_id", contactID).Msg("advance status")
		writeError(w, http.StatusInternalServerError, "failed to load thread")
		return
	}

	thread, err := s.messages.Thread(r.Context(), operator, contactID)
	if err != nil {
		s.log.Error().Err(err).Str("contact_id", contactID).Msg("load thread")
		writeError(w, http.StatusInternalServerError, "failed to load thread")
		return
	}

	out := make([]messageDTO, 0, len(thread))
	for _, msg := range thread {
		out = append(out, messageDTO{
			ID:       msg.ID,
			FromID:   msg.FromID,
			ToID:     msg.ToID,
			Content:  msg.Content,
			SentAt:   msg.SentAt,
			Status:   string(msg.Status),
			Priority: string(msg.Priority),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	msg := &models.Message{
		FromID:   operatorID(r),
		ToID:     req.ToID,
		Content:  strings.TrimSpace(req.Content),
		Priority: models.MessagePriority(req.Priority),
	}
	if msg.Content == "" {
		writeError(w, http.StatusBadRequest, "content must not be empty")
		return
	}

	if err := s.messages.Create(r.Context(), msg); err != nil {
		s.log.Error().Err(err).Str("to_id", req.ToID).Msg("create message")
		writeError(w, http.StatusInternalServerError, "failed to store message")
		return
	}

	writeJSON(w, http.StatusCreated, messageDTO{
		ID:       msg.ID,
		FromID:   msg.FromID,
		ToID:     msg.ToID,
		Content:  msg.Content,
		SentAt:   msg.SentAt,
		Status:   string(msg.Status),
		Priority: string(msg.Priority),
	})
}

func (s *Server) handleUpdateMessage(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")

	var req updateMessageRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	err := s.messages.UpdateContent(r.Context(), messageID, operatorID(r), strings.TrimSpace(req.Content))
	if err != nil {
		s.writeMutationError(w, messageID, "update message", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": messageID})
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")

	if err := s.messages.Delete(r.Context(), messageID, operatorID(r)); err != nil {
		s.writeMutationError(w, messageID, "delete message", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": messageID})
}

func (s *Server) writeMutationError(w http.ResponseWriter, messageID, action string, err error) {
	switch {
	case errors.Is(err, db.ErrMessageNotFound):
		writeError(w, http.StatusNotFound, "message not found")
	case errors.Is(err, db.ErrNotSender):
		writeError(w, http.StatusForbidden, "only the sender may modify a message")
	default:
		s.log.Error().Err(err).Str("message_id", messageID).Msg(action)
		writeError(w, http.StatusConflict, err.Error())
	}
}

// decodeValid decodes the JSON body into dst and validates it, writing
// the error response itself on failure.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
