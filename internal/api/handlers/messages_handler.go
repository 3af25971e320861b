package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/campushire/backend/internal/api/middleware"
	"github.com/campushire/backend/internal/api/types"
	"github.com/campushire/backend/internal/services"
	appErr "github.com/campushire/backend/pkg/errors"
)

type MessagesHandler struct {
	messages services.MessageService
}

func NewMessagesHandler(messages services.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messages}
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	var req struct {
		RecipientID string `json:"recipient_id"`
		Subject     string `json:"subject"`
		Content     string `json:"content"`
	}
	if !decode(w, r, &req) {
		return
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, appErr.CodeInvalid, "invalid recipient_id")
		return
	}

	m, err := h.messages.Send(r.Context(), caller, &services.SendMessageInput{
		RecipientID: recipientID,
		Subject:     req.Subject,
		Content:     req.Content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: m})
}

func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	msgs, err := h.messages.ListForUser(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    msgs,
		Meta:    &types.Meta{Count: len(msgs)},
	})
}

func (h *MessagesHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	otherID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	msgs, err := h.messages.Conversation(r.Context(), caller, otherID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    msgs,
		Meta:    &types.Meta{Count: len(msgs)},
	})
}

func (h *MessagesHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	n, err := h.messages.UnreadCount(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]int64{"unread": n}})
}

func (h *MessagesHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	m, err := h.messages.MarkRead(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: m})
}

func (h *MessagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.messages.Delete(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "message deleted"})
}
