package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type chatRequest struct {
	Message string         `json:"message"`
	Context map[string]any `json:"context"`
}

type recommendRequest struct {
	UserID      string         `json:"userId"`
	Preferences map[string]any `json:"preferences"`
}

func (h *Handler) Chatbot(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	reply, err := h.assistant.Chat(r.Context(), req.Message)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: reply.OK, Data: reply})
}

func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	res, err := h.assistant.Recommend(r.Context(), req.Preferences)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok(w, res, res.Message)
}

func (h *Handler) EnhanceProduct(w http.ResponseWriter, r *http.Request) {
	apply, _ := strconv.ParseBool(r.URL.Query().Get("apply"))

	res, err := h.assistant.EnhanceDescription(r.Context(), chi.URLParam(r, "productId"), apply)
	if err != nil {
		h.writeProductError(w, r, err)
		return
	}
	ok(w, res, "")
}
