package handler

import (
	"net/http"

	"shilajit-be/internal/auth"
)

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var input auth.LoginInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}

	sess, err := h.auth.Login(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteLaxMode,
	})
	ok(w, sess, "Login successful")
}
