package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/skyetechdotio/Club-Key-sub001/internal/middleware"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

// getUserIDFromContext pulls the authenticated user id placed on the request
// context by the auth middleware. When absent or malformed it writes the 401
// response itself and reports false.
func getUserIDFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ctxUserID := r.Context().Value(middleware.ContextKeyUserID)
	if ctxUserID == nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Unauthorized", nil,
		)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(ctxUserID.(string))
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Unauthorized", nil, err,
		)
		return uuid.Nil, false
	}
	return userID, true
}
