package handlers

import (
	"errors"
	"net/http"

	"github.com/optimald/medequiptech/internal/apperr"
	"github.com/optimald/medequiptech/internal/utils"

	"go.uber.org/zap"
)

// actorHeader - заголовок с идентификатором действующего пользователя.
// Аутентификация живет на внешнем шлюзе, сюда приходит уже проверенный ID.
const actorHeader = "X-User-Id"

// actorID достает идентификатор действующего пользователя из запроса.
func actorID(r *http.Request) string {
	return r.Header.Get(actorHeader)
}

// writeError отправляет клиенту категоризованную ошибку. Непредвиденные
// ошибки логируются и уходят клиенту общим сообщением.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		utils.SendErrorResponse(w, appErr.Kind.HTTPStatus(), appErr.Message)
		return
	}
	logger.Error(fallback, zap.Error(err))
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}
