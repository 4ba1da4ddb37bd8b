package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/keycheck/internal/observability/logger"
)

// errorResponse structura interna para la serialización JSON.
// status siempre es "error" para que los clientes del endpoint de keys
// puedan ramificar por el mismo campo que en las respuestas de dominio.
type errorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteErrorCtx escribe una respuesta HTTP basada en el error proporcionado.
// Maneja errores *AppError y genéricos; la causa de los 5xx se loguea con el logger
// del request (r puede ser nil).
func WriteErrorCtx(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log := logger.L()
		if r != nil {
			log = logger.From(r.Context())
		}
		log.Error("request failed",
			logger.Layer("http"),
			logger.String("code", appErr.Code),
			logger.Status(appErr.HTTPStatus),
			logger.Err(appErr.Unwrap()),
		)
	}

	resp := errorResponse{
		Status:  "error",
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
