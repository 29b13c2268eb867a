package account

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) sessionOp() huma.Operation {
	return huma.Operation{
		OperationID: "session-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/session",
		Summary:     "Текущая сессия",
		Description: "Claims decoded from the session token without signature verification",
		Tags:        []string{"session"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
