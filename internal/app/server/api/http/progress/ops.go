package progress

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "cat-progress",
		Method:      http.MethodGet,
		Path:        "/api/v1/cats/{id}/progress",
		Summary:     "Progresso do cadastro do gato",
		Tags:        []string{"cats"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
