package controllers

import (
	"net/http"

	"github.com/PHRJr/BuritisProject/api/middleware"
	"github.com/PHRJr/BuritisProject/api/responses"
	"github.com/PHRJr/BuritisProject/api/validators"
	"github.com/PHRJr/BuritisProject/internal/orders"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/logger"
)

// SubmitItems records a batch of counted items for the session's shopper.
func SubmitItems(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		who, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Acesso não autorizado. Por favor, faça login novamente."))
			return
		}

		var body orders.Submission
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), who, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "Itens adicionados com sucesso!", map[string]any{
			"itens": result.Items,
		})
	}
}
