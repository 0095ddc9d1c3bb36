package validators

import (
	"net/http"

	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
)

const maxQueryValueLen = 200

// QueryValue returns the trimmed parameter, or "" when absent.
func QueryValue(r *http.Request, key string) string {
	return SanitizeString(r.URL.Query().Get(key), maxQueryValueLen)
}

// FirstQuery returns the first non-empty parameter among keys and the key it
// came from. It fails when every key is missing.
func FirstQuery(r *http.Request, keys ...string) (string, string, error) {
	for _, key := range keys {
		if value := QueryValue(r, key); value != "" {
			return key, value, nil
		}
	}
	return "", "", pkgerrors.New(pkgerrors.CodeValidation, "Parâmetro obrigatório ausente.").WithDetails(map[string]any{"fields": keys})
}
