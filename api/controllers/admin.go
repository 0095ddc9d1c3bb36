package controllers

import (
	"net/http"

	"github.com/PHRJr/BuritisProject/api/responses"
	"github.com/PHRJr/BuritisProject/internal/catalog"
	"github.com/PHRJr/BuritisProject/internal/reports"
	"github.com/PHRJr/BuritisProject/internal/users"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/logger"
)

// RefreshCatalog replaces products, networks, stores and their associations
// from the uploaded CSV files.
func RefreshCatalog(svc catalog.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		if err := parseUpload(w, r, maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		files, err := formFiles(r, fieldProductsFile, fieldNetworkProductsFile, fieldNetworkStoresFile)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Replace(r.Context(), catalog.Upload{
			Products:        files[fieldProductsFile],
			NetworkProducts: files[fieldNetworkProductsFile],
			NetworkStores:   files[fieldNetworkStoresFile],
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "Produtos e lojas atualizados com sucesso!", map[string]any{
			"resumo": summary,
		})
	}
}

// UploadAllowList replaces the e-mail allow-list from userCsvFile.
func UploadAllowList(svc users.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}
		if err := parseUpload(w, r, maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		data, err := formFile(r, fieldUsersFile)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		imported, err := svc.ReplaceAllowList(r.Context(), data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "Lista de utilizadores padrão atualizada com sucesso!", map[string]any{
			"importados": imported,
		})
	}
}

// ExportEntries downloads every submitted item as CSV, newest first.
func ExportEntries(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		export, err := svc.ExportEntries(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteAttachment(w, export.Filename, export.ContentType, export.Body)
	}
}
