package controllers

import (
	"net/http"

	"github.com/PHRJr/BuritisProject/api/responses"
	"github.com/PHRJr/BuritisProject/api/validators"
	"github.com/PHRJr/BuritisProject/internal/catalog"
	"github.com/PHRJr/BuritisProject/pkg/enums"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/logger"
)

const (
	queryNetwork = "rede"
	queryStore   = "loja"
)

func ListNetworks(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		names, err := svc.ListNetworks(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, names)
	}
}

// ListStores returns the stores of ?rede=. A missing network yields an empty list.
func ListStores(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		names, err := svc.ListStores(r.Context(), validators.QueryValue(r, queryNetwork))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, names)
	}
}

// ListProducts serves /api/produtos, scoped by ?loja= or ?rede= (store wins).
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, value, err := validators.FirstQuery(r, queryStore, queryNetwork)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind := enums.GroupingKindNetwork
		if key == queryStore {
			kind = enums.GroupingKindStore
		}
		writeProducts(w, r, svc, logg, catalog.Grouping{Kind: kind, Name: value})
	}
}

// ListNetworkProducts serves the older /api/produtos_por_rede?rede= lookup.
func ListNetworkProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, value, err := validators.FirstQuery(r, queryNetwork)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeProducts(w, r, svc, logg, catalog.Grouping{Kind: enums.GroupingKindNetwork, Name: value})
	}
}

func writeProducts(w http.ResponseWriter, r *http.Request, svc catalog.Service, logg *logger.Logger, grouping catalog.Grouping) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
		return
	}
	products, err := svc.ListProducts(r.Context(), grouping)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteJSON(w, http.StatusOK, products)
}
