package controllers

import (
	"errors"
	"io"
	"net/http"

	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
)

const (
	fieldProductsFile        = "produtosCsvFile"
	fieldNetworkProductsFile = "redesCsvFile"
	fieldNetworkStoresFile   = "lojasCsvFile"
	fieldUsersFile           = "userCsvFile"
)

// parseUpload reads a multipart body capped at maxBytes.
func parseUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Arquivo excede o tamanho máximo permitido.")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Envio de arquivos inválido.")
	}
	return nil
}

// formFile returns the bytes of an uploaded field, or nil when it was not sent.
func formFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Envio de arquivos inválido.")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Não foi possível ler o arquivo enviado.")
	}
	return data, nil
}

func formFiles(r *http.Request, fields ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(fields))
	for _, field := range fields {
		data, err := formFile(r, field)
		if err != nil {
			return nil, err
		}
		out[field] = data
	}
	return out, nil
}
