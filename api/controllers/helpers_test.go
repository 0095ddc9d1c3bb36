package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PHRJr/BuritisProject/pkg/enums"
)

type stubCookies struct {
	writes   []string
	roles    []enums.Role
	cleared  int
	writeErr error
}

func (s *stubCookies) Write(w http.ResponseWriter, _ time.Time, sessionID string, role enums.Role) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes = append(s.writes, sessionID)
	s.roles = append(s.roles, role)
	http.SetCookie(w, &http.Cookie{Name: "buritis.sid", Value: sessionID})
	return nil
}

func (s *stubCookies) Clear(w http.ResponseWriter) {
	s.cleared++
	http.SetCookie(w, &http.Cookie{Name: "buritis.sid", Value: "", MaxAge: -1})
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

func multipartRequest(t *testing.T, target string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, content := range files {
		part, err := mw.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload), rr.Body.String())
	return payload
}
