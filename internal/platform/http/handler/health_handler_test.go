package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method         string
		expectedStatus int
		expectedBody   string
		expectedAllow  string
	}{
		{method: http.MethodGet, expectedStatus: http.StatusOK, expectedBody: `{"status":"ok"}`},
		{method: http.MethodHead, expectedStatus: http.StatusOK},
		{method: http.MethodOptions, expectedStatus: http.StatusNoContent, expectedAllow: healthAllow},
		{method: http.MethodPost, expectedStatus: http.StatusMethodNotAllowed, expectedBody: `{"error":"method not allowed"}`, expectedAllow: healthAllow},
		{method: http.MethodDelete, expectedStatus: http.StatusMethodNotAllowed, expectedBody: `{"error":"method not allowed"}`, expectedAllow: healthAllow},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			r := gin.New()
			r.Handle(tt.method, "/healthz", Health)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			assert.Equal(t, tt.expectedAllow, w.Header().Get("Allow"))
			if tt.expectedBody == "" {
				assert.Empty(t, w.Body.String())
			} else {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
