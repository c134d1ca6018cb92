package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratsession/stratsession-api/internal/antispam"
	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/internal/services"
	"github.com/stratsession/stratsession-api/internal/store"
	"github.com/stratsession/stratsession-api/pkg/formtoken"
)

func formRouter(t *testing.T) *gin.Engine {
	t.Helper()

	tokens := formtoken.NewTokenManager("test-secret", "stratsession-api", time.Hour)
	forms := store.NewFormStore(time.Hour)
	guard := antispam.NewGuard(tokens, forms, 3*time.Second)
	handler := NewFormHandler(services.NewFormService(tokens, guard))

	router := gin.New()
	router.POST("/api/v1/forms/lead/mount", handler.Mount)
	router.POST("/api/v1/forms/lead/interaction", handler.Interaction)
	return router
}

func TestFormHandler_Mount(t *testing.T) {
	router := formRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/forms/lead/mount", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.FormMountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.FormID)
	assert.NotEmpty(t, resp.Token)
	assert.False(t, resp.MountedAt.IsZero())
}

func TestFormHandler_Interaction(t *testing.T) {
	router := formRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/forms/lead/mount", http.NoBody)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var mounted models.FormMountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mounted))

	body, err := json.Marshal(map[string]string{"formToken": mounted.Token})
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/v1/forms/lead/interaction", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestFormHandler_Interaction_BadToken(t *testing.T) {
	router := formRouter(t)

	body, err := json.Marshal(map[string]string{"formToken": "garbage"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/forms/lead/interaction", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFormHandler_Interaction_MissingToken(t *testing.T) {
	router := formRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/forms/lead/interaction", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
