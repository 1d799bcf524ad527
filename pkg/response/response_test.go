package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/cafefront/pkg/response"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Success(rec, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":200,"data":{"status":"ok"}}`, rec.Body.String())
}

func TestTooManyRequests(t *testing.T) {
	rec := httptest.NewRecorder()
	response.TooManyRequests(rec, "60")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"status":429,"message":"Too Many Requests"}`, rec.Body.String())
}
