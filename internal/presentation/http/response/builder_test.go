package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/harvest/pkg/errorbank"
)

func build(t *testing.T, compose func(*Builder) *Builder) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, compose(New(c)).Build())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestSuccessEnvelope(t *testing.T) {
	rec, body := build(t, func(b *Builder) *Builder {
		return b.WithStatus(http.StatusCreated).
			WithMessage("order placed successfully").
			WithData(map[string]any{"id": 1})
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "order placed successfully", body["message"])
	require.NotNil(t, body["data"])
	assert.NotContains(t, body, "count")
	assert.NotContains(t, body, "error")
}

func TestSuccessWithCount(t *testing.T) {
	_, body := build(t, func(b *Builder) *Builder {
		return b.WithData([]int{1, 2, 3}).WithCount(3)
	})

	assert.Equal(t, float64(3), body["count"])
}

func TestSuccessOmitsEmptyFields(t *testing.T) {
	rec, body := build(t, func(b *Builder) *Builder { return b })

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "message")
	assert.NotContains(t, body, "data")
}

func TestErrorEnvelopeHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	rec, body := build(t, func(b *Builder) *Builder {
		return b.WithError(errorbank.Internal("failed to create order", errorbank.WithCause(cause)))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "failed to create order", body["message"])
	assert.NotContains(t, rec.Body.String(), "connection refused")

	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "internal", errObj["kind"])
}

func TestErrorStatusFromKind(t *testing.T) {
	rec, _ := build(t, func(b *Builder) *Builder {
		return b.WithError(errorbank.NotFound("product not found"))
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorWrapsPlainErrors(t *testing.T) {
	rec, body := build(t, func(b *Builder) *Builder {
		return b.WithError(errors.New("boom"))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", body["message"])
	assert.NotContains(t, rec.Body.String(), "boom")
}
