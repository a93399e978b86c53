package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
		code   codes.Code
	}{
		{BadRequest("bad"), http.StatusBadRequest, codes.InvalidArgument},
		{Unauthorized("nope"), http.StatusUnauthorized, codes.Unauthenticated},
		{Forbidden("nope"), http.StatusForbidden, codes.PermissionDenied},
		{Conflict("dup"), http.StatusConflict, codes.AlreadyExists},
		{NotFound("gone"), http.StatusNotFound, codes.NotFound},
		{Unprocessable("invalid"), http.StatusUnprocessableEntity, codes.FailedPrecondition},
		{Internal("boom"), http.StatusInternalServerError, codes.Internal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode(), tc.err.Message())
		assert.Equal(t, tc.code, tc.err.GRPCCode(), tc.err.Message())
	}
}

func TestErrorWrapsCause(t *testing.T) {
	cause := fmt.Errorf("driver said no")
	err := Internal("query failed", WithCause(cause))

	assert.Equal(t, "query failed: driver said no", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "query failed", err.Message())
}

func TestDetailsMerge(t *testing.T) {
	err := BadRequest("validation failed",
		WithDetail("field", "email"),
		WithDetails(map[string]any{"reason": "format"}),
	)

	require.NotNil(t, err.Details())
	assert.Equal(t, "email", err.Details()["field"])
	assert.Equal(t, "format", err.Details()["reason"])
}

func TestFrom(t *testing.T) {
	appErr := NotFound("order not found")
	assert.Same(t, appErr, From(appErr))
	assert.Same(t, appErr, From(fmt.Errorf("load: %w", appErr)))

	wrapped := From(errors.New("disk on fire"))
	assert.Equal(t, KindInternal, wrapped.Kind())
	assert.Equal(t, "internal error", wrapped.Message())

	assert.Nil(t, From(nil))
}

func TestEmptyMessageFallsBackToKind(t *testing.T) {
	err := New(KindConflict, "")
	assert.Equal(t, "conflict", err.Message())
}
