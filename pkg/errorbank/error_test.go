package errorbank

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestKindMapping(t *testing.T) {
	cases := []struct {
		err      *AppError
		status   int
		grpcCode codes.Code
	}{
		{BadRequest("bad"), http.StatusBadRequest, codes.InvalidArgument},
		{Conflict("clash"), http.StatusConflict, codes.AlreadyExists},
		{NotFound("missing"), http.StatusNotFound, codes.NotFound},
		{Internal("boom"), http.StatusInternalServerError, codes.Internal},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode())
		assert.Equal(t, tc.grpcCode, tc.err.GRPCCode())
	}
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Internal("failed to save", WithCause(cause))

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestWithDetail(t *testing.T) {
	err := BadRequest("total mismatch", WithDetail("submitted", 10.0), WithDetail("computed", 12.5))

	require.NotNil(t, err.Details())
	assert.Equal(t, 10.0, err.Details()["submitted"])
	assert.Equal(t, 12.5, err.Details()["computed"])
}

func TestFrom(t *testing.T) {
	appErr := NotFound("gone")
	assert.Same(t, appErr, From(appErr))

	wrapped := From(errors.New("plain"))
	assert.Equal(t, KindInternal, wrapped.Kind())

	assert.Nil(t, From(nil))
}
