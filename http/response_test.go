package http_test

import (
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tollgate/tollgate"
	gatewayhttp "github.com/tollgate/tollgate/http"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "auth error",
			err:         tollgate.AuthError("missing or invalid token"),
			wantStatus:  nethttp.StatusUnauthorized,
			wantMessage: "missing or invalid token",
		},
		{
			name:        "bad request",
			err:         tollgate.BadRequest("missing key"),
			wantStatus:  nethttp.StatusBadRequest,
			wantMessage: "missing key",
		},
		{
			name:        "not found",
			err:         tollgate.NotFoundError("a/b.txt"),
			wantStatus:  nethttp.StatusNotFound,
			wantMessage: `object "a/b.txt" not found`,
		},
		{
			name:        "range not satisfiable",
			err:         tollgate.RangeError("malformed range header"),
			wantStatus:  nethttp.StatusRequestedRangeNotSatisfiable,
			wantMessage: "malformed range header",
		},
		{
			name:        "upstream with status",
			err:         tollgate.UpstreamError(nethttp.StatusServiceUnavailable, errors.New("backend down")),
			wantStatus:  nethttp.StatusServiceUnavailable,
			wantMessage: "backing store request failed",
		},
		{
			name:        "upstream without status",
			err:         tollgate.UpstreamError(0, errors.New("dial tcp: refused")),
			wantStatus:  nethttp.StatusBadGateway,
			wantMessage: "backing store request failed",
		},
		{
			name:        "wrapped tagged error",
			err:         fmt.Errorf("during read: %w", tollgate.NotFoundError("x")),
			wantStatus:  nethttp.StatusNotFound,
			wantMessage: `object "x" not found`,
		},
		{
			name:        "untagged error stays opaque",
			err:         errors.New("pq: connection reset"),
			wantStatus:  nethttp.StatusInternalServerError,
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			gatewayhttp.HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.wantMessage), rec.Body.String())
		})
	}
}
