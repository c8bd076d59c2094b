package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	testCases := []struct {
		name               string
		ping               PingFunc
		expectedStatusCode int
		expectedStatus     string
		expectedStore      string
	}{
		{
			name:               "Store reachable",
			ping:               func(context.Context) error { return nil },
			expectedStatusCode: http.StatusOK,
			expectedStatus:     "healthy",
			expectedStore:      "up",
		},
		{
			name:               "Store down",
			ping:               func(context.Context) error { return errors.New("dial tcp: connection refused") },
			expectedStatusCode: http.StatusServiceUnavailable,
			expectedStatus:     "unhealthy",
			expectedStore:      "down",
		},
		{
			name: "Ping gets a deadline",
			ping: func(ctx context.Context) error {
				if _, ok := ctx.Deadline(); !ok {
					return errors.New("no deadline")
				}
				return nil
			},
			expectedStatusCode: http.StatusOK,
			expectedStatus:     "healthy",
			expectedStore:      "up",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tc.ping).ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			var resp HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tc.expectedStatus, resp.Status)
			assert.Equal(t, tc.expectedStore, resp.Store)
			assert.False(t, resp.Timestamp.IsZero())
		})
	}
}
