package apollo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    string
		wantPerson bool
		wantID     string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{
				"person": {
					"id": "p-123",
					"first_name": "Jane",
					"last_name": "Doe",
					"title": "VP Engineering",
					"email": "jane@acme.com",
					"linkedin_url": "https://linkedin.com/in/jane-doe",
					"mobile_phone_status": "unavailable",
					"organization": {"name": "Acme", "website_url": "https://acme.com", "industry": "software"}
				}
			}`,
			wantPerson: true,
			wantID:     "p-123",
		},
		{
			name:       "no_match",
			status:     http.StatusOK,
			body:       `{"person": null}`,
			wantPerson: false,
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"error": "invalid api key"}`,
			wantErr: "unexpected status 401",
		},
		{
			name:    "server_error",
			status:  http.StatusInternalServerError,
			body:    `{"error": "internal server error"}`,
			wantErr: "unexpected status 500",
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{invalid json`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/people/match", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var req MatchRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "test-key", req.APIKey)
				assert.Equal(t, "https://linkedin.com/in/jane-doe", req.LinkedInURL)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))

			person, err := client.Match(context.Background(), MatchRequest{
				LinkedInURL:    "https://linkedin.com/in/jane-doe",
				MatchOnWebsite: true,
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, person)
				return
			}

			require.NoError(t, err)
			if !tt.wantPerson {
				assert.Nil(t, person)
				return
			}
			require.NotNil(t, person)
			assert.Equal(t, tt.wantID, person.ID)
			assert.Equal(t, "Jane", person.FirstName)
			require.NotNil(t, person.Organization)
			assert.Equal(t, "Acme", person.Organization.Name)
		})
	}
}

func TestUnlockMobile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/people/mobile/search", r.URL.Path)

		var req UnlockRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-key", req.APIKey)
		assert.Equal(t, "p-123", req.ID)
		assert.True(t, req.MobilePhoneOnly)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"person": {"id": "p-123", "mobile_phone_number": "+15551234567", "mobile_phone_status": "verified"}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	person, err := client.UnlockMobile(context.Background(), UnlockRequest{
		ID:              "p-123",
		MobilePhoneOnly: true,
	})
	require.NoError(t, err)
	require.NotNil(t, person)
	assert.Equal(t, "+15551234567", person.MobilePhoneNumber)
	assert.Equal(t, "verified", person.MobilePhoneStatus)
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"person": null}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Match(ctx, MatchRequest{LinkedInURL: "https://linkedin.com/in/x"})
	require.Error(t, err)
}
