package ratings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpick/classpick/internal/source"
)

const searchResponse = `{
  "data": {
    "newSearch": {
      "teachers": {
        "edges": [
          {
            "node": {
              "firstName": "Jane",
              "lastName": "Doe",
              "department": "Computer Science",
              "avgRating": 4.5,
              "avgDifficulty": 2.1,
              "wouldTakeAgainPercent": 92.0,
              "numRatings": 37
            }
          },
          {
            "node": {
              "firstName": "Janet",
              "lastName": "Doe",
              "department": "Mathematics",
              "avgRating": null,
              "avgDifficulty": null,
              "wouldTakeAgainPercent": null,
              "numRatings": 0
            }
          }
        ]
      }
    }
  }
}`

func newRatingsTestPolicy(t *testing.T) *source.RetryPolicy {
	t.Helper()
	policy, err := source.NewRetryPolicy(3, time.Millisecond, 10*time.Millisecond)
	require.NoError(t, err)
	return policy
}

func newRatingsClient(t *testing.T, url string) *Client {
	t.Helper()
	client := NewClient(Config{
		GraphQLURL:    url,
		SchoolID:      "U2Nob29sLTM1Ng==",
		Authorization: "Basic dGVzdDp0ZXN0",
		UserAgent:     "classpick-test",
		Timeout:       time.Second,
	}, newRatingsTestPolicy(t), NewResolver(DefaultConfidenceThreshold))
	t.Cleanup(func() {
		assert.NoError(t, client.Close())
	})
	return client
}

func TestClient_FetchRating(t *testing.T) {
	t.Run("resolves the best matching profile", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Basic dGVzdDp0ZXN0", r.Header.Get("Authorization"))

			var req graphqlRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Contains(t, req.Query, "newSearch")
			query, ok := req.Variables["query"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "Jane Doe", query["text"])
			assert.Equal(t, "U2Nob29sLTM1Ng==", query["schoolID"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(searchResponse))
		}))
		defer server.Close()

		client := newRatingsClient(t, server.URL)
		record, ok, err := client.FetchRating(t.Context(), "Jane Doe")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "jane_doe", record.Instructor)
		assert.Equal(t, "Computer Science", record.Department)
		assert.InDelta(t, 4.5, record.AvgRating, 0.001)
		assert.InDelta(t, 92.0, record.WouldTakeAgain, 0.001)
		assert.Equal(t, 37, record.NumRatings)
	})

	t.Run("no confident match is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"newSearch":{"teachers":{"edges":[]}}}}`))
		}))
		defer server.Close()

		client := newRatingsClient(t, server.URL)
		_, ok, err := client.FetchRating(t.Context(), "Nobody Here")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("retries server errors up to the attempt cap", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newRatingsClient(t, server.URL)
		_, _, err := client.FetchRating(t.Context(), "Jane Doe")
		require.Error(t, err)
		assert.True(t, source.IsKind(err, source.KindTimeout))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("recovers after rate limiting", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			_, _ = w.Write([]byte(searchResponse))
		}))
		defer server.Close()

		client := newRatingsClient(t, server.URL)
		record, ok, err := client.FetchRating(t.Context(), "Jane Doe")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "jane_doe", record.Instructor)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("malformed response fails immediately", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"data": not json`))
		}))
		defer server.Close()

		client := newRatingsClient(t, server.URL)
		_, _, err := client.FetchRating(t.Context(), "Jane Doe")
		require.Error(t, err)
		assert.True(t, source.IsKind(err, source.KindParseFailure))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("graphql errors fail immediately", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"errors":[{"message":"school not found"}]}`))
		}))
		defer server.Close()

		client := newRatingsClient(t, server.URL)
		_, _, err := client.FetchRating(t.Context(), "Jane Doe")
		require.Error(t, err)
		assert.True(t, source.IsKind(err, source.KindParseFailure))
		assert.Contains(t, err.Error(), "school not found")
		assert.Equal(t, int32(1), calls.Load())
	})
}
