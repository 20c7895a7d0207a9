package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash-001:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var params GenerateContentParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		require.Len(t, params.Contents, 1)
		assert.Contains(t, params.Contents[0].Parts[0].Text, "astronomy")

		resp := GenerateContentResponse{
			Candidates: []*Candidate{{
				Content: &Content{Parts: []*Part{{Text: "TODAY — Detroit"}, {Text: "\nMoon: 42%"}}},
			}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := New("test-key", "gemini-2.0-flash-001", 5*time.Second)
	c.BaseURL = srv.URL

	got, err := c.GenerateText(context.Background(), "format this astronomy data")
	require.NoError(t, err)
	assert.Equal(t, "TODAY — Detroit\nMoon: 42%", got)
}

func TestGenerateText_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("k", "m", 5*time.Second)
	c.BaseURL = srv.URL
	_, err := c.GenerateText(context.Background(), "p")
	assert.Error(t, err)
}

func TestGenerateText_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(GenerateContentResponse{}))
	}))
	defer srv.Close()

	c := New("k", "m", 5*time.Second)
	c.BaseURL = srv.URL
	_, err := c.GenerateText(context.Background(), "p")
	assert.Error(t, err)
}
