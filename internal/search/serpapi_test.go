package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const resultPageHTML = `<html><head><script>var x = "hidden";</script>
<style>.a{color:red}</style></head>
<body><nav>Menu Home About</nav>
<p>Venus   blazes low in   the west after sunset.</p>
<footer>Copyright</footer></body></html>`

func testServer(t *testing.T, pages int) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search.json":
			assert.Equal(t, "google", r.URL.Query().Get("engine"))
			assert.Equal(t, "10", r.URL.Query().Get("num"))
			assert.Equal(t, "k", r.URL.Query().Get("api_key"))
			assert.NotEmpty(t, r.URL.Query().Get("q"))

			type item struct {
				Title   string `json:"title"`
				Link    string `json:"link"`
				Snippet string `json:"snippet"`
			}
			var items []item
			for i := 0; i < pages; i++ {
				items = append(items, item{
					Title:   fmt.Sprintf("Result %d", i),
					Link:    fmt.Sprintf("%s/page/%d", srv.URL, i),
					Snippet: fmt.Sprintf("Snippet %d", i),
				})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"organic_results": items})
		case strings.HasPrefix(r.URL.Path, "/page/"):
			_, _ = w.Write([]byte(resultPageHTML))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(srvURL string, fetchPages bool) *Client {
	c := NewClient("k", fetchPages, 5*time.Second, zap.NewNop())
	c.baseURL = srvURL
	return c
}

func TestSearch_FetchesPageTextForTopResults(t *testing.T) {
	srv := testServer(t, 5)
	c := testClient(srv.URL, true)

	results, err := c.Search(context.Background(), "astronomy events today")
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.Equal(t, "Result 0", results[0].Title)
	assert.Equal(t, "Snippet 0", results[0].Snippet)

	for i, r := range results {
		if i < 3 {
			assert.Contains(t, r.PageText, "Venus blazes low in the west after sunset.")
			assert.NotContains(t, r.PageText, "hidden")
			assert.NotContains(t, r.PageText, "Menu Home")
			assert.NotContains(t, r.PageText, "Copyright")
		} else {
			assert.Empty(t, r.PageText)
		}
	}
}

func TestSearch_PageFetchDisabled(t *testing.T) {
	srv := testServer(t, 2)
	c := testClient(srv.URL, false)

	results, err := c.Search(context.Background(), "astronomy events today")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Empty(t, r.PageText)
	}
}

func TestSearch_CapsResults(t *testing.T) {
	srv := testServer(t, 12)
	c := testClient(srv.URL, false)

	results, err := c.Search(context.Background(), "astronomy events today")
	require.NoError(t, err)
	assert.Len(t, results, 8)
}

func TestSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := testClient(srv.URL, false)

	_, err := c.Search(context.Background(), "astronomy events today")
	assert.Error(t, err)
}

func TestSearch_NoKeyIsNoop(t *testing.T) {
	c := NewClient("", true, time.Second, zap.NewNop())
	results, err := c.Search(context.Background(), "anything")
	assert.NoError(t, err)
	assert.Nil(t, results)
}
