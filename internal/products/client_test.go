package products

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeemgetnoor/customer-profile-manager/internal/shopify"
	"github.com/adeemgetnoor/customer-profile-manager/pkg/errors"
)

type stubGraphQL struct {
	calls int
	data  string
	err   error
}

func (s *stubGraphQL) Execute(_ context.Context, _ string, _ map[string]interface{}) (*shopify.GraphQLResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &shopify.GraphQLResponse{Data: json.RawMessage(s.data)}, nil
}

func testRestClient(t *testing.T, handler http.HandlerFunc) (*Client, *stubGraphQL, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gql := &stubGraphQL{}
	c := &Client{
		gql:         gql,
		restBase:    srv.URL,
		accessToken: "shpat_test",
		httpClient:  srv.Client(),
		cacheTTL:    5 * time.Minute,
	}
	return c, gql, srv
}

func TestByIDParsesRestPayload(t *testing.T) {
	var requests int
	c, _, _ := testRestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/products/9.json", r.URL.Path)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		w.Write([]byte(`{"product":{"id":9,"handle":"red-shoe","title":"Red Shoe","image":{"src":"https://cdn/red.jpg"}}}`))
	})

	p, err := c.ByID(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, &Product{ID: "9", Handle: "red-shoe", Title: "Red Shoe", Image: "https://cdn/red.jpg"}, p)
	assert.Equal(t, 1, requests)
}

func TestByIDCachesResults(t *testing.T) {
	var requests int
	c, _, _ := testRestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"product":{"id":9,"handle":"red-shoe","title":"Red Shoe"}}`))
	})

	_, err := c.ByID(context.Background(), "9")
	require.NoError(t, err)
	p, err := c.ByID(context.Background(), "9")
	require.NoError(t, err)

	assert.Equal(t, 1, requests, "second lookup must come from the cache")
	assert.Equal(t, "red-shoe", p.Handle)

	// The id lookup also primes the handle cache.
	p, err = c.ByHandle(context.Background(), "red-shoe")
	require.NoError(t, err)
	assert.Equal(t, "9", p.ID)
	assert.Equal(t, 1, requests)
}

func TestByIDNotFound(t *testing.T) {
	c, _, _ := testRestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.ByID(context.Background(), "404")
	var nf *errors.ErrNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestByIDFailuresAreNotCached(t *testing.T) {
	var requests int
	c, _, _ := testRestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			http.Error(w, "upstream busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"product":{"id":9,"handle":"red-shoe"}}`))
	})

	_, err := c.ByID(context.Background(), "9")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "503"))

	p, err := c.ByID(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, "red-shoe", p.Handle)
	assert.Equal(t, 2, requests)
}

func TestByHandleUsesGraphQL(t *testing.T) {
	gql := &stubGraphQL{data: `{"productByHandle":{"id":"gid://shopify/Product/9","handle":"red-shoe","title":"Red Shoe","featuredImage":{"url":"https://cdn/red.jpg"}}}`}
	c := &Client{gql: gql, cacheTTL: 5 * time.Minute}

	p, err := c.ByHandle(context.Background(), "red-shoe")
	require.NoError(t, err)
	assert.Equal(t, &Product{ID: "9", Handle: "red-shoe", Title: "Red Shoe", Image: "https://cdn/red.jpg"}, p)
	assert.Equal(t, 1, gql.calls)

	// Cached on the second call.
	_, err = c.ByHandle(context.Background(), "red-shoe")
	require.NoError(t, err)
	assert.Equal(t, 1, gql.calls)
}

func TestByHandleNullIsNotFound(t *testing.T) {
	gql := &stubGraphQL{data: `{"productByHandle":null}`}
	c := &Client{gql: gql, cacheTTL: 5 * time.Minute}

	_, err := c.ByHandle(context.Background(), "gone")
	var nf *errors.ErrNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestCacheExpires(t *testing.T) {
	var requests int
	c, _, _ := testRestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"product":{"id":9,"handle":"red-shoe"}}`))
	})
	c.cacheTTL = time.Nanosecond

	_, err := c.ByID(context.Background(), "9")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = c.ByID(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}
