package datatable

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func listingServer(t *testing.T, capture *http.Request) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*capture = *r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"msg":"OK","data":{"data":[1,2],"total":2,"page":1,"lastPage":1}}`))
	}))
}

func TestFetchEncodesSingleAndMultiFilters(t *testing.T) {
	var captured http.Request
	srv := listingServer(t, &captured)
	defer srv.Close()

	c := NewListingClient[int](srv.URL, "/api/v1/users", func() string { return "tok" })
	res, err := c.Fetch(context.Background(), Request{
		Page:     2,
		PageSize: 5,
		Search:   "adm",
		Filters: []Filter{
			{Key: "username", Values: []string{"bob"}},
			{Key: "isActiveUser", Values: []string{"true", "false"}},
		},
		Sort: []SortEntry{{Key: "id", Desc: true}},
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, res.Rows)

	q := captured.URL.Query()
	require.Equal(t, "2", q.Get("page"))
	require.Equal(t, "5", q.Get("limit"))
	require.Equal(t, "adm", q.Get("search"))
	// Single values stay strings, selections become arrays.
	require.JSONEq(t,
		`[{"id":"username","value":"bob"},{"id":"isActiveUser","value":["true","false"]}]`,
		q.Get("filters"))
	require.JSONEq(t, `[{"id":"id","desc":true}]`, q.Get("sort"))
	require.Equal(t, "Bearer tok", captured.Header.Get("Authorization"))
}

func TestFetchSurfacesEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":401,"msg":"missing token","data":{}}`))
	}))
	defer srv.Close()

	c := NewListingClient[int](srv.URL, "/api/v1/users", nil)
	_, err := c.Fetch(context.Background(), Request{Page: 1, PageSize: 10})
	require.ErrorContains(t, err, "missing token")
}
