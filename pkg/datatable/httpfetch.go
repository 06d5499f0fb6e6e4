package datatable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ListingClient fetches pages from the REST listing endpoint, serializing
// filters and sort the way the server's listing service parses them.
type ListingClient[T any] struct {
	BaseURL string
	Path    string
	HTTP    *http.Client
	// Token supplies the bearer token per request; nil means no auth
	// header.
	Token func() string
}

func NewListingClient[T any](baseURL, path string, token func() string) *ListingClient[T] {
	return &ListingClient[T]{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Path:    path,
		HTTP:    http.DefaultClient,
		Token:   token,
	}
}

// wireClause carries one filter on the wire: a single value as a JSON
// string, a multi-select as a JSON array so the server applies membership.
type wireClause struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

type wireSort struct {
	ID   string `json:"id"`
	Desc bool   `json:"desc"`
}

// envelope mirrors the server's {code,msg,data} response shape.
type envelope[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Data     []T   `json:"data"`
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		LastPage int   `json:"lastPage"`
	} `json:"data"`
}

func (c *ListingClient[T]) Fetch(ctx context.Context, req Request) (Result[T], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("limit", strconv.Itoa(req.PageSize))
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	if len(req.Filters) > 0 {
		clauses := make([]wireClause, 0, len(req.Filters))
		for _, f := range req.Filters {
			if len(f.Values) == 1 {
				clauses = append(clauses, wireClause{ID: f.Key, Value: f.Values[0]})
			} else {
				clauses = append(clauses, wireClause{ID: f.Key, Value: f.Values})
			}
		}
		b, err := json.Marshal(clauses)
		if err != nil {
			return Result[T]{}, err
		}
		q.Set("filters", string(b))
	}
	if len(req.Sort) > 0 {
		entries := make([]wireSort, 0, len(req.Sort))
		for _, s := range req.Sort {
			entries = append(entries, wireSort{ID: s.Key, Desc: s.Desc})
		}
		b, err := json.Marshal(entries)
		if err != nil {
			return Result[T]{}, err
		}
		q.Set("sort", string(b))
	}

	u := c.BaseURL + c.Path + "?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result[T]{}, err
	}
	if c.Token != nil {
		if tok := c.Token(); tok != "" {
			httpReq.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	httpRes, err := c.HTTP.Do(httpReq)
	if err != nil {
		return Result[T]{}, err
	}
	defer httpRes.Body.Close()

	var env envelope[T]
	if err := json.NewDecoder(httpRes.Body).Decode(&env); err != nil {
		return Result[T]{}, err
	}
	if env.Code != 0 {
		return Result[T]{}, fmt.Errorf("listing request rejected: %s", env.Msg)
	}
	return Result[T]{
		Rows:     env.Data.Data,
		Total:    env.Data.Total,
		Page:     env.Data.Page,
		LastPage: env.Data.LastPage,
	}, nil
}
