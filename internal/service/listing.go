package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"staffdesk/internal/domain"
)

// ValidationError marks malformed request shape (unparseable filters/sort,
// non-numeric page/limit). Handlers surface it as a client error.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UserView is the redacted row shape every listing and lookup returns. The
// password digest has no field here at all.
type UserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Image    string `json:"image"`
	IsAdmin  bool   `json:"isAdmin"`
	IsActive bool   `json:"isActiveUser"`
}

func viewOf(u domain.User) UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Image:    u.Image,
		IsAdmin:  u.IsAdmin,
		IsActive: u.IsActive,
	}
}

// ListResult is the paginated response envelope.
type ListResult struct {
	Data     []UserView `json:"data"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	LastPage int        `json:"lastPage"`
}

// ListingParams is the raw, possibly partially absent query input as it
// arrives over the wire. Filters and Sort are JSON-serialized arrays in the
// shape the table client produces: [{"id":"username","value":"adm"}] and
// [{"id":"id","desc":true}].
type ListingParams struct {
	Page    string `form:"page"`
	Limit   string `form:"limit"`
	Search  string `form:"search"`
	Filters string `form:"filters"`
	Sort    string `form:"sort"`
}

// ParseListing validates and defaults the raw input. Absent page and limit
// select the unpaginated "return everything" mode.
func ParseListing(p ListingParams) (domain.ListingQuery, error) {
	q := domain.ListingQuery{Search: p.Search}

	hasPage := strings.TrimSpace(p.Page) != ""
	hasLimit := strings.TrimSpace(p.Limit) != ""
	q.Paginate = hasPage || hasLimit

	if hasPage {
		n, err := strconv.Atoi(strings.TrimSpace(p.Page))
		if err != nil {
			return q, validationf("page must be a number, got %q", p.Page)
		}
		q.Page = n
	}
	if hasLimit {
		n, err := strconv.Atoi(strings.TrimSpace(p.Limit))
		if err != nil {
			return q, validationf("limit must be a number, got %q", p.Limit)
		}
		q.PageSize = n
	}
	if q.Paginate {
		q.Normalize()
	}

	if s := strings.TrimSpace(p.Filters); s != "" {
		if err := json.Unmarshal([]byte(s), &q.Filters); err != nil {
			return q, validationf("filters is not a valid JSON list of {id,value}: %v", err)
		}
	}
	if s := strings.TrimSpace(p.Sort); s != "" {
		if err := json.Unmarshal([]byte(s), &q.Sort); err != nil {
			return q, validationf("sort is not a valid JSON list of {id,desc}: %v", err)
		}
	}
	return q, nil
}

func lastPage(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	lp := int((total + int64(pageSize) - 1) / int64(pageSize))
	if lp < 1 {
		lp = 1
	}
	return lp
}
