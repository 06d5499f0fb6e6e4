package repo

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staffdesk/internal/domain"
)

type columnKind int

const (
	kindText columnKind = iota
	kindBool
)

// listingColumns whitelists the columns a ListingQuery may reference and
// maps request identifiers to real column names. Anything not listed is
// silently ignored, never interpolated into SQL.
var listingColumns = map[string]struct {
	name string
	kind columnKind
}{
	"id":           {name: "id", kind: kindText},
	"username":     {name: "username", kind: kindText},
	"email":        {name: "email", kind: kindText},
	"image":        {name: "image", kind: kindText},
	"isAdmin":      {name: "is_admin", kind: kindBool},
	"isActiveUser": {name: "is_active", kind: kindBool},
}

// applyListing turns the search text and filter clauses of q into WHERE
// conditions, all AND-combined on top of gorm's soft-delete base predicate.
// A single text term matches as a substring, a single boolean term exactly;
// a list means membership and becomes an IN group.
func applyListing(tx *gorm.DB, q domain.ListingQuery) *gorm.DB {
	if s := strings.TrimSpace(q.Search); s != "" {
		tx = tx.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	for _, f := range q.Filters {
		col, ok := listingColumns[f.Column]
		if !ok {
			continue
		}
		if f.Value.List {
			tx = applyMembership(tx, col.name, col.kind, f.Value.Terms)
			continue
		}
		switch col.kind {
		case kindBool:
			if b, ok := parseBool(f.Value.One()); ok {
				tx = tx.Where(col.name+" = ?", b)
			}
		default:
			v := strings.TrimSpace(f.Value.One())
			if v == "" {
				continue
			}
			tx = tx.Where("LOWER("+col.name+") LIKE ?", "%"+strings.ToLower(v)+"%")
		}
	}
	return tx
}

// applyMembership matches rows whose column equals any of the chosen
// terms. An empty selection is a cleared filter and matches everything.
func applyMembership(tx *gorm.DB, name string, kind columnKind, terms []string) *gorm.DB {
	if kind == kindBool {
		vals := make([]bool, 0, len(terms))
		for _, t := range terms {
			if b, ok := parseBool(t); ok {
				vals = append(vals, b)
			}
		}
		if len(vals) == 0 {
			return tx
		}
		return tx.Where(name+" IN ?", vals)
	}
	vals := make([]string, 0, len(terms))
	for _, t := range terms {
		if v := strings.TrimSpace(t); v != "" {
			vals = append(vals, strings.ToLower(v))
		}
	}
	if len(vals) == 0 {
		return tx
	}
	return tx.Where("LOWER("+name+") IN ?", vals)
}

// applySort appends ORDER BY terms in directive order; the first directive
// is the primary key, later ones break ties. No directives means newest
// first (id DESC).
func applySort(tx *gorm.DB, sort []domain.SortDirective) *gorm.DB {
	applied := false
	for _, s := range sort {
		col, ok := listingColumns[s.Column]
		if !ok {
			continue
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: col.name}, Desc: s.Desc})
		applied = true
	}
	if !applied {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true})
	}
	return tx
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}
