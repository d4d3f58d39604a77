// Package search models the filter sets and the execution interface the
// cache layer warms. Search execution itself (ranking, querying the
// relational store) lives in the host application; this package only needs
// it to be deterministic for identical filters and callable from both the
// request path and a background task.
package search

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	OpRent = "rent"
	OpSale = "sale"

	SortPublishedAt = "published_at"
	SortPrice       = "price"
	SortCreatedAt   = "created_at"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	maxLimit = 100
)

// ValidationError reports a malformed filter field. Task handlers return it
// as a structured job failure instead of crashing the worker.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid filter %q: %s", e.Field, e.Msg)
}

// Filters is a validated search filter set. The zero value is not valid;
// construct through ParseFilters or fill the fields and call Validate.
type Filters struct {
	Operation string `json:"operation,omitempty"` // "", "rent" or "sale"
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
	City      string `json:"city,omitempty"`
	MinPrice  int64  `json:"min_price,omitempty"`
	MaxPrice  int64  `json:"max_price,omitempty"`
}

// ParseFilters builds Filters from a raw keyword-argument mapping, the form
// task payloads arrive in. Missing paging/sort fields get defaults; anything
// present must validate.
func ParseFilters(kwargs map[string]any) (Filters, error) {
	f := Filters{
		Page:      1,
		Limit:     20,
		SortBy:    SortPublishedAt,
		SortOrder: OrderDesc,
	}
	var err error
	if f.Operation, err = stringArg(kwargs, "operation", f.Operation); err != nil {
		return Filters{}, err
	}
	if f.Page, err = intArg(kwargs, "page", f.Page); err != nil {
		return Filters{}, err
	}
	if f.Limit, err = intArg(kwargs, "limit", f.Limit); err != nil {
		return Filters{}, err
	}
	if f.SortBy, err = stringArg(kwargs, "sort_by", f.SortBy); err != nil {
		return Filters{}, err
	}
	if f.SortOrder, err = stringArg(kwargs, "sort_order", f.SortOrder); err != nil {
		return Filters{}, err
	}
	if f.City, err = stringArg(kwargs, "city", f.City); err != nil {
		return Filters{}, err
	}
	if mn, e := intArg(kwargs, "min_price", 0); e != nil {
		return Filters{}, e
	} else {
		f.MinPrice = int64(mn)
	}
	if mx, e := intArg(kwargs, "max_price", 0); e != nil {
		return Filters{}, e
	} else {
		f.MaxPrice = int64(mx)
	}
	if err := f.Validate(); err != nil {
		return Filters{}, err
	}
	return f, nil
}

// Validate checks every field against its domain.
func (f Filters) Validate() error {
	switch f.Operation {
	case "", OpRent, OpSale:
	default:
		return &ValidationError{Field: "operation", Msg: "must be \"rent\" or \"sale\""}
	}
	if f.Page < 1 {
		return &ValidationError{Field: "page", Msg: "must be >= 1"}
	}
	if f.Limit < 1 || f.Limit > maxLimit {
		return &ValidationError{Field: "limit", Msg: fmt.Sprintf("must be in [1,%d]", maxLimit)}
	}
	switch f.SortBy {
	case SortPublishedAt, SortPrice, SortCreatedAt:
	default:
		return &ValidationError{Field: "sort_by", Msg: "unknown sort field"}
	}
	switch f.SortOrder {
	case OrderAsc, OrderDesc:
	default:
		return &ValidationError{Field: "sort_order", Msg: "must be \"asc\" or \"desc\""}
	}
	if f.MinPrice < 0 || f.MaxPrice < 0 {
		return &ValidationError{Field: "min_price", Msg: "prices must be >= 0"}
	}
	if f.MinPrice > 0 && f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return &ValidationError{Field: "min_price", Msg: "must not exceed max_price"}
	}
	return nil
}

// Canonical serializes the filter set with fixed field ordering, so
// equivalent filters always map to the same cache key. Optional fields are
// omitted when empty. Free-text values are escaped; distinct filter sets
// must never collide on one key.
func (f Filters) Canonical() string {
	var b strings.Builder
	if f.Operation != "" {
		b.WriteString("operation=")
		b.WriteString(f.Operation)
		b.WriteByte('&')
	}
	b.WriteString("page=")
	b.WriteString(strconv.Itoa(f.Page))
	b.WriteString("&limit=")
	b.WriteString(strconv.Itoa(f.Limit))
	b.WriteString("&sort_by=")
	b.WriteString(f.SortBy)
	b.WriteString("&sort_order=")
	b.WriteString(f.SortOrder)
	if f.City != "" {
		b.WriteString("&city=")
		b.WriteString(url.QueryEscape(f.City))
	}
	if f.MinPrice > 0 {
		b.WriteString("&min_price=")
		b.WriteString(strconv.FormatInt(f.MinPrice, 10))
	}
	if f.MaxPrice > 0 {
		b.WriteString("&max_price=")
		b.WriteString(strconv.FormatInt(f.MaxPrice, 10))
	}
	return b.String()
}

// Kwargs renders the filter set back into a task payload mapping.
func (f Filters) Kwargs() map[string]any {
	m := map[string]any{
		"page":       f.Page,
		"limit":      f.Limit,
		"sort_by":    f.SortBy,
		"sort_order": f.SortOrder,
	}
	if f.Operation != "" {
		m["operation"] = f.Operation
	}
	if f.City != "" {
		m["city"] = f.City
	}
	if f.MinPrice > 0 {
		m["min_price"] = f.MinPrice
	}
	if f.MaxPrice > 0 {
		m["max_price"] = f.MaxPrice
	}
	return m
}

func stringArg(kwargs map[string]any, key, def string) (string, error) {
	v, ok := kwargs[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ValidationError{Field: key, Msg: fmt.Sprintf("expected string, got %T", v)}
	}
	return s, nil
}

// intArg tolerates the numeric shapes a JSON round-trip produces.
func intArg(kwargs map[string]any, key string, def int) (int, error) {
	v, ok := kwargs[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, &ValidationError{Field: key, Msg: "expected integer"}
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, &ValidationError{Field: key, Msg: "expected integer"}
		}
		return int(i), nil
	default:
		return 0, &ValidationError{Field: key, Msg: fmt.Sprintf("expected integer, got %T", v)}
	}
}
