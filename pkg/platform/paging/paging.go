// Package paging holds the page clamp rules and the list response wrapper
// shared by the customer and kyc listings.
package paging

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Request is a clamped page window.
type Request struct {
	Page     int
	PageSize int
}

// Clamp normalizes raw paging input: page < 1 becomes 1, pageSize < 1 becomes
// DefaultPageSize and pageSize > MaxPageSize becomes MaxPageSize.
func Clamp(page, pageSize int) Request {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Request{Page: page, PageSize: pageSize}
}

// Offset is the number of rows to skip. It saturates at math.MaxInt so a huge
// page reads as past the end instead of wrapping negative.
func (r Request) Offset() int {
	if r.PageSize > 0 && r.Page-1 > math.MaxInt/r.PageSize {
		return math.MaxInt
	}
	return (r.Page - 1) * r.PageSize
}

// Limit is the maximum number of rows to return.
func (r Request) Limit() int {
	return r.PageSize
}

// Result is a read-only page projection built per request.
type Result[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
}

// NewResult wraps items for the given window. A nil slice is normalized so the
// JSON encoding is always an array.
func NewResult[T any](items []T, req Request, total int) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items, Page: req.Page, PageSize: req.PageSize, TotalItems: total}
}

// Map converts the items of a page, keeping the window and total.
func Map[T, U any](in Result[T], fn func(T) U) Result[U] {
	out := make([]U, 0, len(in.Items))
	for _, item := range in.Items {
		out = append(out, fn(item))
	}
	return Result[U]{Items: out, Page: in.Page, PageSize: in.PageSize, TotalItems: in.TotalItems}
}
