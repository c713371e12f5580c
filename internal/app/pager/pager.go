// Package pager provides sequential cursor-based pagination.
package pager

import (
	"context"
	"iter"

	"github.com/cockroachdb/errors"
)

// Page is one page of results.
type Page[T any] struct {
	Items []T
	Next  string // Cursor of the following page, empty on the last page
}

// FetchFunc fetches the page at cursor. The first page is requested with an empty cursor.
type FetchFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// All returns the items of every page in server order.
// Pages are fetched lazily, one at a time, until a page has no Next cursor.
// A fetch error is yielded once and ends the sequence.
func All[T any](ctx context.Context, fetch FetchFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		cursor := ""
		for page := 0; ; page++ {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}

			p, err := fetch(ctx, cursor)
			if err != nil {
				yield(zero, errors.Wrapf(err, "failed to fetch page %d", page+1))
				return
			}

			for _, item := range p.Items {
				if !yield(item, nil) {
					return
				}
			}

			if p.Next == "" {
				return
			}
			cursor = p.Next
		}
	}
}

// Collect fetches every page and returns all items.
func Collect[T any](ctx context.Context, fetch FetchFunc[T]) ([]T, error) {
	items := make([]T, 0)
	for item, err := range All(ctx, fetch) {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
