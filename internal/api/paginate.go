package api

import "context"

// DefaultMaxPages caps cursor pagination. A full-size ledger fits well under
// this; hitting the cap means truncated results, not an error.
const DefaultMaxPages = 50

// Page is one page of a cursor-paginated listing.
type Page[T any] struct {
	Items  []T
	Cursor string
}

// PageFunc fetches one page for the given cursor ("" for the first page).
type PageFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// CollectPages walks a cursor-paginated endpoint and accumulates all items.
// It stops on an empty page, an empty next cursor, or after maxPages pages
// (0 means DefaultMaxPages). The returned bool is true when the page cap was
// hit with a cursor still outstanding, i.e. the result is truncated.
func CollectPages[T any](ctx context.Context, maxPages int, fetch PageFunc[T]) ([]T, bool, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var items []T
	cursor := ""

	for page := 0; page < maxPages; page++ {
		p, err := fetch(ctx, cursor)
		if err != nil {
			return nil, false, err
		}

		items = append(items, p.Items...)

		if len(p.Items) == 0 || p.Cursor == "" {
			return items, false, nil
		}
		cursor = p.Cursor
	}

	return items, true, nil
}
