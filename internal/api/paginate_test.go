package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCollectPages_WalksUntilEmptyCursor(t *testing.T) {
	pages := map[string]Page[int]{
		"":   {Items: []int{1, 2}, Cursor: "p2"},
		"p2": {Items: []int{3}, Cursor: "p3"},
		"p3": {Items: []int{4}, Cursor: ""},
	}

	items, truncated, err := CollectPages(context.Background(), 0, func(_ context.Context, cursor string) (Page[int], error) {
		return pages[cursor], nil
	})
	if err != nil {
		t.Fatalf("CollectPages failed: %v", err)
	}
	if truncated {
		t.Error("truncated = true, want false")
	}
	if len(items) != 4 {
		t.Fatalf("len(items) = %d, want 4", len(items))
	}
	for i, want := range []int{1, 2, 3, 4} {
		if items[i] != want {
			t.Errorf("items[%d] = %d, want %d", i, items[i], want)
		}
	}
}

func TestCollectPages_StopsOnEmptyPage(t *testing.T) {
	calls := 0
	items, truncated, err := CollectPages(context.Background(), 0, func(_ context.Context, cursor string) (Page[int], error) {
		calls++
		if cursor == "" {
			// Cursor present but no items; must not loop.
			return Page[int]{Items: nil, Cursor: "next"}, nil
		}
		t.Fatal("fetched past an empty page")
		return Page[int]{}, nil
	})
	if err != nil {
		t.Fatalf("CollectPages failed: %v", err)
	}
	if truncated {
		t.Error("truncated = true, want false")
	}
	if len(items) != 0 || calls != 1 {
		t.Errorf("items = %v, calls = %d; want empty after one call", items, calls)
	}
}

func TestCollectPages_TruncatesAtPageCap(t *testing.T) {
	items, truncated, err := CollectPages(context.Background(), 3, func(_ context.Context, cursor string) (Page[int], error) {
		return Page[int]{Items: []int{1}, Cursor: "more"}, nil
	})
	if err != nil {
		t.Fatalf("CollectPages failed: %v", err)
	}
	if !truncated {
		t.Error("truncated = false, want true")
	}
	if len(items) != 3 {
		t.Errorf("len(items) = %d, want 3", len(items))
	}
}

func TestCollectPages_DefaultCap(t *testing.T) {
	calls := 0
	_, truncated, err := CollectPages(context.Background(), 0, func(_ context.Context, cursor string) (Page[int], error) {
		calls++
		return Page[int]{Items: []int{calls}, Cursor: fmt.Sprintf("p%d", calls)}, nil
	})
	if err != nil {
		t.Fatalf("CollectPages failed: %v", err)
	}
	if !truncated {
		t.Error("truncated = false, want true")
	}
	if calls != DefaultMaxPages {
		t.Errorf("calls = %d, want %d", calls, DefaultMaxPages)
	}
}

func TestCollectPages_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := CollectPages(context.Background(), 0, func(_ context.Context, cursor string) (Page[int], error) {
		if cursor == "p2" {
			return Page[int]{}, boom
		}
		return Page[int]{Items: []int{1}, Cursor: "p2"}, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}
}
