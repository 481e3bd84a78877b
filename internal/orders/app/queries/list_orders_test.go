package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/grafline/tracking/internal/orders/adapters/memory"
	"github.com/grafline/tracking/internal/orders/app/queries"
	"github.com/grafline/tracking/internal/orders/domain"
)

func seedOrders(t *testing.T, repo *memory.Repository) {
	t.Helper()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		{Title: "First in", Status: domain.StatusNew, CreatedAt: base},
		{Title: "Second in", Status: domain.StatusInvoiced, CreatedAt: base.Add(time.Minute)},
		{Title: "Third in", Status: domain.StatusNew, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, o := range orders {
		if _, err := repo.Insert(context.Background(), o); err != nil {
			t.Fatalf("seed insert: %v", err)
		}
	}
}

func TestListOrders(t *testing.T) {
	t.Run("orders come back newest first", func(t *testing.T) {
		repo := memory.NewRepository()
		seedOrders(t, repo)

		handler := queries.NewListOrdersQueryHandler(repo)

		orders, err := handler.Handle(context.Background(), queries.ListOrdersQuery{})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		wantTitles := []string{"Third in", "Second in", "First in"}
		if len(orders) != len(wantTitles) {
			t.Fatalf("expected %d orders, got %d", len(wantTitles), len(orders))
		}
		for i, want := range wantTitles {
			if orders[i].Title != want {
				t.Errorf("orders[%d].Title = %q, want %q", i, orders[i].Title, want)
			}
		}
	})

	t.Run("equal timestamps break ties by newest id", func(t *testing.T) {
		repo := memory.NewRepository()
		at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		for _, title := range []string{"a", "b", "c"} {
			if _, err := repo.Insert(context.Background(), domain.Order{
				Title:     title,
				Status:    domain.StatusNew,
				CreatedAt: at,
			}); err != nil {
				t.Fatalf("seed insert: %v", err)
			}
		}

		handler := queries.NewListOrdersQueryHandler(repo)

		orders, err := handler.Handle(context.Background(), queries.ListOrdersQuery{})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		for i := 1; i < len(orders); i++ {
			if orders[i-1].ID < orders[i].ID {
				t.Errorf("expected descending IDs, got %d before %d", orders[i-1].ID, orders[i].ID)
			}
		}
	})

	t.Run("status filter narrows the result", func(t *testing.T) {
		repo := memory.NewRepository()
		seedOrders(t, repo)

		handler := queries.NewListOrdersQueryHandler(repo)

		status := domain.StatusInvoiced
		orders, err := handler.Handle(context.Background(), queries.ListOrdersQuery{Status: &status})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if len(orders) != 1 || orders[0].Title != "Second in" {
			t.Fatalf("got %+v, want only the INVOICED order", orders)
		}
	})

	t.Run("empty store returns no orders", func(t *testing.T) {
		handler := queries.NewListOrdersQueryHandler(memory.NewRepository())

		orders, err := handler.Handle(context.Background(), queries.ListOrdersQuery{})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if len(orders) != 0 {
			t.Errorf("expected no orders, got %d", len(orders))
		}
	})
}
