package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/grafline/tracking/internal/orders/domain"
)

func TestParseStatus(t *testing.T) {
	t.Run("accepts every member of the closed set", func(t *testing.T) {
		for _, status := range domain.Statuses() {
			parsed, err := domain.ParseStatus(string(status))
			if err != nil {
				t.Errorf("ParseStatus(%q) returned error: %v", status, err)
			}
			if parsed != status {
				t.Errorf("ParseStatus(%q) = %q, want %q", status, parsed, status)
			}
		}
	})

	t.Run("rejects values outside the set", func(t *testing.T) {
		for _, value := range []string{"", "new", "DONE", "NEW ", "SHIPPED"} {
			if _, err := domain.ParseStatus(value); !errors.Is(err, domain.ErrUnknownStatus) {
				t.Errorf("ParseStatus(%q) = %v, want ErrUnknownStatus", value, err)
			}
		}
	})
}

func TestOrderValidate(t *testing.T) {
	t.Run("valid order passes", func(t *testing.T) {
		details := "two-sided print"
		order := domain.Order{
			ID:        1,
			Title:     "Business cards",
			Details:   &details,
			Status:    domain.StatusNew,
			CreatedAt: time.Now().UTC(),
		}

		if err := order.Validate(); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
	})

	t.Run("nil details are allowed", func(t *testing.T) {
		order := domain.Order{Title: "Flyers", Status: domain.StatusNew}
		if err := order.Validate(); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
	})

	t.Run("blank title fails", func(t *testing.T) {
		order := domain.Order{Title: "   ", Status: domain.StatusNew}
		if err := order.Validate(); !errors.Is(err, domain.ErrEmptyTitle) {
			t.Errorf("expected ErrEmptyTitle, got: %v", err)
		}
	})

	t.Run("unrecognized status fails", func(t *testing.T) {
		order := domain.Order{Title: "Flyers", Status: domain.Status("ARCHIVED")}
		if err := order.Validate(); !errors.Is(err, domain.ErrUnknownStatus) {
			t.Errorf("expected ErrUnknownStatus, got: %v", err)
		}
	})
}
