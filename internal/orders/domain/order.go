package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the production stage an order currently occupies. The set is
// closed: the board groups orders into columns by these exact values, so
// stored values must never drift outside it.
type Status string

const (
	StatusNew              Status = "NEW"
	StatusInProgress       Status = "IN_PROGRESS"
	StatusNeedsAttention   Status = "NEEDS_ATTENTION"
	StatusReadyForDelivery Status = "READY_FOR_DELIVERY"
	StatusInvoiced         Status = "INVOICED"
)

var (
	// ErrEmptyTitle is returned when an order title is empty after trimming.
	ErrEmptyTitle = errors.New("title is required")
	// ErrUnknownStatus is returned for status values outside the closed set.
	ErrUnknownStatus = errors.New("unknown order status")
)

// Statuses lists every recognized status in pipeline order.
func Statuses() []Status {
	return []Status{
		StatusNew,
		StatusInProgress,
		StatusNeedsAttention,
		StatusReadyForDelivery,
		StatusInvoiced,
	}
}

// ParseStatus checks membership in the closed status set.
func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusNew, StatusInProgress, StatusNeedsAttention, StatusReadyForDelivery, StatusInvoiced:
		return Status(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	}
}

// Order represents a work item moving through the production pipeline.
// ID and CreatedAt are assigned by the store on insert and are immutable;
// Title and Details are write-once. Only Status changes after creation.
type Order struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Details   *string   `json:"details"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate ensures the order adheres to business constraints.
func (o Order) Validate() error {
	if strings.TrimSpace(o.Title) == "" {
		return ErrEmptyTitle
	}
	if _, err := ParseStatus(string(o.Status)); err != nil {
		return err
	}
	return nil
}
