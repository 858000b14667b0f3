package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"troffee-auctioneer/internal/domain/shared"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Fatal("expected unique violation to be detected")
	}
	if !isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})) {
		t.Fatal("expected wrapped unique violation to be detected")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatal("foreign key violation must not match")
	}
	if isUniqueViolation(errors.New("connection refused")) {
		t.Fatal("plain error must not match")
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Fatal("nil must stay nil")
	}

	if err := classify(context.Canceled); !errors.Is(err, context.Canceled) || shared.IsTransient(err) {
		t.Fatalf("cancellation must pass through untouched, got %v", err)
	}
	if err := classify(context.DeadlineExceeded); !errors.Is(err, context.DeadlineExceeded) || shared.IsTransient(err) {
		t.Fatalf("deadline must pass through untouched, got %v", err)
	}

	driverErr := errors.New("connection reset by peer")
	err := classify(driverErr)
	if !shared.IsTransient(err) {
		t.Fatalf("driver error must classify as transient, got %v", err)
	}
	if !errors.Is(err, driverErr) {
		t.Fatal("transient wrapper must preserve the cause")
	}
}
