package bid

import (
	"testing"

	"github.com/google/uuid"
)

func TestIsFrom(t *testing.T) {
	b := New(uuid.New(), "Bidder@Example.com", 150)

	if !b.IsFrom("bidder@example.com") {
		t.Fatal("email comparison must ignore case")
	}
	if b.IsFrom("other@example.com") {
		t.Fatal("different bidder must not match")
	}
}
