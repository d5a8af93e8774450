package usecase

import (
	"testing"

	"github.com/bharatpricing/backend/internal/domain"
)

func TestDeduplicate(t *testing.T) {
	t.Run("same title source and price collapse", func(t *testing.T) {
		offers := []domain.Offer{
			{Title: "Michael Kors Darci MK3190 Rose Gold Watch", Source: "Amazon.in", Price: 12995, URL: "https://a/1"},
			{Title: "Michael  Kors DARCI MK3190 rose gold watch", Source: "amazon.in", Price: 12995, URL: "https://a/2"},
		}
		out := Deduplicate(offers)

		if len(out) != 1 {
			t.Fatalf("len = %d, want 1", len(out))
		}
		if out[0].URL != "https://a/1" {
			t.Errorf("kept %q, want first occurrence", out[0].URL)
		}
	})

	t.Run("different price survives", func(t *testing.T) {
		offers := []domain.Offer{
			{Title: "Fossil Grant FS4735", Source: "Amazon.in", Price: 10495},
			{Title: "Fossil Grant FS4735", Source: "Amazon.in", Price: 9995},
		}
		if out := Deduplicate(offers); len(out) != 2 {
			t.Errorf("len = %d, want 2", len(out))
		}
	})

	t.Run("different source survives", func(t *testing.T) {
		offers := []domain.Offer{
			{Title: "Fossil Grant FS4735", Source: "Amazon.in", Price: 10495},
			{Title: "Fossil Grant FS4735", Source: "Flipkart", Price: 10495},
		}
		if out := Deduplicate(offers); len(out) != 2 {
			t.Errorf("len = %d, want 2", len(out))
		}
	})

	t.Run("long titles compared by head only", func(t *testing.T) {
		offers := []domain.Offer{
			{Title: "Michael Kors Darci Pave Rose Gold-Tone Stainless (Pack of 1)", Source: "Myntra", Price: 12995},
			{Title: "Michael Kors Darci Pave Rose Gold-Tone Stainless Steel Strap", Source: "Myntra", Price: 12995},
		}
		if out := Deduplicate(offers); len(out) != 1 {
			t.Errorf("len = %d, want 1 (trailing noise ignored)", len(out))
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		offers := []domain.Offer{
			{Title: "a", Source: "s", Price: 1},
			{Title: "a", Source: "s", Price: 1},
			{Title: "b", Source: "s", Price: 2},
		}
		once := Deduplicate(offers)
		twice := Deduplicate(append([]domain.Offer(nil), once...))

		if len(once) != len(twice) {
			t.Errorf("once = %d, twice = %d", len(once), len(twice))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if out := Deduplicate(nil); len(out) != 0 {
			t.Errorf("len = %d, want 0", len(out))
		}
	})
}
