package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"financas/internal/core"
	"financas/internal/store/memory"
)

func TestProfileService(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(memory.New())
	claims := core.Profile{UID: "u1", Name: "Ana", Email: "ana@example.com", Picture: "https://example.com/a.png"}
	ignoreTimes := cmpopts.IgnoreFields(core.Profile{}, "CreatedAt", "UpdatedAt")

	got, err := svc.Get(ctx, claims)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(claims, got, ignoreTimes); diff != "" {
		t.Errorf("unsaved profile should equal the claims (-want +got):\n%s", diff)
	}

	got, err = svc.Update(ctx, claims, "  Ana <b>Souza</b> ", "")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := core.Profile{UID: "u1", Name: "Ana Souza", Email: "ana@example.com", Picture: "https://example.com/a.png"}
	if diff := cmp.Diff(want, got, ignoreTimes); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.Update(ctx, claims, "   ", ""); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := svc.Get(ctx, core.Profile{}); !errors.Is(err, core.ErrNoOwner) {
		t.Fatalf("expected ErrNoOwner, got %v", err)
	}
}
