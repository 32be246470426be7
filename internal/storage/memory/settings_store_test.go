package memory

import (
	"context"
	"testing"

	"solana-swap-engine/internal/domain"
)

func TestSettingsStore_GetReturnsDefaults(t *testing.T) {
	store := NewSettingsStore()

	got, err := store.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	want := domain.DefaultSettings()
	if got != want {
		t.Errorf("Defaults mismatch: got %+v, want %+v", got, want)
	}
}

func TestSettingsStore_UpdateIsPureMerge(t *testing.T) {
	store := NewSettingsStore()
	ctx := context.Background()

	fee := 0.005
	updated, err := store.Update(ctx, 5, domain.SettingsPatch{PriorityFeeSOL: &fee})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.PriorityFeeSOL != 0.005 {
		t.Errorf("PriorityFeeSOL not updated: got %f", updated.PriorityFeeSOL)
	}
	// Unspecified fields retain defaults
	def := domain.DefaultSettings()
	if updated.SlippageBps != def.SlippageBps {
		t.Errorf("SlippageBps changed: got %d, want %d", updated.SlippageBps, def.SlippageBps)
	}
	if updated.MevProtection != def.MevProtection {
		t.Errorf("MevProtection changed: got %v", updated.MevProtection)
	}

	// Second partial update keeps the first one
	mev := false
	updated, err = store.Update(ctx, 5, domain.SettingsPatch{MevProtection: &mev})
	if err != nil {
		t.Fatalf("Second update failed: %v", err)
	}
	if updated.PriorityFeeSOL != 0.005 {
		t.Errorf("Prior update lost: got %f", updated.PriorityFeeSOL)
	}
	if updated.MevProtection {
		t.Error("MevProtection not updated")
	}
}

func TestSettingsStore_UpdatePersists(t *testing.T) {
	store := NewSettingsStore()
	ctx := context.Background()

	slip := 500
	if _, err := store.Update(ctx, 8, domain.SettingsPatch{SlippageBps: &slip}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.Get(ctx, 8)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.SlippageBps != 500 {
		t.Errorf("Update not persisted: got %d", got.SlippageBps)
	}
}
