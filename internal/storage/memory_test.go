package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/adiprasetya/hppcalc/internal/model"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore(DefaultHistoryCap)
	ctx := context.Background()

	records := createTestRecords(3)
	for i := range records {
		if err := store.SaveCalculation(ctx, &records[i]); err != nil {
			t.Fatalf("SaveCalculation(%d) failed: %v", i, err)
		}
	}

	got, err := store.GetCalculations(ctx, 0)
	if err != nil {
		t.Fatalf("GetCalculations failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if got[0].ID != "calc-003" {
		t.Errorf("newest first order broken, got %s", got[0].ID)
	}

	byID, err := store.GetCalculationByID(ctx, "calc-002")
	if err != nil {
		t.Fatalf("GetCalculationByID failed: %v", err)
	}
	if byID.Name != "Batch 2" {
		t.Errorf("name = %s, want Batch 2", byID.Name)
	}

	if err := store.DeleteCalculation(ctx, "calc-002"); err != nil {
		t.Fatalf("DeleteCalculation failed: %v", err)
	}
	if _, err := store.GetCalculationByID(ctx, "calc-002"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted record lookup error = %v, want ErrNotFound", err)
	}

	if err := store.ClearCalculations(ctx); err != nil {
		t.Fatalf("ClearCalculations failed: %v", err)
	}
	count, err := store.CountCalculations(ctx)
	if err != nil {
		t.Fatalf("CountCalculations failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count after clear = %d, want 0", count)
	}
}

func TestMemoryStore_TrimsToCap(t *testing.T) {
	store := NewMemoryStore(2)
	ctx := context.Background()

	records := createTestRecords(4)
	for i := range records {
		if err := store.SaveCalculation(ctx, &records[i]); err != nil {
			t.Fatalf("SaveCalculation(%d) failed: %v", i, err)
		}
	}

	got, err := store.GetCalculations(ctx, 0)
	if err != nil {
		t.Fatalf("GetCalculations failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want cap of 2", len(got))
	}
	if got[0].ID != "calc-004" || got[1].ID != "calc-003" {
		t.Errorf("kept [%s, %s], want the two newest", got[0].ID, got[1].ID)
	}
}

func TestMemoryStore_SaveReplacesByID(t *testing.T) {
	store := NewMemoryStore(DefaultHistoryCap)
	ctx := context.Background()

	record := createTestRecords(1)[0]
	if err := store.SaveCalculation(ctx, &record); err != nil {
		t.Fatalf("SaveCalculation failed: %v", err)
	}
	record.Name = "Renamed"
	if err := store.SaveCalculation(ctx, &record); err != nil {
		t.Fatalf("second SaveCalculation failed: %v", err)
	}

	count, err := store.CountCalculations(ctx)
	if err != nil {
		t.Fatalf("CountCalculations failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestMemoryStore_Preferences(t *testing.T) {
	store := NewMemoryStore(DefaultHistoryCap)
	ctx := context.Background()

	if _, err := store.GetPreferences(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPreferences on empty store error = %v, want ErrNotFound", err)
	}

	prefs := model.DefaultPreferences()
	prefs.Theme = "dark"
	if err := store.SavePreferences(ctx, &prefs); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	got, err := store.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if *got != prefs {
		t.Errorf("preferences round trip = %+v, want %+v", *got, prefs)
	}

	// The store holds a copy, not the caller's pointer.
	prefs.Theme = "light"
	got, err = store.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if got.Theme != "dark" {
		t.Error("store returned a shared preferences pointer")
	}
}
