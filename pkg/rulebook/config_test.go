package rulebook

import "testing"

func TestUpdateStationRejectsUnknownKey(t *testing.T) {
	cfg := NewProgramConfiguration()
	before := cfg.Snapshot()

	d := 10
	err := cfg.UpdateStation("does_not_exist", StationPatch{DurationMonths: &d})
	if err == nil {
		t.Fatalf("expected error for unknown station key")
	}
	if cfg.Snapshot() != before {
		t.Fatalf("failed update must not replace the snapshot")
	}
}

func TestUpdateStationAppliesToBothCatalogs(t *testing.T) {
	cfg := NewProgramConfiguration()
	maxInterns := 6
	if err := cfg.UpdateStation(KeyDeliveryRoom, StationPatch{MaxInterns: &maxInterns}); err != nil {
		t.Fatalf("UpdateStation: %v", err)
	}
	book := cfg.Snapshot()
	if book.CatalogA[KeyDeliveryRoom].MaxInterns != 6 {
		t.Errorf("Model A delivery_room max_interns = %d, want 6", book.CatalogA[KeyDeliveryRoom].MaxInterns)
	}
	if book.CatalogB[KeyDeliveryRoom].MaxInterns != 6 {
		t.Errorf("Model B delivery_room max_interns = %d, want 6", book.CatalogB[KeyDeliveryRoom].MaxInterns)
	}
}

func TestUpdateStationsBatchAccumulatesErrors(t *testing.T) {
	cfg := NewProgramConfiguration()
	before := cfg.Snapshot()

	badMax := 1
	err := cfg.UpdateStations(map[string]StationPatch{
		"unknown_one":     {MaxInterns: &badMax},
		"unknown_two":     {MaxInterns: &badMax},
		KeyDeliveryRoom:   {MaxInterns: &badMax}, // would also fail: min(3) > max(1)
	})
	if err == nil {
		t.Fatalf("expected accumulated error for batch with unknown keys")
	}
	if cfg.Snapshot() != before {
		t.Fatalf("a failing batch must not mutate the configuration at all")
	}
}

func TestUpdateStationPreservesPriorSnapshot(t *testing.T) {
	cfg := NewProgramConfiguration()
	original := cfg.Snapshot()

	min := 1
	if err := cfg.UpdateStation(KeyIVF, StationPatch{MinInterns: &min}); err != nil {
		t.Fatalf("UpdateStation: %v", err)
	}

	if original.CatalogA[KeyIVF].MinInterns != 2 {
		t.Errorf("original snapshot mutated in place: got %d, want 2", original.CatalogA[KeyIVF].MinInterns)
	}
}

func TestLoadOverride(t *testing.T) {
	cfg := NewProgramConfiguration()
	yamlDoc := []byte(`
stations:
  delivery_room:
    max_interns: 5
global:
  stage_a_min_months: 30
  stage_a_max_months: 60
`)
	if err := cfg.LoadOverride(yamlDoc); err != nil {
		t.Fatalf("LoadOverride: %v", err)
	}
	book := cfg.Snapshot()
	if book.CatalogA[KeyDeliveryRoom].MaxInterns != 5 {
		t.Errorf("delivery_room max_interns = %d, want 5", book.CatalogA[KeyDeliveryRoom].MaxInterns)
	}
	if book.StageAMinElapsed != 30 || book.StageAMaxElapsed != 60 {
		t.Errorf("stage A window = [%d,%d], want [30,60]", book.StageAMinElapsed, book.StageAMaxElapsed)
	}
}

func TestResetToDefaults(t *testing.T) {
	cfg := NewProgramConfiguration()
	max := 99
	if err := cfg.UpdateStation(KeyIVF, StationPatch{MaxInterns: &max}); err != nil {
		t.Fatalf("UpdateStation: %v", err)
	}
	cfg.ResetToDefaults()
	if cfg.Snapshot().CatalogA[KeyIVF].MaxInterns != 4 {
		t.Errorf("after reset, ivf max_interns = %d, want 4", cfg.Snapshot().CatalogA[KeyIVF].MaxInterns)
	}
}
