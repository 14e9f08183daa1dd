package rulebook

import "testing"

func TestDefaultRulebookValidates(t *testing.T) {
	book := defaultRulebook()
	if err := book.Validate(); err != nil {
		t.Fatalf("default rulebook failed validation: %v", err)
	}
}

func TestModelBDropsBasicSciences(t *testing.T) {
	book := defaultRulebook()
	if _, ok := book.CatalogB[KeyBasicSciences]; ok {
		t.Fatalf("Model B catalog must not contain %q", KeyBasicSciences)
	}
	if _, ok := book.CatalogA[KeyBasicSciences]; !ok {
		t.Fatalf("Model A catalog must contain %q", KeyBasicSciences)
	}
}

func TestPrecedencePairsForModelB(t *testing.T) {
	book := defaultRulebook()
	pairs := book.PrecedencePairsFor(ModelB)
	for _, p := range pairs {
		if p.Before == KeyBasicSciences {
			t.Fatalf("Model B precedence pairs must not reference %q", KeyBasicSciences)
		}
	}
	if len(pairs) != 2 {
		t.Fatalf("Model B should retain 2 precedence pairs (rotation_a->stage_a, rotation_b->stage_b), got %d", len(pairs))
	}
}

func TestStationKindClassification(t *testing.T) {
	book := defaultRulebook()

	cases := []struct {
		key  string
		want Kind
	}{
		{KeyDeliveryRoom, KindSplittable},
		{KeyOrientation, KindFixed},
		{KeyMaternityLeave, KindElastic},
		{StageAKey, KindStage},
		{StageBKey, KindStage},
	}
	for _, c := range cases {
		s, ok := book.CatalogA[c.key]
		if !ok {
			t.Fatalf("missing station %q", c.key)
		}
		if got := s.Kind(); got != c.want {
			t.Errorf("Kind(%q) = %v, want %v", c.key, got, c.want)
		}
	}
}

func TestStationExcludedForOppositeDepartment(t *testing.T) {
	book := defaultRulebook()
	hrpA := book.CatalogA[KeyHighRiskPregnancyA]
	if hrpA.ExcludedFor(DeptB) != true {
		t.Errorf("high_risk_pregnancy_a should be excluded for department B")
	}
	if hrpA.ExcludedFor(DeptA) != false {
		t.Errorf("high_risk_pregnancy_a should not be excluded for department A")
	}
	open := book.CatalogA[KeyOrientation]
	if open.ExcludedFor(DeptA) || open.ExcludedFor(DeptB) {
		t.Errorf("orientation has no DepartmentOnly filter and must be excluded for neither department")
	}
}

func TestExcludedStationsForCollectsBothStations(t *testing.T) {
	book := defaultRulebook()
	excluded := ExcludedStationsFor(book.CatalogA, DeptA)
	if !excluded[KeyHighRiskPregnancyB] || !excluded[KeyGynecologyB] {
		t.Errorf("department A resident must exclude both department-B stations, got %v", excluded)
	}
	if excluded[KeyHighRiskPregnancyA] || excluded[KeyGynecologyA] {
		t.Errorf("department A resident must not exclude its own department-A stations, got %v", excluded)
	}
}

func TestStationValidateRejectsBadSplitConfig(t *testing.T) {
	s := Station{Key: "x", DurationMonths: 6, Splittable: true, SplitConfig: &Split{First: 4, Second: 3}}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for split_config not summing to duration")
	}
}

func TestStationValidateRejectsMinGreaterThanMax(t *testing.T) {
	s := Station{Key: "x", DurationMonths: 1, MinInterns: 5, MaxInterns: 2}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for min_interns > max_interns")
	}
}
