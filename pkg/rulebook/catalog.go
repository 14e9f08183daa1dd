package rulebook

// Canonical station keys. These are the stable identifiers the constraint
// builder, validator, and capacity analyzer key off of; display names are a
// presentation concern for the (out-of-scope) UI collaborator.
const (
	KeyOrientation         = "orientation"
	KeyMaternityWard       = "maternity_ward"
	KeyHighRiskPregnancyA  = "high_risk_pregnancy_a"
	KeyHighRiskPregnancyB  = "high_risk_pregnancy_b"
	KeyDeliveryRoom        = "delivery_room"
	KeyGynecologyA         = "gynecology_a"
	KeyGynecologyB         = "gynecology_b"
	KeyObstetricER         = "obstetric_er"
	KeyWomensER            = "womens_er"
	KeyGynDayClinic        = "gyn_day_clinic"
	KeyObstetricDayClinic  = "obstetric_day_clinic"
	KeyBasicSciences       = "basic_sciences"
	KeyRotationA           = "rotation_a"
	StageAKey              = "stage_a"
	KeyRotationB           = "rotation_b"
	StageBKey              = "stage_b"
	KeyDepartmentWard      = "department_ward"
	KeyIVF                 = "ivf"
	KeyGynOncology         = "gyn_oncology"
	KeyRotation            = "rotation"
	KeyERChiefResident     = "er_chief_resident"
	KeyMaternityLeave      = "maternity_leave"
	KeyUnpaidLeave         = "unpaid_leave"
	KeySickLeave           = "sick_leave"
)

// baseCatalog returns the Model-A station catalog (SPEC_FULL.md §12.1),
// translated with English canonical keys from
// _examples/original_source/src/config.py's STATIONS_MODEL_A. Model B is
// derived from it by removing KeyBasicSciences (ModelBCatalog below).
func baseCatalog() map[string]Station {
	return map[string]Station{
		KeyOrientation:   {Key: KeyOrientation, DisplayName: "Orientation", DurationMonths: 1, MinInterns: 0, MaxInterns: Unbounded},
		KeyMaternityWard: {Key: KeyMaternityWard, DisplayName: "Maternity Ward", DurationMonths: 1, MinInterns: 0, MaxInterns: Unbounded},
		KeyHighRiskPregnancyA: {
			Key: KeyHighRiskPregnancyA, DisplayName: "High-Risk Pregnancy A", DurationMonths: 6,
			MinInterns: 1, MaxInterns: 2, Splittable: true, SplitConfig: &Split{4, 2}, DepartmentOnly: DepartmentA,
		},
		KeyHighRiskPregnancyB: {
			Key: KeyHighRiskPregnancyB, DisplayName: "High-Risk Pregnancy B", DurationMonths: 6,
			MinInterns: 1, MaxInterns: 2, Splittable: true, SplitConfig: &Split{4, 2}, DepartmentOnly: DepartmentB,
		},
		KeyDeliveryRoom: {
			Key: KeyDeliveryRoom, DisplayName: "Delivery Room", DurationMonths: 6,
			MinInterns: 3, MaxInterns: 4, Splittable: true, SplitConfig: &Split{4, 2},
		},
		KeyGynecologyA: {
			Key: KeyGynecologyA, DisplayName: "Gynecology A", DurationMonths: 6,
			MinInterns: 1, MaxInterns: 2, Splittable: true, SplitConfig: &Split{4, 2}, DepartmentOnly: DepartmentA,
		},
		KeyGynecologyB: {
			Key: KeyGynecologyB, DisplayName: "Gynecology B", DurationMonths: 6,
			MinInterns: 1, MaxInterns: 2, Splittable: true, SplitConfig: &Split{4, 2}, DepartmentOnly: DepartmentB,
		},
		KeyObstetricER: {
			Key: KeyObstetricER, DisplayName: "Obstetric ER", DurationMonths: 6,
			MinInterns: 2, MaxInterns: 4, Splittable: true, // no preferred split shape
		},
		KeyWomensER: {Key: KeyWomensER, DisplayName: "Women's ER", DurationMonths: 3, MinInterns: 1, MaxInterns: 3},
		KeyGynDayClinic: {Key: KeyGynDayClinic, DisplayName: "Gynecology Day Clinic", DurationMonths: 3, MinInterns: 1, MaxInterns: 2},
		KeyObstetricDayClinic: {
			Key: KeyObstetricDayClinic, DisplayName: "Obstetric Day Clinic", DurationMonths: 3, MinInterns: 1, MaxInterns: 2,
		},
		KeyBasicSciences: {Key: KeyBasicSciences, DisplayName: "Basic Sciences", DurationMonths: 5, MinInterns: 0, MaxInterns: Unbounded},
		KeyRotationA:     {Key: KeyRotationA, DisplayName: "Rotation A", DurationMonths: 3, MinInterns: 0, MaxInterns: Unbounded},
		StageAKey:        {Key: StageAKey, DisplayName: "Stage A", DurationMonths: 1, MinInterns: 0, MaxInterns: Unbounded},
		KeyRotationB:     {Key: KeyRotationB, DisplayName: "Rotation B", DurationMonths: 3, MinInterns: 0, MaxInterns: Unbounded},
		StageBKey:        {Key: StageBKey, DisplayName: "Stage B", DurationMonths: 1, MinInterns: 0, MaxInterns: Unbounded},
		KeyDepartmentWard: {Key: KeyDepartmentWard, DisplayName: "Department Ward", DurationMonths: 14, MinInterns: 0, MaxInterns: Unbounded},
		KeyIVF: {
			Key: KeyIVF, DisplayName: "IVF", DurationMonths: 6, MinInterns: 2, MaxInterns: 4, NoSplitAllowed: true,
		},
		KeyGynOncology: {Key: KeyGynOncology, DisplayName: "Gynecologic Oncology", DurationMonths: 2, MinInterns: 0, MaxInterns: 2},
		KeyRotation:    {Key: KeyRotation, DisplayName: "Elective Rotation", DurationMonths: 4, MinInterns: 0, MaxInterns: Unbounded},
		KeyERChiefResident: {
			Key: KeyERChiefResident, DisplayName: "ER Chief Resident", DurationMonths: 1, MinInterns: 0, MaxInterns: 1,
		},
		KeyMaternityLeave: {Key: KeyMaternityLeave, DisplayName: "Maternity Leave", DurationMonths: 0, MinInterns: 0, MaxInterns: Unbounded},
		KeyUnpaidLeave:    {Key: KeyUnpaidLeave, DisplayName: "Unpaid Leave", DurationMonths: 0, MinInterns: 0, MaxInterns: Unbounded},
		KeySickLeave:      {Key: KeySickLeave, DisplayName: "Sick Leave", DurationMonths: 0, MinInterns: 0, MaxInterns: Unbounded},
	}
}

// ModelACatalog returns a fresh copy of the Model-A station catalog.
func ModelACatalog() map[string]Station {
	return baseCatalog()
}

// ModelBCatalog returns a fresh copy of the Model-B station catalog, which
// is Model A minus basic_sciences (config.py's STATIONS_MODEL_B).
func ModelBCatalog() map[string]Station {
	catalog := baseCatalog()
	delete(catalog, KeyBasicSciences)
	return catalog
}

// PrecedencePair is an ordered immediate-precedence requirement: the last
// month of Before is immediately followed by the first month of After.
type PrecedencePair struct {
	Before string
	After  string
}

// defaultPrecedencePairs mirrors config.py's REQUIRED_SEQUENCES. The
// (basic_sciences, stage_a) pair only applies to Model A, since Model B's
// catalog has no basic_sciences station; Rulebook.PrecedencePairsFor leaves
// out pairs whose stations are absent from the requested model.
func defaultPrecedencePairs() []PrecedencePair {
	return []PrecedencePair{
		{Before: KeyBasicSciences, After: StageAKey},
		{Before: KeyRotationA, After: StageAKey},
		{Before: KeyRotationB, After: StageBKey},
	}
}

func defaultBeforeStageA() []string      { return []string{KeyWomensER, KeyDeliveryRoom} }
func defaultAfterStageA() []string       { return []string{KeyERChiefResident} }
func defaultPreferAfterStageA() []string { return []string{KeyIVF} }
func defaultNoSplitAllowed() []string    { return []string{KeyIVF} }
