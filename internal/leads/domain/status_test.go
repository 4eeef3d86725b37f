package domain

import "testing"

func strPtr(s string) *string { return &s }

func TestValidateStatusPatchAcceptsKnownValues(t *testing.T) {
	patch := StatusPatch{
		Status:           strPtr("interested"),
		Qualification:    strPtr("qualified"),
		ContactStatus:    strPtr("contacted"),
		CallOutcome:      strPtr("connected"),
		Engagement:       strPtr("engaged"),
		DisqualifyReason: strPtr("other"),
		ProgressStatus:   strPtr("in-progress"),
	}

	if errs := ValidateStatusPatch(patch); len(errs) != 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}

func TestValidateStatusPatchReportsEveryOffendingField(t *testing.T) {
	patch := StatusPatch{
		Status:        strPtr("archived"),
		Qualification: strPtr("maybe"),
		CallOutcome:   strPtr("voicemail-full"),
	}

	errs := ValidateStatusPatch(patch)
	if len(errs) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %+v", len(errs), errs)
	}

	fields := make(map[string]bool)
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	for _, want := range []string{"status", "leadQualification", "callOutcome"} {
		if !fields[want] {
			t.Errorf("missing field error for %q", want)
		}
	}
}

func TestValidateStatusPatchIgnoresAbsentAndClearedFields(t *testing.T) {
	patch := StatusPatch{
		Qualification: strPtr(""),
	}

	if errs := ValidateStatusPatch(patch); len(errs) != 0 {
		t.Fatalf("absent and cleared fields must not be validated, got %+v", errs)
	}
}

func TestAnyStatusMayFollowAnyOther(t *testing.T) {
	// There is no transition graph: successful → new is legal.
	for _, raw := range []string{"new", "interested", "not-interested", "successful", "follow-up"} {
		patch := StatusPatch{Status: strPtr(raw)}
		if errs := ValidateStatusPatch(patch); len(errs) != 0 {
			t.Errorf("status %q rejected: %+v", raw, errs)
		}
	}
}

func TestBecomesSuccessful(t *testing.T) {
	if (StatusPatch{}).BecomesSuccessful() {
		t.Fatal("empty patch must not become successful")
	}
	if (StatusPatch{Status: strPtr("follow-up")}).BecomesSuccessful() {
		t.Fatal("follow-up patch must not become successful")
	}
	if !(StatusPatch{Status: strPtr("successful")}).BecomesSuccessful() {
		t.Fatal("successful patch must report BecomesSuccessful")
	}
}
