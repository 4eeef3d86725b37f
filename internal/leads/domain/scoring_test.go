package domain

import "testing"

func fullProfile() Profile {
	return Profile{
		FirstName:     "Asha",
		LastName:      "Verma",
		Email:         "asha@example.com",
		Phone:         "+919876543210",
		AltPhone:      "+919876543211",
		City:          "Pune",
		State:         "MH",
		Pincode:       "411001",
		Occupation:    "salaried",
		Company:       "Acme",
		MonthlyIncome: "85000",
		LoanAmount:    "2500000",
		PropertyType:  "apartment",
	}
}

func TestComputeScoreAllFieldsFilled(t *testing.T) {
	score := ComputeScore(fullProfile())

	if score.CompletionPercentage != 100 {
		t.Fatalf("completion = %d, want 100", score.CompletionPercentage)
	}
	if score.Category != CategoryHot {
		t.Fatalf("category = %s, want hot", score.Category)
	}
	if score.Priority != PriorityHigh {
		t.Fatalf("priority = %s, want high", score.Priority)
	}
}

func TestComputeScoreSevenOfThirteen(t *testing.T) {
	p := Profile{
		FirstName: "Asha",
		LastName:  "Verma",
		Email:     "asha@example.com",
		Phone:     "+919876543210",
		City:      "Pune",
		State:     "MH",
		Pincode:   "411001",
	}

	score := ComputeScore(p)

	if score.CompletionPercentage != 54 {
		t.Fatalf("completion = %d, want 54", score.CompletionPercentage)
	}
	if score.Category != CategoryWarm {
		t.Fatalf("category = %s, want warm", score.Category)
	}
	if score.Priority != PriorityMedium {
		t.Fatalf("priority = %s, want medium", score.Priority)
	}
}

func TestComputeScoreEmptyProfileIsCold(t *testing.T) {
	score := ComputeScore(Profile{})

	if score.CompletionPercentage != 0 {
		t.Fatalf("completion = %d, want 0", score.CompletionPercentage)
	}
	if score.Category != CategoryCold {
		t.Fatalf("category = %s, want cold", score.Category)
	}
	if score.Priority != PriorityLow {
		t.Fatalf("priority = %s, want low", score.Priority)
	}
}

func TestComputeScoreIsIdempotent(t *testing.T) {
	p := fullProfile()
	p.Company = ""
	p.AltPhone = ""

	first := ComputeScore(p)
	second := ComputeScore(p)

	if first != second {
		t.Fatalf("scoring is not idempotent: %+v vs %+v", first, second)
	}
}

func TestCategoryThresholdBoundaries(t *testing.T) {
	cases := []struct {
		pct  int
		want Category
	}{
		{100, CategoryHot},
		{80, CategoryHot},
		{79, CategoryWarm},
		{50, CategoryWarm},
		{49, CategoryCold},
		{0, CategoryCold},
	}

	for _, tc := range cases {
		if got := categoryForCompletion(tc.pct); got != tc.want {
			t.Errorf("categoryForCompletion(%d) = %s, want %s", tc.pct, got, tc.want)
		}
	}
}

func TestPriorityMatchesCategoryOneToOne(t *testing.T) {
	pairs := map[Category]Priority{
		CategoryHot:  PriorityHigh,
		CategoryWarm: PriorityMedium,
		CategoryCold: PriorityLow,
	}

	for category, want := range pairs {
		if got := category.priority(); got != want {
			t.Errorf("priority for %s = %s, want %s", category, got, want)
		}
	}
}
