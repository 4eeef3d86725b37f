package domain

import "math"

// Category is the derived lead quality tier.
type Category string

const (
	CategoryHot  Category = "hot"
	CategoryWarm Category = "warm"
	CategoryCold Category = "cold"
)

// Priority maps 1:1 with Category.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Profile carries the scoreable lead fields. Contact and financial values
// are treated as opaque strings here; only presence matters for scoring.
type Profile struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	AltPhone      string
	City          string
	State         string
	Pincode       string
	Occupation    string
	Company       string
	MonthlyIncome string
	LoanAmount    string
	PropertyType  string
}

// ScoreableFieldCount is the fixed size of the scoreable field set.
const ScoreableFieldCount = 13

// Score is the derived quality tuple. Category and Priority are always
// recomputed together with CompletionPercentage, never edited independently.
type Score struct {
	CompletionPercentage int
	Category             Category
	Priority             Priority
}

// ComputeScore derives completion percentage, category and priority from the
// profile. It is pure and total: same fields in, same score out.
func ComputeScore(p Profile) Score {
	fields := [ScoreableFieldCount]string{
		p.FirstName, p.LastName, p.Email, p.Phone, p.AltPhone,
		p.City, p.State, p.Pincode, p.Occupation, p.Company,
		p.MonthlyIncome, p.LoanAmount, p.PropertyType,
	}

	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}

	pct := int(math.Round(100 * float64(filled) / float64(ScoreableFieldCount)))

	category := categoryForCompletion(pct)
	return Score{
		CompletionPercentage: pct,
		Category:             category,
		Priority:             category.priority(),
	}
}

func categoryForCompletion(pct int) Category {
	switch {
	case pct >= 80:
		return CategoryHot
	case pct >= 50:
		return CategoryWarm
	default:
		return CategoryCold
	}
}

func (c Category) priority() Priority {
	switch c {
	case CategoryHot:
		return PriorityHigh
	case CategoryWarm:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ValidCategory reports whether raw names a known category. Used for list
// filters; the category itself is server-computed only.
func ValidCategory(raw string) bool {
	switch Category(raw) {
	case CategoryHot, CategoryWarm, CategoryCold:
		return true
	}
	return false
}
