package domain

// Status is the primary lifecycle state of a lead. Transitions are
// deliberately free-form: any status may follow any other, including
// successful → new. Tightening this would be a behavior change.
type Status string

const (
	StatusNew           Status = "new"
	StatusInterested    Status = "interested"
	StatusNotInterested Status = "not-interested"
	StatusSuccessful    Status = "successful"
	StatusFollowUp      Status = "follow-up"
)

var validStatuses = map[Status]bool{
	StatusNew:           true,
	StatusInterested:    true,
	StatusNotInterested: true,
	StatusSuccessful:    true,
	StatusFollowUp:      true,
}

// ValidStatus reports whether raw names a known status.
func ValidStatus(raw string) bool {
	return validStatuses[Status(raw)]
}

// Sub-status fields are independent descriptive tags set by follow-up
// agents. They never gate the primary status.

var validQualifications = map[string]bool{
	"qualified":     true,
	"not-qualified": true,
	"pending":       true,
}

var validContactStatuses = map[string]bool{
	"contacted":     true,
	"not-contacted": true,
	"unreachable":   true,
}

var validCallOutcomes = map[string]bool{
	"connected":          true,
	"no-answer":          true,
	"busy":               true,
	"wrong-number":       true,
	"callback-requested": true,
}

var validEngagements = map[string]bool{
	"engaged":     true,
	"not-engaged": true,
	"nurturing":   true,
}

var validDisqualifyReasons = map[string]bool{
	"not-interested": true,
	"budget":         true,
	"ineligible":     true,
	"duplicate":      true,
	"unresponsive":   true,
	"other":          true,
}

var validProgressStatuses = map[string]bool{
	"untouched":          true,
	"in-progress":        true,
	"awaiting-documents": true,
	"under-review":       true,
	"closed-won":         true,
	"closed-lost":        true,
}

// FieldError describes a single invalid field in a patch.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StatusPatch carries the lifecycle fields of an update. Nil means the field
// is absent from the patch; an empty string clears the tag.
type StatusPatch struct {
	Status           *string
	Qualification    *string
	ContactStatus    *string
	CallOutcome      *string
	Engagement       *string
	DisqualifyReason *string
	ProgressStatus   *string
}

// ValidateStatusPatch checks every enumerated field of the patch and returns
// all offending fields, not just the first.
func ValidateStatusPatch(p StatusPatch) []FieldError {
	var errs []FieldError

	check := func(field string, value *string, valid map[string]bool) {
		if value == nil || *value == "" {
			return
		}
		if !valid[*value] {
			errs = append(errs, FieldError{Field: field, Message: "value is not in the allowed set"})
		}
	}

	if p.Status != nil && !ValidStatus(*p.Status) {
		errs = append(errs, FieldError{Field: "status", Message: "value is not in the allowed set"})
	}
	check("leadQualification", p.Qualification, validQualifications)
	check("contactStatus", p.ContactStatus, validContactStatuses)
	check("callOutcome", p.CallOutcome, validCallOutcomes)
	check("engagementStatus", p.Engagement, validEngagements)
	check("disqualifyReason", p.DisqualifyReason, validDisqualifyReasons)
	check("progressStatus", p.ProgressStatus, validProgressStatuses)

	return errs
}

// BecomesSuccessful reports whether applying the patch moves the lead into
// the successful status. The first such transition stamps convertedAt;
// later ones never overwrite it.
func (p StatusPatch) BecomesSuccessful() bool {
	return p.Status != nil && Status(*p.Status) == StatusSuccessful
}
