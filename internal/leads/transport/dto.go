// Package transport defines the request/response DTOs for the leads API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateLeadRequest is the payload for POST /leads. Derived fields
// (completionPercentage, category, priority) are never accepted from the
// client; they are recomputed server-side on every write.
type CreateLeadRequest struct {
	FirstName     string `json:"firstName" binding:"required,max=100"`
	LastName      string `json:"lastName" binding:"max=100"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone" binding:"required,max=20"`
	AltPhone      string `json:"altPhone" binding:"max=20"`
	City          string `json:"city" binding:"max=100"`
	State         string `json:"state" binding:"max=100"`
	Pincode       string `json:"pincode" binding:"max=10"`
	Occupation    string `json:"occupation" binding:"max=100"`
	Company       string `json:"company" binding:"max=200"`
	MonthlyIncome string `json:"monthlyIncome" binding:"max=20"`
	LoanAmount    string `json:"loanAmount" binding:"max=20"`
	PropertyType  string `json:"propertyType" binding:"max=50"`
	Notes         string `json:"notes" binding:"max=2000"`
}

// UpdateLeadRequest is the payload for PUT /leads/:id. Every field is
// optional; only fields present in the JSON body enter the merge patch.
type UpdateLeadRequest struct {
	FirstName     OptionalString `json:"firstName"`
	LastName      OptionalString `json:"lastName"`
	Email         OptionalString `json:"email"`
	Phone         OptionalString `json:"phone"`
	AltPhone      OptionalString `json:"altPhone"`
	City          OptionalString `json:"city"`
	State         OptionalString `json:"state"`
	Pincode       OptionalString `json:"pincode"`
	Occupation    OptionalString `json:"occupation"`
	Company       OptionalString `json:"company"`
	MonthlyIncome OptionalString `json:"monthlyIncome"`
	LoanAmount    OptionalString `json:"loanAmount"`
	PropertyType  OptionalString `json:"propertyType"`
	Notes         OptionalString `json:"notes"`

	Status           OptionalString  `json:"status"`
	Qualification    OptionalString  `json:"leadQualification"`
	ContactStatus    OptionalString  `json:"contactStatus"`
	CallOutcome      OptionalString  `json:"callOutcome"`
	Engagement       OptionalString  `json:"engagementStatus"`
	DisqualifyReason OptionalString  `json:"disqualifyReason"`
	ProgressStatus   OptionalString  `json:"progressStatus"`
	ConversionValue  OptionalFloat64 `json:"conversionValue"`
}

// AssignLeadRequest is the payload for PUT /leads/:id/assign-to-agent2.
type AssignLeadRequest struct {
	AgentID uuid.UUID `json:"agentId" binding:"required"`
	Notes   string    `json:"notes" binding:"max=2000"`
}

// ListLeadsQuery carries the supported list filters.
type ListLeadsQuery struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Search   string `form:"search"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit    int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

// LeadResponse is the full lead representation returned by the API.
type LeadResponse struct {
	ID            uuid.UUID `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone"`
	AltPhone      string    `json:"altPhone,omitempty"`
	City          string    `json:"city,omitempty"`
	State         string    `json:"state,omitempty"`
	Pincode       string    `json:"pincode,omitempty"`
	Occupation    string    `json:"occupation,omitempty"`
	Company       string    `json:"company,omitempty"`
	MonthlyIncome string    `json:"monthlyIncome,omitempty"`
	LoanAmount    string    `json:"loanAmount,omitempty"`
	PropertyType  string    `json:"propertyType,omitempty"`
	Notes         string    `json:"notes,omitempty"`

	CompletionPercentage int    `json:"completionPercentage"`
	Category             string `json:"category"`
	Priority             string `json:"priority"`

	Status           string `json:"status"`
	Qualification    string `json:"leadQualification,omitempty"`
	ContactStatus    string `json:"contactStatus,omitempty"`
	CallOutcome      string `json:"callOutcome,omitempty"`
	Engagement       string `json:"engagementStatus,omitempty"`
	DisqualifyReason string `json:"disqualifyReason,omitempty"`
	ProgressStatus   string `json:"progressStatus,omitempty"`

	AdminProcessed   bool       `json:"adminProcessed"`
	AdminProcessedAt *time.Time `json:"adminProcessedAt,omitempty"`

	AssignedTo      *uuid.UUID `json:"assignedTo,omitempty"`
	AssignedBy      *uuid.UUID `json:"assignedBy,omitempty"`
	AssignmentNotes string     `json:"assignmentNotes,omitempty"`
	AssignedAt      *time.Time `json:"assignedAt,omitempty"`

	ConversionValue *float64   `json:"conversionValue,omitempty"`
	ConvertedAt     *time.Time `json:"convertedAt,omitempty"`

	CreatedBy uuid.UUID `json:"createdBy"`
	UpdatedBy uuid.UUID `json:"updatedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListLeadsResponse is a paginated lead list.
type ListLeadsResponse struct {
	Leads []LeadResponse `json:"leads"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
}

// StatsResponse is the dashboard snapshot returned by GET /leads/dashboard/stats.
type StatsResponse struct {
	TotalLeads      int     `json:"totalLeads"`
	HotLeads        int     `json:"hotLeads"`
	WarmLeads       int     `json:"warmLeads"`
	ColdLeads       int     `json:"coldLeads"`
	InterestedLeads int     `json:"interestedLeads"`
	SuccessfulLeads int     `json:"successfulLeads"`
	FollowUpLeads   int     `json:"followUpLeads"`
	ConversionRate  float64 `json:"conversionRate"`
	TodayLeads      int     `json:"todayLeads"`
	WeekLeads       int     `json:"weekLeads"`
	MonthLeads      int     `json:"monthLeads"`
}
