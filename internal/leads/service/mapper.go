package service

import (
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
)

func toLeadResponse(l repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:            l.ID,
		FirstName:     l.FirstName,
		LastName:      l.LastName,
		Email:         l.Email,
		Phone:         l.Phone,
		AltPhone:      l.AltPhone,
		City:          l.City,
		State:         l.State,
		Pincode:       l.Pincode,
		Occupation:    l.Occupation,
		Company:       l.Company,
		MonthlyIncome: l.MonthlyIncome,
		LoanAmount:    l.LoanAmount,
		PropertyType:  l.PropertyType,
		Notes:         l.Notes,

		CompletionPercentage: l.CompletionPercentage,
		Category:             l.Category,
		Priority:             l.Priority,

		Status:           l.Status,
		Qualification:    l.Qualification,
		ContactStatus:    l.ContactStatus,
		CallOutcome:      l.CallOutcome,
		Engagement:       l.Engagement,
		DisqualifyReason: l.DisqualifyReason,
		ProgressStatus:   l.ProgressStatus,

		AdminProcessed:   l.AdminProcessed,
		AdminProcessedAt: l.AdminProcessedAt,

		AssignedTo:      l.AssignedTo,
		AssignedBy:      l.AssignedBy,
		AssignmentNotes: l.AssignmentNotes,
		AssignedAt:      l.AssignedAt,

		ConversionValue: l.ConversionValue,
		ConvertedAt:     l.ConvertedAt,

		CreatedBy: l.CreatedBy,
		UpdatedBy: l.UpdatedBy,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toStatsResponse(s repository.Stats) transport.StatsResponse {
	return transport.StatsResponse{
		TotalLeads:      s.TotalLeads,
		HotLeads:        s.HotLeads,
		WarmLeads:       s.WarmLeads,
		ColdLeads:       s.ColdLeads,
		InterestedLeads: s.InterestedLeads,
		SuccessfulLeads: s.SuccessfulLeads,
		FollowUpLeads:   s.FollowUpLeads,
		ConversionRate:  s.ConversionRate,
		TodayLeads:      s.TodayLeads,
		WeekLeads:       s.WeekLeads,
		MonthLeads:      s.MonthLeads,
	}
}
