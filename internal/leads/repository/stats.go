package repository

import (
	"context"
	"math"

	"leadflow_backend/internal/leads/domain"
)

// Stats is the dashboard aggregate over the scoped lead set.
type Stats struct {
	TotalLeads      int
	HotLeads        int
	WarmLeads       int
	ColdLeads       int
	InterestedLeads int
	SuccessfulLeads int
	FollowUpLeads   int
	ConversionRate  float64
	TodayLeads      int
	WeekLeads       int
	MonthLeads      int
}

const statsSelect = `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE l.category = 'hot'),
		COUNT(*) FILTER (WHERE l.category = 'warm'),
		COUNT(*) FILTER (WHERE l.category = 'cold'),
		COUNT(*) FILTER (WHERE l.status = 'interested'),
		COUNT(*) FILTER (WHERE l.status = 'successful'),
		COUNT(*) FILTER (WHERE l.status = 'follow-up'),
		COUNT(*) FILTER (WHERE l.created_at >= date_trunc('day', now())),
		COUNT(*) FILTER (WHERE l.created_at >= now() - interval '7 days'),
		COUNT(*) FILTER (WHERE l.created_at >= date_trunc('month', now()))
	FROM leads l`

// Stats runs a single grouped pass over the visibility-scoped lead set.
// It is read-only and tolerates read skew under concurrent writers.
func (r *Repository) Stats(ctx context.Context, scope domain.Scope) (Stats, error) {
	args := make([]interface{}, 0, 1)
	clause := scopeClause(scope, &args)

	var s Stats
	err := r.pool.QueryRow(ctx, statsSelect+" WHERE "+clause, args...).Scan(
		&s.TotalLeads, &s.HotLeads, &s.WarmLeads, &s.ColdLeads,
		&s.InterestedLeads, &s.SuccessfulLeads, &s.FollowUpLeads,
		&s.TodayLeads, &s.WeekLeads, &s.MonthLeads,
	)
	if err != nil {
		return Stats{}, err
	}

	s.ConversionRate = ConversionRate(s.SuccessfulLeads, s.TotalLeads)
	return s, nil
}

// ConversionRate is successful/total as a percentage rounded to one decimal,
// defined as 0 when there are no leads.
func ConversionRate(successful, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(successful)/float64(total)*1000) / 10
}
