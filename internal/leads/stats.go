package leads

import "time"

// Stats holds the aggregate numbers shown on the admin dashboard.
type Stats struct {
	TotalLeads   int     `json:"totalLeads"`
	NewLeads     int     `json:"newLeads"`
	InProgress   int     `json:"inProgress"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// ComputeStats derives dashboard stats from a lead snapshot. NewLeads counts
// leads created within the trailing 7 days; TotalRevenue sums quotes of
// completed jobs.
func ComputeStats(leads []Lead, now time.Time) Stats {
	weekAgo := now.AddDate(0, 0, -7)

	var s Stats
	s.TotalLeads = len(leads)
	for _, lead := range leads {
		if lead.CreatedAt.After(weekAgo) {
			s.NewLeads++
		}
		switch lead.Status {
		case StatusInProgress:
			s.InProgress++
		case StatusCompleted:
			s.TotalRevenue += lead.Quote
		}
	}
	return s
}
