package leads

import (
	"testing"
	"time"
)

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, time.Now())
	if stats != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestComputeStats_Aggregates(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	all := []Lead{
		{Status: StatusNew, CreatedAt: now.Add(-time.Hour), Quote: 100},
		{Status: StatusInProgress, CreatedAt: now.AddDate(0, 0, -3), Quote: 200},
		{Status: StatusCompleted, CreatedAt: now.AddDate(0, 0, -10), Quote: 2500.50},
		{Status: StatusCompleted, CreatedAt: now.AddDate(0, 0, -30), Quote: 999.50},
		{Status: StatusContacted, CreatedAt: now.AddDate(0, 0, -8), Quote: 400},
	}

	stats := ComputeStats(all, now)

	if stats.TotalLeads != 5 {
		t.Errorf("totalLeads = %d, want 5", stats.TotalLeads)
	}
	if stats.NewLeads != 2 {
		t.Errorf("newLeads = %d, want 2", stats.NewLeads)
	}
	if stats.InProgress != 1 {
		t.Errorf("inProgress = %d, want 1", stats.InProgress)
	}
	if stats.TotalRevenue != 3500.00 {
		t.Errorf("totalRevenue = %.2f, want 3500.00", stats.TotalRevenue)
	}
}

func TestComputeStats_WeekBoundary(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	weekAgo := now.AddDate(0, 0, -7)

	all := []Lead{
		{Status: StatusNew, CreatedAt: weekAgo.Add(time.Second)},  // inside window
		{Status: StatusNew, CreatedAt: weekAgo},                   // exactly 7d is outside
		{Status: StatusNew, CreatedAt: weekAgo.Add(-time.Second)}, // outside
	}

	stats := ComputeStats(all, now)
	if stats.NewLeads != 1 {
		t.Errorf("newLeads = %d, want 1", stats.NewLeads)
	}
}
