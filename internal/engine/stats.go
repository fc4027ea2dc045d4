package engine

import (
	"math"
	"time"

	"github.com/sjyoon/taskhub-api/internal/model"
)

// PriorityCounts breaks down pending todos by priority.
type PriorityCounts struct {
	Urgent int `json:"urgent"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Stats aggregates the unfiltered todo set. Always computed on demand, never
// cached: every "now" comparison uses the moment of computation.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
	// CompletionRate is completed/total as a rounded integer percent,
	// 0 when there are no todos.
	CompletionRate     int            `json:"completion_rate"`
	PriorityCounts     PriorityCounts `json:"priority_counts"`
	CreatedLast7Days   int            `json:"created_last_7_days"`
	CompletedLast7Days int            `json:"completed_last_7_days"`
	// DueSoon counts open todos due within [now, now+3d].
	DueSoon int `json:"due_soon"`
}

func ComputeStats(todos []model.TodoDetails, now time.Time) Stats {
	stats := Stats{Total: len(todos)}
	weekAgo := now.Add(-7 * 24 * time.Hour)
	threeDaysAhead := now.Add(3 * 24 * time.Hour)

	for _, t := range todos {
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
			switch t.Priority {
			case model.PriorityUrgent:
				stats.PriorityCounts.Urgent++
			case model.PriorityHigh:
				stats.PriorityCounts.High++
			case model.PriorityMedium:
				stats.PriorityCounts.Medium++
			case model.PriorityLow:
				stats.PriorityCounts.Low++
			}
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
		if !t.CreatedAt.Before(weekAgo) {
			stats.CreatedLast7Days++
		}
		if t.CompletedAt != nil && !t.CompletedAt.Before(weekAgo) {
			stats.CompletedLast7Days++
		}
		if !t.Completed && t.DueDate != nil &&
			!t.DueDate.Before(now) && !t.DueDate.After(threeDaysAhead) {
			stats.DueSoon++
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}
