package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sjyoon/taskhub-api/internal/model"
)

type ViewKind string

const (
	ViewAll        ViewKind = "all"
	ViewPending    ViewKind = "pending"
	ViewCompleted  ViewKind = "completed"
	ViewOverdue    ViewKind = "overdue"
	ViewByCategory ViewKind = "category"
)

// ViewSelector partitions the todo set. Exactly one selector is active at a
// time; ViewByCategory carries the category id.
type ViewSelector struct {
	Kind       ViewKind
	CategoryID string
}

// ParseViewSelector parses "all", "pending", "completed", "overdue", or
// "category:<id>". An empty string means "all".
func ParseViewSelector(s string) (ViewSelector, error) {
	switch s {
	case "", string(ViewAll):
		return ViewSelector{Kind: ViewAll}, nil
	case string(ViewPending):
		return ViewSelector{Kind: ViewPending}, nil
	case string(ViewCompleted):
		return ViewSelector{Kind: ViewCompleted}, nil
	case string(ViewOverdue):
		return ViewSelector{Kind: ViewOverdue}, nil
	}
	if id, ok := strings.CutPrefix(s, "category:"); ok && id != "" {
		return ViewSelector{Kind: ViewByCategory, CategoryID: id}, nil
	}
	return ViewSelector{}, fmt.Errorf("%w: unknown view %q", ErrInvalidInput, s)
}

// Matches reports whether the todo belongs to the selector's partition.
func (s ViewSelector) Matches(t model.Todo, now time.Time) bool {
	switch s.Kind {
	case ViewPending:
		return !t.Completed
	case ViewCompleted:
		return t.Completed
	case ViewOverdue:
		return t.IsOverdue(now)
	case ViewByCategory:
		return t.CategoryID != nil && *t.CategoryID == s.CategoryID
	default:
		return true
	}
}

type SortMode string

const (
	// SortCreated is the engine's native order: ascending by order_index,
	// i.e. the user's manual ordering, not creation time.
	SortCreated  SortMode = "created"
	SortDue      SortMode = "due"
	SortPriority SortMode = "priority"
)

type ViewParams struct {
	Selector ViewSelector
	Search   string
	Priority model.Priority // empty means all priorities
	Sort     SortMode       // empty means SortCreated
}

func (p ViewParams) Validate() error {
	if p.Priority != "" && !p.Priority.IsValid() {
		return fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, p.Priority)
	}
	switch p.Sort {
	case "", SortCreated, SortDue, SortPriority:
	default:
		return fmt.Errorf("%w: invalid sort %q", ErrInvalidInput, p.Sort)
	}
	return nil
}

// ApplyView runs the full derivation pipeline: selector filter, then text
// search, then priority filter, then sort. Pure; the input slice is not
// modified.
func ApplyView(todos []model.TodoDetails, params ViewParams, now time.Time) []model.TodoDetails {
	filtered := make([]model.TodoDetails, 0, len(todos))
	query := strings.ToLower(params.Search)

	for _, t := range todos {
		if !params.Selector.Matches(t.Todo, now) {
			continue
		}
		if query != "" && !matchesSearch(t.Todo, query) {
			continue
		}
		if params.Priority != "" && t.Priority != params.Priority {
			continue
		}
		filtered = append(filtered, t)
	}

	switch params.Sort {
	case SortDue:
		// Todos without a due date sort after every todo that has one; the
		// stable sort preserves prior order inside the nil group.
		sort.SliceStable(filtered, func(i, j int) bool {
			a, b := filtered[i].DueDate, filtered[j].DueDate
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.Before(*b)
		})
	case SortPriority:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Priority.Rank() < filtered[j].Priority.Rank()
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].OrderIndex < filtered[j].OrderIndex
		})
	}

	return filtered
}

// matchesSearch does a case-insensitive substring match on title or
// description. query must already be lowercased.
func matchesSearch(t model.Todo, query string) bool {
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	return t.Description != "" && strings.Contains(strings.ToLower(t.Description), query)
}
