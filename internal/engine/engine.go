// Package engine holds the per-user view model: an in-memory snapshot of the
// user's todos (with subtasks, tags, and resolved categories), write-through
// mutations against the persistence gateway, and pure view/statistics
// derivation over the snapshot.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sjyoon/taskhub-api/internal/model"
	"github.com/sjyoon/taskhub-api/internal/repository"
)

// Repos bundles the gateway interfaces the engine writes through to.
type Repos struct {
	Todos      repository.TodoRepository
	Subtasks   repository.SubtaskRepository
	Tags       repository.TagRepository
	Categories repository.CategoryRepository
}

// Engine is the authoritative in-memory state for one signed-in user.
// Every mutation validates first, writes through to the gateway, and only
// then patches the snapshot; a failed write leaves the snapshot untouched.
type Engine struct {
	userID string
	repos  Repos

	mu         sync.RWMutex
	todos      []model.TodoDetails
	categories []model.Category
	tags       []model.Tag
}

func New(repos Repos, userID string) *Engine {
	return &Engine{userID: userID, repos: repos}
}

// Load replaces the snapshot with a fresh read of the user's collections.
// On any gateway failure the previous snapshot is kept and the error returned.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	todos, err := e.repos.Todos.ListByUser(ctx, e.userID)
	if err != nil {
		return fmt.Errorf("failed to load todos: %w", err)
	}
	categories, err := e.repos.Categories.ListByUser(ctx, e.userID)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	tags, err := e.repos.Tags.ListByUser(ctx, e.userID)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}

	ids := make([]string, len(todos))
	for i, t := range todos {
		ids[i] = t.ID
	}

	subtasks, err := e.repos.Subtasks.ListByTodoIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load subtasks: %w", err)
	}
	tagRows, err := e.repos.Tags.ListByTodoIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load todo tags: %w", err)
	}

	subtasksByTodo := make(map[string][]model.Subtask)
	for _, s := range subtasks {
		subtasksByTodo[s.TodoID] = append(subtasksByTodo[s.TodoID], s)
	}
	tagsByTodo := make(map[string][]model.Tag)
	for _, row := range tagRows {
		tagsByTodo[row.TodoID] = append(tagsByTodo[row.TodoID], row.Tag)
	}
	categoriesByID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		categoriesByID[c.ID] = c
	}

	details := make([]model.TodoDetails, len(todos))
	for i, t := range todos {
		d := model.TodoDetails{
			Todo:     t,
			Subtasks: subtasksByTodo[t.ID],
			Tags:     tagsByTodo[t.ID],
		}
		if t.CategoryID != nil {
			if c, ok := categoriesByID[*t.CategoryID]; ok {
				d.Category = &c
			}
		}
		details[i] = d
	}

	e.todos = details
	e.categories = categories
	e.tags = tags
	return nil
}

// Todos returns the current snapshot in display order.
func (e *Engine) Todos() []model.TodoDetails {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]model.TodoDetails, len(e.todos))
	copy(out, e.todos)
	return out
}

func (e *Engine) Categories() []model.Category {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]model.Category, len(e.categories))
	copy(out, e.categories)
	return out
}

func (e *Engine) Tags() []model.Tag {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]model.Tag, len(e.tags))
	copy(out, e.tags)
	return out
}

// View derives the filtered, sorted list for the given parameters.
func (e *Engine) View(params ViewParams) ([]model.TodoDetails, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ApplyView(e.todos, params, time.Now()), nil
}

// Stats recomputes statistics over the unfiltered snapshot.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ComputeStats(e.todos, time.Now())
}

// --- Todo mutations ---

type CreateTodoInput struct {
	Title       string
	Description string
	Priority    model.Priority
	DueDate     *string // RFC3339
	CategoryID  *string
	TagIDs      []string
}

type UpdateTodoInput struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	DueDate     *string // nil leaves unchanged, empty string clears
	CategoryID  *string // nil leaves unchanged, empty string clears
}

func (e *Engine) CreateTodo(ctx context.Context, input CreateTodoInput) (model.TodoDetails, error) {
	if strings.TrimSpace(input.Title) == "" {
		return model.TodoDetails{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return model.TodoDetails{}, fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, priority)
	}
	dueDate, _, err := parseDueDate(input.DueDate)
	if err != nil {
		return model.TodoDetails{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var categoryID *string
	if input.CategoryID != nil && *input.CategoryID != "" {
		if _, ok := e.findCategory(*input.CategoryID); !ok {
			return model.TodoDetails{}, fmt.Errorf("%w: category %s", ErrNotFound, *input.CategoryID)
		}
		categoryID = input.CategoryID
	}
	tags, err := e.resolveTags(input.TagIDs)
	if err != nil {
		return model.TodoDetails{}, err
	}

	todo := model.Todo{
		UserID:      e.userID,
		CategoryID:  categoryID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     dueDate,
		OrderIndex:  e.maxOrderIndex() + 1,
	}

	created, err := e.repos.Todos.Create(ctx, todo)
	if err != nil {
		return model.TodoDetails{}, fmt.Errorf("failed to create todo: %w", err)
	}
	for _, tag := range tags {
		if err := e.repos.Tags.AddToTodo(ctx, created.ID, tag.ID); err != nil {
			return model.TodoDetails{}, fmt.Errorf("failed to tag todo: %w", err)
		}
	}

	details := model.TodoDetails{Todo: created, Tags: tags}
	if created.CategoryID != nil {
		if c, ok := e.findCategory(*created.CategoryID); ok {
			details.Category = &c
		}
	}
	e.todos = append(e.todos, details)
	return details, nil
}

func (e *Engine) UpdateTodo(ctx context.Context, todoID string, input UpdateTodoInput) (model.TodoDetails, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, ok := e.findTodo(todoID)
	if !ok {
		return model.TodoDetails{}, fmt.Errorf("%w: todo %s", ErrNotFound, todoID)
	}
	existing := e.todos[idx].Todo

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return model.TodoDetails{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return model.TodoDetails{}, fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, *input.Priority)
		}
		existing.Priority = *input.Priority
	}
	if dueDate, set, err := parseDueDate(input.DueDate); err != nil {
		return model.TodoDetails{}, err
	} else if set {
		existing.DueDate = dueDate
	}
	if input.CategoryID != nil {
		if *input.CategoryID == "" {
			existing.CategoryID = nil
		} else {
			if _, ok := e.findCategory(*input.CategoryID); !ok {
				return model.TodoDetails{}, fmt.Errorf("%w: category %s", ErrNotFound, *input.CategoryID)
			}
			existing.CategoryID = input.CategoryID
		}
	}

	updated, err := e.repos.Todos.Update(ctx, existing)
	if err != nil {
		return model.TodoDetails{}, wrapGatewayError("failed to update todo", err)
	}

	e.todos[idx].Todo = updated
	e.todos[idx].Category = nil
	if updated.CategoryID != nil {
		if c, ok := e.findCategory(*updated.CategoryID); ok {
			e.todos[idx].Category = &c
		}
	}
	return e.todos[idx], nil
}

func (e *Engine) DeleteTodo(ctx context.Context, todoID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, ok := e.findTodo(todoID)
	if !ok {
		return fmt.Errorf("%w: todo %s", ErrNotFound, todoID)
	}

	if err := e.repos.Todos.Delete(ctx, e.userID, todoID); err != nil {
		return wrapGatewayError("failed to delete todo", err)
	}

	e.todos = append(e.todos[:idx], e.todos[idx+1:]...)
	return nil
}

// Toggle sets or clears the completed flag. completed_at changes in the same
// gateway write: set to now when completing, cleared when reopening.
func (e *Engine) Toggle(ctx context.Context, todoID string, completed bool) (model.TodoDetails, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, ok := e.findTodo(todoID)
	if !ok {
		return model.TodoDetails{}, fmt.Errorf("%w: todo %s", ErrNotFound, todoID)
	}

	var completedAt *time.Time
	if completed {
		now := time.Now().UTC()
		completedAt = &now
	}

	updated, err := e.repos.Todos.SetCompleted(ctx, e.userID, todoID, completed, completedAt)
	if err != nil {
		return model.TodoDetails{}, wrapGatewayError("failed to toggle todo", err)
	}

	e.todos[idx].Todo = updated
	return e.todos[idx], nil
}

// Reorder assigns each listed todo a fresh order_index equal to its position
// and persists the batch in one gateway write. Todos not listed keep their
// existing indices; reordering a filtered view therefore only renumbers the
// visible subset, which can interleave with hidden todos' indices. Known
// limitation, kept to match the presentation layer's drag-and-drop contract.
func (e *Engine) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: ids are required", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidInput, id)
		}
		seen[id] = true
		if _, ok := e.findTodo(id); !ok {
			return fmt.Errorf("%w: todo %s", ErrNotFound, id)
		}
	}

	if err := e.repos.Todos.Reorder(ctx, e.userID, ids); err != nil {
		return wrapGatewayError("failed to reorder todos", err)
	}

	for pos, id := range ids {
		if idx, ok := e.findTodo(id); ok {
			e.todos[idx].OrderIndex = pos
		}
	}
	sort.SliceStable(e.todos, func(i, j int) bool {
		if e.todos[i].OrderIndex != e.todos[j].OrderIndex {
			return e.todos[i].OrderIndex < e.todos[j].OrderIndex
		}
		return e.todos[i].CreatedAt.After(e.todos[j].CreatedAt)
	})
	return nil
}

// --- Subtask mutations ---

type UpdateSubtaskInput struct {
	Title     *string
	Completed *bool
}

func (e *Engine) AddSubtask(ctx context.Context, todoID, title string) (model.Subtask, error) {
	if strings.TrimSpace(title) == "" {
		return model.Subtask{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx, ok := e.findTodo(todoID)
	if !ok {
		return model.Subtask{}, fmt.Errorf("%w: todo %s", ErrNotFound, todoID)
	}

	maxOrder := 0
	for _, s := range e.todos[idx].Subtasks {
		if s.OrderIndex > maxOrder {
			maxOrder = s.OrderIndex
		}
	}

	created, err := e.repos.Subtasks.Create(ctx, e.userID, model.Subtask{
		TodoID:     todoID,
		Title:      title,
		OrderIndex: maxOrder + 1,
	})
	if err != nil {
		return model.Subtask{}, wrapGatewayError("failed to create subtask", err)
	}

	e.todos[idx].Subtasks = append(e.todos[idx].Subtasks, created)
	return created, nil
}

func (e *Engine) UpdateSubtask(ctx context.Context, subtaskID string, input UpdateSubtaskInput) (model.Subtask, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	todoIdx, subIdx, ok := e.findSubtask(subtaskID)
	if !ok {
		return model.Subtask{}, fmt.Errorf("%w: subtask %s", ErrNotFound, subtaskID)
	}
	existing := e.todos[todoIdx].Subtasks[subIdx]

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return model.Subtask{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		existing.Title = *input.Title
	}
	if input.Completed != nil {
		existing.Completed = *input.Completed
	}

	updated, err := e.repos.Subtasks.Update(ctx, e.userID, existing)
	if err != nil {
		return model.Subtask{}, wrapGatewayError("failed to update subtask", err)
	}

	e.todos[todoIdx].Subtasks[subIdx] = updated
	return updated, nil
}

func (e *Engine) DeleteSubtask(ctx context.Context, subtaskID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	todoIdx, subIdx, ok := e.findSubtask(subtaskID)
	if !ok {
		return fmt.Errorf("%w: subtask %s", ErrNotFound, subtaskID)
	}

	if err := e.repos.Subtasks.Delete(ctx, e.userID, subtaskID); err != nil {
		return wrapGatewayError("failed to delete subtask", err)
	}

	subtasks := e.todos[todoIdx].Subtasks
	e.todos[todoIdx].Subtasks = append(subtasks[:subIdx], subtasks[subIdx+1:]...)
	return nil
}

// --- Tag mutations ---

func (e *Engine) CreateTag(ctx context.Context, name, color string) (model.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return model.Tag{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	created, err := e.repos.Tags.Create(ctx, model.Tag{
		UserID: e.userID,
		Name:   name,
		Color:  color,
	})
	if err != nil {
		return model.Tag{}, wrapGatewayError("failed to create tag", err)
	}

	e.tags = append(e.tags, created)
	return created, nil
}

func (e *Engine) DeleteTag(ctx context.Context, tagID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	found := false
	for _, t := range e.tags {
		if t.ID == tagID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: tag %s", ErrNotFound, tagID)
	}

	if err := e.repos.Tags.Delete(ctx, e.userID, tagID); err != nil {
		return wrapGatewayError("failed to delete tag", err)
	}

	tags := e.tags[:0]
	for _, t := range e.tags {
		if t.ID != tagID {
			tags = append(tags, t)
		}
	}
	e.tags = tags
	// Associations cascade in the gateway; mirror that here.
	for i := range e.todos {
		kept := e.todos[i].Tags[:0]
		for _, t := range e.todos[i].Tags {
			if t.ID != tagID {
				kept = append(kept, t)
			}
		}
		e.todos[i].Tags = kept
	}
	return nil
}

// SyncTodoTags reconciles a todo's tag set against the selection: one
// add-association call per newly selected tag and one remove-association call
// per deselected tag, never a wholesale rewrite.
func (e *Engine) SyncTodoTags(ctx context.Context, todoID string, tagIDs []string) ([]model.Tag, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, ok := e.findTodo(todoID)
	if !ok {
		return nil, fmt.Errorf("%w: todo %s", ErrNotFound, todoID)
	}
	selected, err := e.resolveTags(tagIDs)
	if err != nil {
		return nil, err
	}

	current := make(map[string]bool, len(e.todos[idx].Tags))
	for _, t := range e.todos[idx].Tags {
		current[t.ID] = true
	}
	want := make(map[string]bool, len(selected))
	for _, t := range selected {
		want[t.ID] = true
	}

	for id := range want {
		if !current[id] {
			if err := e.repos.Tags.AddToTodo(ctx, todoID, id); err != nil {
				return nil, wrapGatewayError("failed to add tag to todo", err)
			}
		}
	}
	for id := range current {
		if !want[id] {
			if err := e.repos.Tags.RemoveFromTodo(ctx, todoID, id); err != nil {
				return nil, wrapGatewayError("failed to remove tag from todo", err)
			}
		}
	}

	e.todos[idx].Tags = selected
	return selected, nil
}

// --- Category mutations ---

type CreateCategoryInput struct {
	Name  string
	Color string
	Icon  string
}

type UpdateCategoryInput struct {
	Name  *string
	Color *string
	Icon  *string
}

func (e *Engine) CreateCategory(ctx context.Context, input CreateCategoryInput) (model.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return model.Category{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	created, err := e.repos.Categories.Create(ctx, model.Category{
		UserID: e.userID,
		Name:   input.Name,
		Color:  input.Color,
		Icon:   input.Icon,
	})
	if err != nil {
		return model.Category{}, wrapGatewayError("failed to create category", err)
	}

	e.categories = append(e.categories, created)
	return created, nil
}

func (e *Engine) UpdateCategory(ctx context.Context, categoryID string, input UpdateCategoryInput) (model.Category, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	existing, ok := e.findCategory(categoryID)
	if !ok {
		return model.Category{}, fmt.Errorf("%w: category %s", ErrNotFound, categoryID)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return model.Category{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		existing.Name = *input.Name
	}
	if input.Color != nil {
		existing.Color = *input.Color
	}
	if input.Icon != nil {
		existing.Icon = *input.Icon
	}

	updated, err := e.repos.Categories.Update(ctx, existing)
	if err != nil {
		return model.Category{}, wrapGatewayError("failed to update category", err)
	}

	for i, c := range e.categories {
		if c.ID == categoryID {
			e.categories[i] = updated
		}
	}
	for i := range e.todos {
		if e.todos[i].CategoryID != nil && *e.todos[i].CategoryID == categoryID {
			c := updated
			e.todos[i].Category = &c
		}
	}
	return updated, nil
}

func (e *Engine) DeleteCategory(ctx context.Context, categoryID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.findCategory(categoryID); !ok {
		return fmt.Errorf("%w: category %s", ErrNotFound, categoryID)
	}

	if err := e.repos.Categories.Delete(ctx, e.userID, categoryID); err != nil {
		return wrapGatewayError("failed to delete category", err)
	}

	categories := e.categories[:0]
	for _, c := range e.categories {
		if c.ID != categoryID {
			categories = append(categories, c)
		}
	}
	e.categories = categories
	// The gateway nulls out the weak reference on dependents; mirror it.
	for i := range e.todos {
		if e.todos[i].CategoryID != nil && *e.todos[i].CategoryID == categoryID {
			e.todos[i].CategoryID = nil
			e.todos[i].Category = nil
		}
	}
	return nil
}

// --- helpers ---

func (e *Engine) findTodo(id string) (int, bool) {
	for i, t := range e.todos {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (e *Engine) findSubtask(id string) (todoIdx, subIdx int, ok bool) {
	for i, t := range e.todos {
		for j, s := range t.Subtasks {
			if s.ID == id {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func (e *Engine) findCategory(id string) (model.Category, bool) {
	for _, c := range e.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

func (e *Engine) resolveTags(tagIDs []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		found := false
		for _, t := range e.tags {
			if t.ID == id {
				tags = append(tags, t)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: tag %s", ErrNotFound, id)
		}
	}
	return tags, nil
}

func (e *Engine) maxOrderIndex() int {
	max := 0
	for _, t := range e.todos {
		if t.OrderIndex > max {
			max = t.OrderIndex
		}
	}
	return max
}

// parseDueDate parses an RFC3339 string. nil input means "leave unchanged",
// an empty string clears the due date.
func parseDueDate(s *string) (due *time.Time, set bool, err error) {
	if s == nil {
		return nil, false, nil
	}
	if *s == "" {
		return nil, true, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, false, fmt.Errorf("%w: invalid due_date format, expected RFC3339", ErrInvalidInput)
	}
	return &t, true, nil
}

func wrapGatewayError(msg string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
