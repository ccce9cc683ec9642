// Package mcp provides the Model Context Protocol server integration for standup.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/standup/pkg/app"
	"tableflip.dev/standup/pkg/board"
	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/item"
	"tableflip.dev/standup/pkg/store"
)

// Service coordinates board operations that are shared by the MCP server.
type Service struct {
	app *app.Service
}

// ErrItemNotFound is returned when an item cannot be located on the board.
var ErrItemNotFound = errors.New("item not found")

// AddItemOptions captures the parameters used to create a new item.
type AddItemOptions struct {
	Stage string
	Title string
	Kind  glyph.Kind
	Flag  glyph.Flag
	Notes string
}

// StageSummary describes a stage and basic aggregate metadata.
type StageSummary struct {
	Name         string `json:"name"`
	Order        int    `json:"order"`
	Limit        int    `json:"limit,omitempty"`
	ItemCount    int    `json:"itemCount"`
	BlockedCount int    `json:"blockedCount"`
	OverLimit    bool   `json:"overLimit,omitempty"`
}

// ItemDTO is a transport-friendly projection of an item.
type ItemDTO struct {
	ID          string `json:"id"`
	Stage       string `json:"stage"`
	Position    int    `json:"position"`
	Title       string `json:"title,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Kind        string `json:"kind"`
	KindSymbol  string `json:"kindSymbol"`
	Flag        string `json:"flag"`
	FlagSymbol  string `json:"flagSymbol,omitempty"`
	IsPriority  bool   `json:"isPriority"`
	IsBlocked   bool   `json:"isBlocked"`
	Age         string `json:"age,omitempty"`
	CreatedISO  string `json:"created,omitempty"`
	CreatedUnix int64  `json:"createdUnix,omitempty"`
	MovedISO    string `json:"moved,omitempty"`
	MovedUnix   int64  `json:"movedUnix,omitempty"`
}

// ReportDTO summarizes stage traffic inside a time window.
type ReportDTO struct {
	Since    string             `json:"since"`
	Until    string             `json:"until"`
	Total    int                `json:"total"`
	Sections []ReportSectionDTO `json:"sections"`
}

// ReportSectionDTO groups moved items under the stage they landed in.
type ReportSectionDTO struct {
	Stage string    `json:"stage"`
	Items []ItemDTO `json:"items"`
}

// NewService builds a service wrapper using the provided persistence layer.
func NewService(p store.Persistence) *Service {
	return &Service{app: &app.Service{Persistence: p}}
}

// ListStages returns summaries for every stage on the board, in board order.
func (s *Service) ListStages(ctx context.Context) ([]StageSummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	metas, err := s.app.Stages(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]StageSummary, 0, len(metas))
	for _, meta := range metas {
		items, err := s.app.ItemsIn(ctx, meta.Name)
		if err != nil {
			return nil, err
		}
		blocked := 0
		for _, i := range items {
			if i.Flag == glyph.Blocked {
				blocked++
			}
		}
		summaries = append(summaries, StageSummary{
			Name:         meta.Name,
			Order:        meta.Order,
			Limit:        meta.Limit,
			ItemCount:    len(items),
			BlockedCount: blocked,
			OverLimit:    meta.Limit > 0 && len(items) > meta.Limit,
		})
	}

	return summaries, nil
}

// ListItems gathers the items of the requested stage in position order.
func (s *Service) ListItems(ctx context.Context, stageName string) ([]ItemDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if stageName == "" {
		return nil, errors.New("stage is required")
	}

	items, err := s.app.ItemsIn(ctx, stageName)
	if err != nil {
		return nil, err
	}
	return toDTOs(items), nil
}

// ListAllItems returns every item on the board, ordered by stage then position.
func (s *Service) ListAllItems(ctx context.Context) ([]ItemDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	items, err := s.app.Items(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(items), nil
}

// AddItem creates a new item at the tail of a stage.
func (s *Service) AddItem(ctx context.Context, opts AddItemOptions) (*ItemDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if opts.Stage == "" {
		return nil, errors.New("stage is required")
	}
	if strings.TrimSpace(opts.Title) == "" {
		return nil, errors.New("title is required")
	}

	added, err := s.app.Add(ctx, opts.Stage, opts.Kind, opts.Title, opts.Flag)
	if err != nil {
		return nil, err
	}
	if opts.Notes != "" {
		if added, err = s.app.SetNotes(ctx, added.ID, opts.Notes); err != nil {
			return nil, err
		}
	}

	dto := toDTO(added)
	return &dto, nil
}

// MoveItem sends an item to the end of another stage, renumbering the stage
// the same way a board drop does.
func (s *Service) MoveItem(ctx context.Context, id, targetStage string) (*ItemDTO, error) {
	if targetStage == "" {
		return nil, errors.New("target stage is required")
	}

	found, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}

	moved, err := s.app.MoveItem(ctx, found.ID, targetStage)
	if err != nil {
		return nil, err
	}

	all, err := s.app.ItemsIn(ctx, targetStage)
	if err != nil {
		return nil, err
	}
	rest := make([]*item.Item, 0, len(all))
	for _, a := range all {
		if a.ID != moved.ID {
			rest = append(rest, a)
		}
	}
	ordered := board.Splice(rest, moved, len(rest))
	if err := s.app.Reorder(ctx, board.Renumber(ordered)); err != nil {
		return nil, err
	}

	dto := toDTO(moved)
	return &dto, nil
}

// UpdateTitle rewrites the item title.
func (s *Service) UpdateTitle(ctx context.Context, id, title string) (*ItemDTO, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title is required")
	}

	found, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.app.Edit(ctx, found.ID, title)
	if err != nil {
		return nil, err
	}
	dto := toDTO(updated)
	return &dto, nil
}

// UpdateKind changes the kind glyph for an item.
func (s *Service) UpdateKind(ctx context.Context, id string, kind glyph.Kind) (*ItemDTO, error) {
	found, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.app.SetKind(ctx, found.ID, kind)
	if err != nil {
		return nil, err
	}
	dto := toDTO(updated)
	return &dto, nil
}

// UpdateFlag applies a new flag to an item.
func (s *Service) UpdateFlag(ctx context.Context, id string, flag glyph.Flag) (*ItemDTO, error) {
	found, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.app.SetFlag(ctx, found.ID, flag)
	if err != nil {
		return nil, err
	}
	dto := toDTO(updated)
	return &dto, nil
}

// UpdateNotes replaces the notes body for an item.
func (s *Service) UpdateNotes(ctx context.Context, id, notes string) (*ItemDTO, error) {
	found, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.app.SetNotes(ctx, found.ID, notes)
	if err != nil {
		return nil, err
	}
	dto := toDTO(updated)
	return &dto, nil
}

// DeleteItem removes an item permanently and returns its last known state.
func (s *Service) DeleteItem(ctx context.Context, id string) (*ItemDTO, error) {
	found, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(found)
	if err := s.app.Delete(ctx, found.ID); err != nil {
		return nil, err
	}
	return &dto, nil
}

// SearchItems performs a substring match across stage names, titles, and notes.
func (s *Service) SearchItems(ctx context.Context, query string, limit int) ([]ItemDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return []ItemDTO{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	all, err := s.app.Items(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ItemDTO, 0, limit)
	for _, i := range all {
		if len(results) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(i.Title), q) ||
			strings.Contains(strings.ToLower(i.Notes), q) ||
			strings.Contains(strings.ToLower(i.Stage), q) {
			results = append(results, toDTO(i))
		}
	}
	return results, nil
}

// ItemByID locates an item by id or unique id prefix.
func (s *Service) ItemByID(ctx context.Context, id string) (*ItemDTO, error) {
	found, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(found)
	return &dto, nil
}

// CreateStage appends a stage to the board. Existing stages are left alone.
func (s *Service) CreateStage(ctx context.Context, name string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("stage name is required")
	}
	return s.app.EnsureStage(ctx, name)
}

// SetStageLimit sets the advisory WIP limit for a stage. Zero clears it.
func (s *Service) SetStageLimit(ctx context.Context, name string, limit int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if limit < 0 {
		return errors.New("limit must be zero or positive")
	}
	return s.app.SetStageLimit(ctx, name, limit)
}

// RenameStage renames a stage, carrying its items along.
func (s *Service) RenameStage(ctx context.Context, oldName, newName string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.app.RenameStage(ctx, oldName, newName)
}

// RemoveStage deletes a stage. Stages still holding items are refused.
func (s *Service) RemoveStage(ctx context.Context, name string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.app.RemoveStage(ctx, name)
}

// Report summarizes which items entered which stage during the window that
// ends now.
func (s *Service) Report(ctx context.Context, window time.Duration) (*ReportDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if window <= 0 {
		return nil, errors.New("window must be greater than zero")
	}

	until := time.Now()
	result, err := s.app.Report(ctx, until.Add(-window), until)
	if err != nil {
		return nil, err
	}

	dto := &ReportDTO{
		Since: item.FormatTime(result.Since),
		Until: item.FormatTime(result.Until),
		Total: result.Total,
	}
	for _, section := range result.Sections {
		out := ReportSectionDTO{Stage: section.Stage}
		for _, ri := range section.Items {
			out.Items = append(out.Items, toDTO(ri.Item))
		}
		dto.Sections = append(dto.Sections, out)
	}
	return dto, nil
}

// StaleItems lists items that have sat in their stage longer than the window,
// oldest first. Items in the final stage never count as stale.
func (s *Service) StaleItems(ctx context.Context, window time.Duration) ([]ItemDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if window <= 0 {
		return nil, errors.New("window must be greater than zero")
	}

	stale, err := s.app.Stale(ctx, time.Now().Add(-window))
	if err != nil {
		return nil, err
	}
	out := make([]ItemDTO, 0, len(stale))
	for _, st := range stale {
		out = append(out, toDTO(st.Item))
	}
	return out, nil
}

func (s *Service) ready() error {
	if s == nil || s.app == nil || s.app.Persistence == nil {
		return errors.New("persistence is not configured")
	}
	return nil
}

func (s *Service) findItem(ctx context.Context, id string) (*item.Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.New("id is required")
	}

	found, err := s.app.Resolve(ctx, id)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		return nil, err
	}
	return found, nil
}

func toDTOs(items []*item.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, i := range items {
		out = append(out, toDTO(i))
	}
	return out
}

func toDTO(i *item.Item) ItemDTO {
	kindGlyph := i.Kind.Glyph()
	flagGlyph := i.Flag.Glyph()

	dto := ItemDTO{
		ID:         i.ID,
		Stage:      i.Stage,
		Position:   i.Position,
		Title:      i.Title,
		Notes:      i.Notes,
		Kind:       kindGlyph.Meaning,
		KindSymbol: kindGlyph.Symbol,
		Flag:       flagGlyph.Meaning,
		FlagSymbol: strings.TrimSpace(flagGlyph.Symbol),
		IsPriority: i.Flag == glyph.Priority,
		IsBlocked:  i.Flag == glyph.Blocked,
		Age:        i.Age(),
	}
	if !i.Created.IsZero() {
		dto.CreatedISO = item.FormatTime(i.Created.Time)
		dto.CreatedUnix = i.Created.Unix()
	}
	if moved, ok := i.LastMoveTime(); ok {
		dto.MovedISO = item.FormatTime(moved)
		dto.MovedUnix = moved.Unix()
	}
	return dto
}

// ParseKind resolves a kind name or key, using fallback for empty input.
func ParseKind(input string, fallback glyph.Kind) (glyph.Kind, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return fallback, nil
	}
	return glyph.ParseKind(trimmed)
}

// ParseFlag resolves a flag name or key, using fallback for empty input.
func ParseFlag(input string, fallback glyph.Flag) (glyph.Flag, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return fallback, nil
	}
	return glyph.ParseFlag(trimmed)
}
