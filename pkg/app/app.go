package app

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/standup/pkg/board"
	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/item"
	"tableflip.dev/standup/pkg/stage"
	"tableflip.dev/standup/pkg/store"
)

// Service provides high-level operations for items and stages.
// It wraps persistence and item transformations so UIs and CLIs can share logic.
type Service struct {
	Persistence store.Persistence
}

var (
	ErrNotFound      = errors.New("app: item not found")
	ErrAmbiguousID   = errors.New("app: id prefix matches more than one item")
	ErrStageNotFound = errors.New("app: stage not found")
	ErrStageExists   = errors.New("app: stage already exists")
)

// Stages returns stage metadata in board order.
func (s *Service) Stages(ctx context.Context) ([]stage.Meta, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.StagesMeta(ctx), nil
}

// Items lists every item on the board, ordered by stage then position.
func (s *Service) Items(ctx context.Context) ([]*item.Item, error) {
	return s.listAll(ctx)
}

// ItemsIn lists the items of a single stage in position order.
func (s *Service) ItemsIn(ctx context.Context, stageName string) ([]*item.Item, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.List(ctx, stageName), nil
}

// Get returns the item with the given id.
func (s *Service) Get(ctx context.Context, id string) (*item.Item, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	for _, i := range s.Persistence.ListAll(ctx) {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, ErrNotFound
}

// Resolve finds the item whose id begins with the given prefix. Listings only
// show the first characters of an id, so commands accept any unique prefix. An
// exact id always wins; otherwise the prefix has to match a single item.
func (s *Service) Resolve(ctx context.Context, idOrPrefix string) (*item.Item, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, ErrNotFound
	}
	var found *item.Item
	for _, i := range s.Persistence.ListAll(ctx) {
		if i.ID == idOrPrefix {
			return i, nil
		}
		if strings.HasPrefix(i.ID, idOrPrefix) {
			if found != nil {
				return nil, ErrAmbiguousID
			}
			found = i
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Watch(ctx)
}

// Add creates a new item at the tail of the given stage. The stage is created
// and indexed when it does not exist yet.
func (s *Service) Add(ctx context.Context, stageName string, kind glyph.Kind, title string, flag glyph.Flag) (*item.Item, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	stageName = strings.TrimSpace(stageName)
	if err := s.Persistence.EnsureStage(stageName); err != nil {
		return nil, err
	}
	i := item.New(stageName, kind, title)
	if flag != glyph.None {
		i.Flag = flag
	}
	i.Position = board.NextPosition(s.Persistence.List(ctx, stageName))
	if err := s.Persistence.Store(i); err != nil {
		return nil, err
	}
	return i, nil
}

// Edit updates the title for the item with the given id.
func (s *Service) Edit(ctx context.Context, id string, newTitle string) (*item.Item, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	for _, i := range s.Persistence.ListAll(ctx) {
		if i.ID == id {
			i.Title = newTitle
			if err := s.Persistence.Store(i); err != nil {
				return nil, err
			}
			return i, nil
		}
	}
	return nil, ErrNotFound
}

// SetKind sets the kind for the item id.
func (s *Service) SetKind(ctx context.Context, id string, kind glyph.Kind) (*item.Item, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	for _, i := range s.Persistence.ListAll(ctx) {
		if i.ID == id {
			i.Kind = kind
			if err := s.Persistence.Store(i); err != nil {
				return nil, err
			}
			return i, nil
		}
	}
	return nil, ErrNotFound
}

// SetFlag assigns the provided flag to the item id.
func (s *Service) SetFlag(ctx context.Context, id string, flag glyph.Flag) (*item.Item, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	for _, i := range s.Persistence.ListAll(ctx) {
		if i.ID == id {
			i.Flag = flag
			if err := s.Persistence.Store(i); err != nil {
				return nil, err
			}
			return i, nil
		}
	}
	return nil, ErrNotFound
}

// ToggleFlag toggles a given flag on/off for the item id. If the same flag is
// set, it clears it; otherwise it sets it.
func (s *Service) ToggleFlag(ctx context.Context, id string, flag glyph.Flag) (*item.Item, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	for _, i := range s.Persistence.ListAll(ctx) {
		if i.ID == id {
			if i.Flag == flag {
				i.Flag = glyph.None
			} else {
				i.Flag = flag
			}
			if err := s.Persistence.Store(i); err != nil {
				return nil, err
			}
			return i, nil
		}
	}
	return nil, ErrNotFound
}

// SetNotes replaces the notes for the item id.
func (s *Service) SetNotes(ctx context.Context, id string, notes string) (*item.Item, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	for _, i := range s.Persistence.ListAll(ctx) {
		if i.ID == id {
			i.Notes = notes
			if err := s.Persistence.Store(i); err != nil {
				return nil, err
			}
			return i, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes an item permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	for _, i := range s.Persistence.ListAll(ctx) {
		if i.ID == id {
			return s.Persistence.Delete(i)
		}
	}
	return ErrNotFound
}

// MoveItem reassigns the item to the target stage, recording the move in the
// item's history. Position carries over unchanged; callers that care about
// placement follow up with Reorder. Moving to the current stage is a no-op.
func (s *Service) MoveItem(ctx context.Context, id string, target string) (*item.Item, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	target = strings.TrimSpace(target)
	if err := stage.ValidateName(target); err != nil {
		return nil, err
	}
	for _, i := range s.Persistence.ListAll(ctx) {
		if i.ID != id {
			continue
		}
		if i.Stage == target {
			return i, nil
		}
		if err := s.Persistence.EnsureStage(target); err != nil {
			return nil, err
		}
		// The storage key embeds the stage, so the old record has to go
		// before the stage field changes.
		if err := s.Persistence.Delete(i); err != nil {
			return nil, err
		}
		from := i.Stage
		i.Stage = target
		i.RecordMove(from, target)
		if err := s.Persistence.Store(i); err != nil {
			return nil, err
		}
		return i, nil
	}
	return nil, ErrNotFound
}

// Reorder applies bulk position updates. Updates naming unknown items are
// skipped; the board refreshes from storage either way.
func (s *Service) Reorder(ctx context.Context, updates []board.PositionUpdate) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	if len(updates) == 0 {
		return nil
	}
	byID := make(map[string]int, len(updates))
	for _, u := range updates {
		byID[u.ItemID] = u.Position
	}
	for _, i := range s.Persistence.ListAll(ctx) {
		pos, ok := byID[i.ID]
		if !ok || i.Position == pos {
			continue
		}
		i.Position = pos
		if err := s.Persistence.Store(i); err != nil {
			return err
		}
	}
	return nil
}

// EnsureStage ensures the named stage exists even if empty.
func (s *Service) EnsureStage(ctx context.Context, stageName string) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	return s.Persistence.EnsureStage(stageName)
}

// EnsureStages ensures each stage in the slice exists.
func (s *Service) EnsureStages(ctx context.Context, stageNames []string) error {
	for _, name := range stageNames {
		if err := s.EnsureStage(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// SetStageLimit sets the advisory work-in-progress limit for a stage. A limit
// of zero means unlimited.
func (s *Service) SetStageLimit(ctx context.Context, stageName string, limit int) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	if limit < 0 {
		return errors.New("app: limit must not be negative")
	}
	for _, meta := range s.Persistence.StagesMeta(ctx) {
		if meta.Name == stageName {
			meta.Limit = limit
			return s.Persistence.SetStageMeta(meta)
		}
	}
	return ErrStageNotFound
}

// RenameStage renames a stage in place, re-keying its items and keeping its
// board order and limit.
func (s *Service) RenameStage(ctx context.Context, oldName, newName string) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == newName {
		return nil
	}
	if err := stage.ValidateName(newName); err != nil {
		return err
	}
	var found *stage.Meta
	for _, m := range s.Persistence.StagesMeta(ctx) {
		if m.Name == newName {
			return ErrStageExists
		}
		if m.Name == oldName {
			m := m
			found = &m
		}
	}
	if found == nil {
		return ErrStageNotFound
	}
	if err := s.Persistence.SetStageMeta(stage.Meta{Name: newName, Order: found.Order, Limit: found.Limit}); err != nil {
		return err
	}
	for _, i := range s.Persistence.List(ctx, oldName) {
		if err := s.Persistence.Delete(i); err != nil {
			return err
		}
		i.Stage = newName
		if err := s.Persistence.Store(i); err != nil {
			return err
		}
	}
	return s.Persistence.RemoveStage(oldName)
}

// RemoveStage deletes an empty stage from the board. Stages holding items are
// refused with store.ErrStageNotEmpty.
func (s *Service) RemoveStage(ctx context.Context, stageName string) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	return s.Persistence.RemoveStage(stageName)
}

func (s *Service) listAll(ctx context.Context) ([]*item.Item, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.ListAll(ctx), nil
}
