package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/standup/pkg/item"
	"tableflip.dev/standup/pkg/stage"
)

// ErrStageNotEmpty is returned when removing a stage that still holds items.
var ErrStageNotEmpty = errors.New("store: stage not empty")

// Persistence defines the persistence contract for board items.
type Persistence interface {
	MapAll(ctx context.Context) map[string][]*item.Item
	ListAll(ctx context.Context) []*item.Item
	List(ctx context.Context, stage string) []*item.Item
	Stages(ctx context.Context) []string
	StagesMeta(ctx context.Context) []stage.Meta
	Store(i *item.Item) error
	Delete(i *item.Item) error
	EnsureStage(name string) error
	SetStageMeta(meta stage.Meta) error
	RemoveStage(name string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (*item.Item, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	i := item.Item{}
	if err := json.Unmarshal(val, &i); err != nil {
		return nil, err
	}
	pk := keyToPathTransform(key)
	i.ID = pk.FileName
	if len(pk.Path) > 0 {
		i.Stage = fromStage(pk.Path[0])
	}
	i.Normalize()
	return &i, nil
}

func (p *persistence) MapAll(ctx context.Context) map[string][]*item.Item {
	all := make(map[string][]*item.Item, 0)
	for key := range p.d.Keys(ctx.Done()) {
		encoded, ok := stageKey(key)
		if !ok {
			continue
		}
		sk := fromStage(encoded)

		i, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}

		if s, ok := all[sk]; !ok {
			all[sk] = []*item.Item{i}
		} else {
			all[sk] = append(s, i)
		}
	}
	for key := range all {
		item.Sort(all[key])
	}
	return all
}

func (p *persistence) ListAll(ctx context.Context) []*item.Item {
	all := make([]*item.Item, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if _, ok := stageKey(key); !ok {
			continue
		}
		i, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, i)
	}
	item.Sort(all)
	return all
}

func (p *persistence) List(ctx context.Context, name string) []*item.Item {
	sk := toStage(name)
	all := make([]*item.Item, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if encoded, ok := stageKey(key); !ok || encoded != sk {
			continue
		}
		i, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, i)
	}
	item.Sort(all)
	return all
}

func (p *persistence) Store(i *item.Item) error {
	if i.Schema == "" {
		i.Schema = item.CurrentSchema
	}
	if i.ID == "" {
		i.ID = item.NewID()
	}
	key := toKey(i)
	data, err := json.Marshal(i)
	if err != nil {
		return err
	}
	if err := p.d.Write(key, data); err != nil {
		return err
	}
	return nil
}

func (p *persistence) Delete(i *item.Item) error {
	key := toKey(i)
	return p.d.Erase(key)
}

func (p *persistence) Stages(ctx context.Context) []string {
	return stage.Names(p.StagesMeta(ctx))
}

// StagesMeta merges the stage index with stage directories discovered from
// stored items, so a board copied in from elsewhere still renders. Unindexed
// stages sort after indexed ones.
func (p *persistence) StagesMeta(ctx context.Context) []stage.Meta {
	all := make(map[string]stage.Meta)
	maxOrder := -1
	if idx, err := p.loadStagesIndex(); err == nil {
		for name, meta := range idx {
			all[name] = meta
			if meta.Order > maxOrder {
				maxOrder = meta.Order
			}
		}
	} else {
		fmt.Fprintf(os.Stderr, "store: load stages index: %v\n", err)
	}

	var discovered []string
	for key := range p.d.Keys(ctx.Done()) {
		encoded, ok := stageKey(key)
		if !ok {
			continue
		}
		sk := fromStage(encoded)
		if _, ok := all[sk]; !ok {
			discovered = append(discovered, sk)
		}
	}
	sort.Strings(discovered)
	for _, name := range discovered {
		if _, ok := all[name]; ok {
			continue
		}
		maxOrder++
		all[name] = stage.Meta{Name: name, Order: maxOrder}
	}

	list := make([]stage.Meta, 0, len(all))
	for name, meta := range all {
		if meta.Name == "" {
			meta.Name = name
		}
		list = append(list, meta)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func (p *persistence) EnsureStage(name string) error {
	name = strings.TrimSpace(name)
	if err := stage.ValidateName(name); err != nil {
		return err
	}
	if p.basePath == "" {
		return errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return fmt.Errorf("store: ensure base path: %w", err)
	}
	encoded := toStage(name)
	if err := os.MkdirAll(filepath.Join(p.basePath, encoded), 0o755); err != nil {
		return fmt.Errorf("store: ensure stage directory: %w", err)
	}
	index, err := p.loadStagesIndex()
	if err != nil {
		return fmt.Errorf("store: load stages index: %w", err)
	}
	if _, ok := index[name]; ok {
		return nil
	}
	next := 0
	for _, meta := range index {
		if meta.Order >= next {
			next = meta.Order + 1
		}
	}
	index[name] = stage.Meta{Name: name, Order: next}
	if err := p.saveStagesIndex(index); err != nil {
		return fmt.Errorf("store: save stages index: %w", err)
	}
	return nil
}

func (p *persistence) SetStageMeta(meta stage.Meta) error {
	name := strings.TrimSpace(meta.Name)
	if err := stage.ValidateName(name); err != nil {
		return err
	}
	index, err := p.loadStagesIndex()
	if err != nil {
		return fmt.Errorf("store: load stages index: %w", err)
	}
	meta.Name = name
	index[name] = meta
	if err := p.saveStagesIndex(index); err != nil {
		return fmt.Errorf("store: save stages index: %w", err)
	}
	return nil
}

func (p *persistence) RemoveStage(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("store: stage name required")
	}
	sk := toStage(name)
	for key := range p.d.Keys(context.Background().Done()) {
		if encoded, ok := stageKey(key); ok && encoded == sk {
			return ErrStageNotEmpty
		}
	}
	index, err := p.loadStagesIndex()
	if err != nil {
		return fmt.Errorf("store: load stages index: %w", err)
	}
	delete(index, name)
	if err := p.saveStagesIndex(index); err != nil {
		return fmt.Errorf("store: save stages index: %w", err)
	}
	// Best effort; the directory may never have been created.
	_ = os.Remove(filepath.Join(p.basePath, sk))
	return nil
}

const stagesIndexFile = ".stages.json"

func (p *persistence) stagesIndexPath() string {
	return filepath.Join(p.basePath, stagesIndexFile)
}

func (p *persistence) loadStagesIndex() (map[string]stage.Meta, error) {
	if p.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, err
	}
	path := p.stagesIndexPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]stage.Meta), nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return make(map[string]stage.Meta), nil
	}
	list, err := stage.UnmarshalList(data)
	if err != nil {
		return nil, err
	}
	index := make(map[string]stage.Meta, len(list))
	for _, meta := range list {
		name := strings.TrimSpace(meta.Name)
		if name == "" {
			continue
		}
		meta.Name = name
		index[name] = meta
	}
	return index, nil
}

func (p *persistence) saveStagesIndex(idx map[string]stage.Meta) error {
	if p.basePath == "" {
		return errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return err
	}
	list := make([]stage.Meta, 0, len(idx))
	for name, meta := range idx {
		if meta.Name == "" {
			meta.Name = name
		}
		list = append(list, meta)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].Name < list[j].Name
	})
	data, err := stage.MarshalList(list)
	if err != nil {
		return err
	}
	path := p.stagesIndexPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

// stageKey extracts the encoded stage segment from a diskv key. Loose files
// in the base directory (the stages index, temp files) carry no stage segment
// and report false.
func stageKey(key string) (string, bool) {
	pk := keyToPathTransform(key)
	if len(pk.Path) == 0 || pk.Path[0] == "" {
		return "", false
	}
	return pk.Path[0], true
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `stage-id`. Ids contain no separator characters, so the
// transform round-trips.
func toKey(i *item.Item) string {
	if i.ID == "" {
		i.ID = item.NewID()
	}
	return fmt.Sprintf("%s-%s", toStage(i.Stage), i.ID)
}

func toStage(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func fromStage(s string) string {
	name, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("fromStage: %s", err)
	}
	return string(name)
}
