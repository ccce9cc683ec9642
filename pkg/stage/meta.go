package stage

import "encoding/json"

// Meta describes persisted per-stage metadata. Order positions the column
// on the board; Limit is an advisory WIP limit (0 means unlimited).
type Meta struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
	Limit int    `json:"limit,omitempty"`
}

// MarshalList serialises metadata slice.
func MarshalList(metas []Meta) ([]byte, error) {
	return json.MarshalIndent(metas, "", "  ")
}

// UnmarshalList deserialises metadata slice and upgrades legacy arrays of strings.
func UnmarshalList(data []byte) ([]Meta, error) {
	if len(data) == 0 {
		return []Meta{}, nil
	}
	var metas []Meta
	if err := json.Unmarshal(data, &metas); err == nil {
		SortMetas(metas)
		return metas, nil
	}
	// Fallback for legacy format (array of strings).
	var legacy []string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	metas = make([]Meta, 0, len(legacy))
	for i, name := range legacy {
		metas = append(metas, Meta{Name: name, Order: i})
	}
	return metas, nil
}
