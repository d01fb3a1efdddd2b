package block

import "encoding/json"

// Record is the flat, serialisable form of a block handed to persistence.
type Record struct {
	ID             string         `json:"id"`
	ParentID       *string        `json:"parentId"`
	Type           string         `json:"type"`
	Name           string         `json:"name,omitempty"`
	Properties     map[string]any `json:"properties,omitempty"`
	LibraryBlockID string         `json:"libraryBlockId,omitempty"`
}

// ToRecord flattens a block.
func ToRecord(b Block) Record {
	r := Record{
		ID:             b.ID,
		Type:           b.Type,
		Name:           b.Name,
		Properties:     b.Clone().Properties,
		LibraryBlockID: b.LibraryBlockID,
	}
	if b.ParentID != "" {
		parent := b.ParentID
		r.ParentID = &parent
	}
	return r
}

// FromRecord rebuilds a block from its flat form.
func FromRecord(r Record) Block {
	b := Block{
		ID:             r.ID,
		Type:           r.Type,
		Name:           r.Name,
		Properties:     r.Properties,
		LibraryBlockID: r.LibraryBlockID,
	}
	if r.ParentID != nil {
		b.ParentID = *r.ParentID
	}
	return b.Clone()
}

// MarshalRecords encodes records as a JSON array.
func MarshalRecords(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(records)
}

// UnmarshalRecords decodes a JSON array of records.
func UnmarshalRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Reidentify gives every block in a subtree a fresh id, rewriting internal parent
// references. Blocks whose parent is outside the set keep their ParentID.
func Reidentify(blocks []Block) []Block {
	ids := make(map[string]string, len(blocks))
	for _, b := range blocks {
		ids[b.ID] = NewID()
	}
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		c := b.Clone()
		c.ID = ids[b.ID]
		if mapped, ok := ids[b.ParentID]; ok {
			c.ParentID = mapped
		}
		out[i] = c
	}
	return out
}
