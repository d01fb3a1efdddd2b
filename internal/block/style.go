package block

// StyleTarget addresses one style property of one element inside a block.
type StyleTarget struct {
	ID      string // style id of the element
	Prop    string // property name
	BlockID string // owning block
}

// Valid reports whether the target names a block and a property.
func (t StyleTarget) Valid() bool {
	return t.BlockID != "" && t.Prop != ""
}
