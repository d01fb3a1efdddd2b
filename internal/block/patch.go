package block

import "fmt"

// Reserved patch keys. Everything else addresses Properties.
const (
	KeyID             = "_id"
	KeyParent         = "_parent"
	KeyType           = "_type"
	KeyName           = "_name"
	KeyLibraryBlockID = "_libBlockId"
)

// Patch is a partial update. A nil value removes the property (or clears the field
// for reserved keys).
type Patch map[string]any

// Validate rejects keys that would change the identity or position of a block.
func (p Patch) Validate() error {
	for k := range p {
		switch k {
		case KeyID, KeyParent, KeyType:
			return fmt.Errorf("%w: patch cannot set %q", ErrStructuralViolation, k)
		case KeyName, KeyLibraryBlockID:
			if v := p[k]; v != nil {
				if _, ok := v.(string); !ok {
					return fmt.Errorf("%w: %q must be a string, got %T", ErrStructuralViolation, k, v)
				}
			}
		}
	}
	return nil
}

// Apply returns a copy of b with the patch applied. The patch must be valid.
func (p Patch) Apply(b Block) Block {
	out := b.Clone()
	for k, v := range p {
		switch k {
		case KeyName:
			out.Name, _ = v.(string)
		case KeyLibraryBlockID:
			out.LibraryBlockID, _ = v.(string)
		default:
			if v == nil {
				delete(out.Properties, k)
				continue
			}
			if out.Properties == nil {
				out.Properties = make(map[string]any)
			}
			out.Properties[k] = cloneValue(v)
		}
	}
	return out
}
