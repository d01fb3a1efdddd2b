package registry

// DefaultInlineEditable is the built-in allow-list for inline text editing.
var DefaultInlineEditable = []string{"Heading", "Paragraph", "Text", "Link", "Span", "Button"}

func builtins() []Definition {
	return []Definition{
		{Type: "Body", Container: true, NoDelete: true, NoDuplicate: true},
		{Type: "Box", Container: true},
		{Type: "Row", Container: true, Horizontal: true},
		{Type: "Column", Container: true},
		{Type: "Heading", InlineEditable: true, Defaults: map[string]any{"content": "Heading"}},
		{Type: "Paragraph", InlineEditable: true, Defaults: map[string]any{"content": "Paragraph"}},
		{Type: "Text", InlineEditable: true, Defaults: map[string]any{"content": "Text"}},
		{Type: "Link", InlineEditable: true, Defaults: map[string]any{"content": "Link", "href": "#"}},
		{Type: "Span", InlineEditable: true, Defaults: map[string]any{"content": "Span"}},
		{Type: "Button", InlineEditable: true, Defaults: map[string]any{"content": "Button"}},
		{Type: "Image", Defaults: map[string]any{"src": "", "alt": ""}},
		{Type: "Divider"},
	}
}
