package components

// Component categories used by the built-in set.
const (
	CategoryLayout   = "layout"
	CategoryContent  = "content"
	CategoryInput    = "input"
	CategoryFeedback = "feedback"
	CategoryData     = "data"
)

var builtins = []Definition{
	{Type: "Container", Category: CategoryLayout, Description: "Generic block container", Container: true},
	{Type: "Row", Category: CategoryLayout, Description: "Horizontal flex layout", Container: true},
	{Type: "Column", Category: CategoryLayout, Description: "Vertical flex layout", Container: true},
	{Type: "Card", Category: CategoryLayout, Description: "Bordered surface with optional header", Container: true},
	{Type: "Tabs", Category: CategoryLayout, Description: "Tabbed panels", Container: true},
	{Type: "Modal", Category: CategoryLayout, Description: "Overlay dialog", Container: true},
	{Type: "Text", Category: CategoryContent, Description: "Inline or block text"},
	{Type: "Heading", Category: CategoryContent, Description: "Section title"},
	{Type: "Image", Category: CategoryContent, Description: "Raster or vector image"},
	{Type: "Icon", Category: CategoryContent, Description: "Named icon glyph"},
	{Type: "Link", Category: CategoryContent, Description: "Navigational link"},
	{Type: "Divider", Category: CategoryContent, Description: "Horizontal rule"},
	{Type: "Button", Category: CategoryInput, Description: "Clickable action trigger"},
	{Type: "Input", Category: CategoryInput, Description: "Single-line text field"},
	{Type: "TextArea", Category: CategoryInput, Description: "Multi-line text field"},
	{Type: "Select", Category: CategoryInput, Description: "Option picker"},
	{Type: "Checkbox", Category: CategoryInput, Description: "Boolean check box"},
	{Type: "Switch", Category: CategoryInput, Description: "Boolean toggle"},
	{Type: "Form", Category: CategoryInput, Description: "Field group with submit handling", Container: true},
	{Type: "List", Category: CategoryData, Description: "Repeated items", Container: true},
	{Type: "Table", Category: CategoryData, Description: "Tabular data", Platforms: []string{"web", "mobile-web"}},
	{Type: "Chart", Category: CategoryData, Description: "Data visualisation", Platforms: []string{"web", "mobile-web", "mobile-native"}},
	{Type: "Alert", Category: CategoryFeedback, Description: "Inline status message"},
	{Type: "Badge", Category: CategoryFeedback, Description: "Small status label"},
	{Type: "Progress", Category: CategoryFeedback, Description: "Progress indicator"},
	{Type: "Spinner", Category: CategoryFeedback, Description: "Loading indicator"},
	{Type: "Video", Category: CategoryContent, Description: "Embedded video player", Platforms: []string{"web", "mobile-web", "mobile-native"}},
	{Type: "Map", Category: CategoryData, Description: "Interactive map", Platforms: []string{"web", "mobile-native"}},
}

// NewDefaultRegistry returns a registry with the built-in component set
// registered.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, def := range builtins {
		reg.MustRegister(def)
	}
	return reg
}

// Builtins returns a copy of the built-in definitions.
func Builtins() []Definition {
	out := make([]Definition, len(builtins))
	for idx, def := range builtins {
		def.Platforms = append([]string(nil), def.Platforms...)
		out[idx] = def
	}
	return out
}
