package agent

// Icon names the glyph shown next to an agent. The set is closed; names that
// are not listed decode to IconBot.
type Icon string

const (
	IconBot         Icon = "bot"
	IconShoppingBag Icon = "shoppingBag"
	IconFileText    Icon = "fileText"
	IconMap         Icon = "map"
	IconCode        Icon = "code"
	IconHeartPulse  Icon = "heartPulse"
	IconBarChart    Icon = "barChart2"
	IconUtensils    Icon = "utensils"
	IconBookOpen    Icon = "bookOpen"
	IconPlane       Icon = "plane"
	IconSparkles    Icon = "sparkles"
	IconSearch      Icon = "search"
)

// Glyph is what a renderer draws for an icon.
type Glyph struct {
	Symbol string
	Label  string
}

var glyphs = map[Icon]Glyph{
	IconBot:         {Symbol: "🤖", Label: "Bot"},
	IconShoppingBag: {Symbol: "🛍️", Label: "Shopping bag"},
	IconFileText:    {Symbol: "📄", Label: "Document"},
	IconMap:         {Symbol: "🗺️", Label: "Map"},
	IconCode:        {Symbol: "💻", Label: "Code"},
	IconHeartPulse:  {Symbol: "💓", Label: "Heart pulse"},
	IconBarChart:    {Symbol: "📊", Label: "Bar chart"},
	IconUtensils:    {Symbol: "🍴", Label: "Utensils"},
	IconBookOpen:    {Symbol: "📖", Label: "Open book"},
	IconPlane:       {Symbol: "✈️", Label: "Plane"},
	IconSparkles:    {Symbol: "✨", Label: "Sparkles"},
	IconSearch:      {Symbol: "🔍", Label: "Search"},
}

// ParseIcon accepts both camelCase ("shoppingBag") and PascalCase
// ("ShoppingBag") names.
func ParseIcon(name string) Icon {
	if name == "" {
		return IconBot
	}
	if _, ok := glyphs[Icon(name)]; ok {
		return Icon(name)
	}
	lowered := Icon(lowerFirst(name))
	if _, ok := glyphs[lowered]; ok {
		return lowered
	}
	return IconBot
}

func (i *Icon) UnmarshalText(b []byte) error {
	*i = ParseIcon(string(b))
	return nil
}

// Glyph returns the renderer entry for the icon.
func (i Icon) Glyph() Glyph {
	if g, ok := glyphs[i]; ok {
		return g
	}
	return glyphs[IconBot]
}

func lowerFirst(s string) string {
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] += 'a' - 'A'
	}
	return string(r)
}
