package style

import "fmt"

// Mixed family seed sizes: the cross product of the first mixedFontCount
// fonts and the first mixedFrameCount decorative frames, fonts outer and
// frames inner, in declared slice order. The ordering is part of the catalog
// contract so that mixed style N is stable across builds.
const (
	mixedFontCount  = 8
	mixedFrameCount = 6
)

// defaultDecorative holds the decorative frame templates, in presentation
// order. Each contains the placeholder exactly once.
var defaultDecorative = []string{
	"꧁{}꧂",
	"꧁༺{}༻꧂",
	"★彡 {} 彡★",
	"•´¯`•. {} .•´¯`•",
	"「{}」",
	"♡ {} ♡",
	"×°×ø {} ø×°×",
	"░▒▓█ {} █▓▒░",
	"✿.｡.:* {} *.:｡.✿",
	"—(••÷[ {} ]÷••)—",
	"¤¸¸.•´¯`•¸¸.•..>> {} <<..•.¸¸•´¯`•.¸¸¤",
	"•]••´º´•» {} «•´º´••[•",
	"*´¯`*.¸¸.*´¯`* {} *´¯`*.¸¸.*´¯`*",
	"(¯´•._.• {} •._.•´¯)",
	"▌│█║▌║▌║ {} ║▌║▌║█│▌",
	"◦•●◉✿ {} ✿◉●•◦",
	"╰☆☆ {} ☆☆╮",
	"✦•······················•✦ {} ✦•······················•✦",
	"»—— {} ——«",
	"⊹⊱✫⊰⊹ {} ⊹⊱✫⊰⊹",
	"ஜ۩۞۩ஜ {} ஜ۩۞۩ஜ",
	"๑۩۩.. {} ..۩۩๑",
	"【{}】",
	"《 {} 》",
}

// defaultArt holds the text-art templates. Same mechanics as decorative,
// separate catalog.
var defaultArt = []string{
	"(づ｡◕‿‿◕｡)づ {}",
	"ʕ•ᴥ•ʔ {} ʕ•ᴥ•ʔ",
	"♪♫•*¨*•.¸¸ {} ¸¸.•*¨*•♫♪",
	"(ノ◕ヮ◕)ノ*:・ﾟ✧ {}",
	"≧◠‿◠≦✌ {}",
	"(◕‿◕✿) {}",
	"✞ {} ✞",
	"⚔️ {} ⚔️",
	"🔥 {} 🔥",
	"👑 {} 👑",
	"⫷ {} ⫸",
	"✧༺ {} ༻✧",
	"╚»★«╝ {} ╚»★«╝",
	"▁ ▂ ▄ ▅ ▆ ▇ █ {} █ ▇ ▆ ▅ ▄ ▂ ▁",
	"๖ۣۜ {}",
	"⋆｡‧˚ʚ {} ɞ˚‧｡⋆",
}

// Catalog is the fixed configuration data enumerating the available styles
// per family. Built once at startup; read-only afterwards.
type Catalog struct {
	fonts      []Font
	decorative []string
	art        []string
	mixed      []Descriptor
}

// NewCatalog validates the built-in fonts and templates and builds the mixed
// family. A malformed entry is a configuration error and aborts construction.
func NewCatalog() (*Catalog, *Engine, error) {
	return buildCatalog(defaultFonts, defaultDecorative, defaultArt)
}

func buildCatalog(fonts []Font, decorative, art []string) (*Catalog, *Engine, error) {
	engine, err := NewEngine(fonts)
	if err != nil {
		return nil, nil, err
	}
	for _, tpl := range decorative {
		if _, err := applyTemplate("x", tpl); err != nil {
			return nil, nil, err
		}
	}
	for _, tpl := range art {
		if _, err := applyTemplate("x", tpl); err != nil {
			return nil, nil, err
		}
	}

	c := &Catalog{fonts: fonts, decorative: decorative, art: art}

	nFonts := min(mixedFontCount, len(fonts))
	nFrames := min(mixedFrameCount, len(decorative))
	c.mixed = make([]Descriptor, 0, nFonts*nFrames)
	for _, f := range fonts[:nFonts] {
		for _, tpl := range decorative[:nFrames] {
			c.mixed = append(c.mixed, MixedStyle(f.Name, tpl))
		}
	}

	return c, engine, nil
}

// Styles returns the descriptors of one family, in catalog order. Unknown
// families yield an empty slice.
func (c *Catalog) Styles(fam Family) []Descriptor {
	switch fam {
	case FamilyFont:
		out := make([]Descriptor, len(c.fonts))
		for i, f := range c.fonts {
			out[i] = FontStyle(f.Name)
		}
		return out
	case FamilyDecorative:
		out := make([]Descriptor, len(c.decorative))
		for i, tpl := range c.decorative {
			out[i] = DecorativeStyle(tpl)
		}
		return out
	case FamilyArt:
		out := make([]Descriptor, len(c.art))
		for i, tpl := range c.art {
			out[i] = ArtStyle(tpl)
		}
		return out
	case FamilyMixed:
		out := make([]Descriptor, len(c.mixed))
		copy(out, c.mixed)
		return out
	default:
		return nil
	}
}

// Style returns the descriptor at a catalog index within a family.
func (c *Catalog) Style(fam Family, index int) (Descriptor, error) {
	styles := c.Styles(fam)
	if index < 0 || index >= len(styles) {
		return Descriptor{}, fmt.Errorf("style: no %s style at index %d", fam, index)
	}
	return styles[index], nil
}

// Label names a style for usage tracking: the font name for font styles, a
// positional label for template styles.
func (c *Catalog) Label(fam Family, index int) string {
	switch fam {
	case FamilyFont:
		if index >= 0 && index < len(c.fonts) {
			return c.fonts[index].Name
		}
	case FamilyDecorative:
		return fmt.Sprintf("frame#%d", index)
	case FamilyArt:
		return fmt.Sprintf("art#%d", index)
	case FamilyMixed:
		if index >= 0 && index < len(c.mixed) {
			return fmt.Sprintf("%s+frame#%d", c.mixed[index].FontName, index%mixedFrameCount)
		}
	}
	return fmt.Sprintf("%s#%d", fam, index)
}
