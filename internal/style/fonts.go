package style

import (
	"fmt"
	"unicode/utf8"
)

// Font pairs the canonical alphabet segments with their replacement glyphs.
// Lower and Upper must each hold exactly 26 runes, Digits exactly 10.
// An empty Upper marks a case-collapsing font: both input cases map through
// the Lower table (small caps style). An empty Digits leaves digits untouched.
type Font struct {
	Name   string
	Lower  string
	Upper  string
	Digits string
}

const (
	canonicalLower  = "abcdefghijklmnopqrstuvwxyz"
	canonicalUpper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	canonicalDigits = "0123456789"
)

// defaultFonts is the built-in font catalog, in presentation order.
// The first mixedFontCount entries also seed the mixed family.
var defaultFonts = []Font{
	{
		Name:   "bold",
		Lower:  "𝐚𝐛𝐜𝐝𝐞𝐟𝐠𝐡𝐢𝐣𝐤𝐥𝐦𝐧𝐨𝐩𝐪𝐫𝐬𝐭𝐮𝐯𝐰𝐱𝐲𝐳",
		Upper:  "𝐀𝐁𝐂𝐃𝐄𝐅𝐆𝐇𝐈𝐉𝐊𝐋𝐌𝐍𝐎𝐏𝐐𝐑𝐒𝐓𝐔𝐕𝐖𝐗𝐘𝐙",
		Digits: "𝟎𝟏𝟐𝟑𝟒𝟓𝟔𝟕𝟖𝟗",
	},
	{
		Name:  "italic",
		Lower: "𝑎𝑏𝑐𝑑𝑒𝑓𝑔ℎ𝑖𝑗𝑘𝑙𝑚𝑛𝑜𝑝𝑞𝑟𝑠𝑡𝑢𝑣𝑤𝑥𝑦𝑧",
		Upper: "𝐴𝐵𝐶𝐷𝐸𝐹𝐺𝐻𝐼𝐽𝐾𝐿𝑀𝑁𝑂𝑃𝑄𝑅𝑆𝑇𝑈𝑉𝑊𝑋𝑌𝑍",
	},
	{
		Name:  "bold-italic",
		Lower: "𝒂𝒃𝒄𝒅𝒆𝒇𝒈𝒉𝒊𝒋𝒌𝒍𝒎𝒏𝒐𝒑𝒒𝒓𝒔𝒕𝒖𝒗𝒘𝒙𝒚𝒛",
		Upper: "𝑨𝑩𝑪𝑫𝑬𝑭𝑮𝑯𝑰𝑱𝑲𝑳𝑴𝑵𝑶𝑷𝑸𝑹𝑺𝑻𝑼𝑽𝑾𝑿𝒀𝒁",
	},
	{
		Name:  "script",
		Lower: "𝓪𝓫𝓬𝓭𝓮𝓯𝓰𝓱𝓲𝓳𝓴𝓵𝓶𝓷𝓸𝓹𝓺𝓻𝓼𝓽𝓾𝓿𝔀𝔁𝔂𝔃",
		Upper: "𝓐𝓑𝓒𝓓𝓔𝓕𝓖𝓗𝓘𝓙𝓚𝓛𝓜𝓝𝓞𝓟𝓠𝓡𝓢𝓣𝓤𝓥𝓦𝓧𝓨𝓩",
	},
	{
		Name:  "fraktur",
		Lower: "𝖆𝖇𝖈𝖉𝖊𝖋𝖌𝖍𝖎𝖏𝖐𝖑𝖒𝖓𝖔𝖕𝖖𝖗𝖘𝖙𝖚𝖛𝖜𝖝𝖞𝖟",
		Upper: "𝕬𝕭𝕮𝕯𝕰𝕱𝕲𝕳𝕴𝕵𝕶𝕷𝕸𝕹𝕺𝕻𝕼𝕽𝕾𝕿𝖀𝖁𝖂𝖃𝖄𝖅",
	},
	{
		Name:   "double-struck",
		Lower:  "𝕒𝕓𝕔𝕕𝕖𝕗𝕘𝕙𝕚𝕛𝕜𝕝𝕞𝕟𝕠𝕡𝕢𝕣𝕤𝕥𝕦𝕧𝕨𝕩𝕪𝕫",
		Upper:  "𝔸𝔹ℂ𝔻𝔼𝔽𝔾ℍ𝕀𝕁𝕂𝕃𝕄ℕ𝕆ℙℚℝ𝕊𝕋𝕌𝕍𝕎𝕏𝕐ℤ",
		Digits: "𝟘𝟙𝟚𝟛𝟜𝟝𝟞𝟟𝟠𝟡",
	},
	{
		Name:   "monospace",
		Lower:  "𝚊𝚋𝚌𝚍𝚎𝚏𝚐𝚑𝚒𝚓𝚔𝚕𝚖𝚗𝚘𝚙𝚚𝚛𝚜𝚝𝚞𝚟𝚠𝚡𝚢𝚣",
		Upper:  "𝙰𝙱𝙲𝙳𝙴𝙵𝙶𝙷𝙸𝙹𝙺𝙻𝙼𝙽𝙾𝙿𝚀𝚁𝚂𝚃𝚄𝚅𝚆𝚇𝚈𝚉",
		Digits: "𝟶𝟷𝟸𝟹𝟺𝟻𝟼𝟽𝟾𝟿",
	},
	{
		Name:   "sans-bold",
		Lower:  "𝗮𝗯𝗰𝗱𝗲𝗳𝗴𝗵𝗶𝗷𝗸𝗹𝗺𝗻𝗼𝗽𝗾𝗿𝘀𝘁𝘂𝘃𝘄𝘅𝘆𝘇",
		Upper:  "𝗔𝗕𝗖𝗗𝗘𝗙𝗚𝗛𝗜𝗝𝗞𝗟𝗠𝗡𝗢𝗣𝗤𝗥𝗦𝗧𝗨𝗩𝗪𝗫𝗬𝗭",
		Digits: "𝟬𝟭𝟮𝟯𝟰𝟱𝟲𝟳𝟴𝟵",
	},
	{
		Name:   "fullwidth",
		Lower:  "ａｂｃｄｅｆｇｈｉｊｋｌｍｎｏｐｑｒｓｔｕｖｗｘｙｚ",
		Upper:  "ＡＢＣＤＥＦＧＨＩＪＫＬＭＮＯＰＱＲＳＴＵＶＷＸＹＺ",
		Digits: "０１２３４５６７８９",
	},
	{
		Name:   "circled",
		Lower:  "ⓐⓑⓒⓓⓔⓕⓖⓗⓘⓙⓚⓛⓜⓝⓞⓟⓠⓡⓢⓣⓤⓥⓦⓧⓨⓩ",
		Upper:  "ⒶⒷⒸⒹⒺⒻⒼⒽⒾⒿⓀⓁⓂⓃⓄⓅⓆⓇⓈⓉⓊⓋⓌⓍⓎⓏ",
		Digits: "⓪①②③④⑤⑥⑦⑧⑨",
	},
	{
		Name:  "small-caps",
		Lower: "ᴀʙᴄᴅᴇꜰɢʜɪᴊᴋʟᴍɴᴏᴘǫʀꜱᴛᴜᴠᴡxʏᴢ",
	},
	{
		Name:  "circled-filled",
		Lower: "🅐🅑🅒🅓🅔🅕🅖🅗🅘🅙🅚🅛🅜🅝🅞🅟🅠🅡🅢🅣🅤🅥🅦🅧🅨🅩",
	},
}

// fontMap is a Font compiled into a direct rune lookup table.
type fontMap struct {
	name    string
	mapping map[rune]rune
}

// compileFont validates the table lengths and expands the font into a rune
// map. A length mismatch is a configuration error: the whole font is rejected
// rather than producing a partial substitution.
func compileFont(f Font) (*fontMap, error) {
	if n := utf8.RuneCountInString(f.Lower); n != len(canonicalLower) {
		return nil, fmt.Errorf("font %q: lower table has %d runes, want %d", f.Name, n, len(canonicalLower))
	}
	if f.Upper != "" {
		if n := utf8.RuneCountInString(f.Upper); n != len(canonicalUpper) {
			return nil, fmt.Errorf("font %q: upper table has %d runes, want %d", f.Name, n, len(canonicalUpper))
		}
	}
	if f.Digits != "" {
		if n := utf8.RuneCountInString(f.Digits); n != len(canonicalDigits) {
			return nil, fmt.Errorf("font %q: digit table has %d runes, want %d", f.Name, n, len(canonicalDigits))
		}
	}

	m := make(map[rune]rune, 62)
	lower := []rune(f.Lower)
	for i, src := range canonicalLower {
		m[src] = lower[i]
	}
	if f.Upper == "" {
		// Case-collapsing: both cases share the lower glyph set.
		for i, src := range canonicalUpper {
			m[src] = lower[i]
		}
	} else {
		upper := []rune(f.Upper)
		for i, src := range canonicalUpper {
			m[src] = upper[i]
		}
	}
	if f.Digits != "" {
		digits := []rune(f.Digits)
		for i, src := range canonicalDigits {
			m[src] = digits[i]
		}
	}

	return &fontMap{name: f.Name, mapping: m}, nil
}

// apply substitutes every covered rune and passes the rest through unchanged.
func (fm *fontMap) apply(s string) string {
	out := make([]rune, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		if repl, ok := fm.mapping[r]; ok {
			out = append(out, repl)
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}
