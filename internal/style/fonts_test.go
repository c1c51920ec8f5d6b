package style

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFontsCompile(t *testing.T) {
	for _, f := range defaultFonts {
		f := f
		t.Run(f.Name, func(t *testing.T) {
			fm, err := compileFont(f)
			require.NoError(t, err)
			require.NotNil(t, fm)

			// Every covered rune must be replaced, length preserved.
			out := fm.apply(canonicalLower + canonicalUpper)
			assert.Equal(t, 52, utf8.RuneCountInString(out))
		})
	}
}

func TestCompileFontRejectsBadTables(t *testing.T) {
	tests := []struct {
		name string
		font Font
	}{
		{"short lower", Font{Name: "bad", Lower: "abc"}},
		{"short upper", Font{Name: "bad", Lower: canonicalLower, Upper: "AB"}},
		{"short digits", Font{Name: "bad", Lower: canonicalLower, Digits: "012"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileFont(tt.font)
			assert.Error(t, err)
		})
	}
}

// Two-case fonts are bijective over the canonical alphabet: applying the
// inverse mapping recovers the input.
func TestFontSubstitutionIsInvertible(t *testing.T) {
	for _, f := range defaultFonts {
		if f.Upper == "" {
			continue // case-collapsing fonts are deliberately not injective
		}
		f := f
		t.Run(f.Name, func(t *testing.T) {
			fm, err := compileFont(f)
			require.NoError(t, err)

			inverse := make(map[rune]rune, len(fm.mapping))
			for src, dst := range fm.mapping {
				prev, dup := inverse[dst]
				require.False(t, dup, "glyph %q maps from both %q and %q", dst, prev, src)
				inverse[dst] = src
			}

			in := canonicalLower + canonicalUpper
			if f.Digits != "" {
				in += canonicalDigits
			}
			styled := fm.apply(in)
			back := make([]rune, 0, utf8.RuneCountInString(styled))
			for _, r := range styled {
				src, ok := inverse[r]
				require.True(t, ok, "unmapped glyph %q", r)
				back = append(back, src)
			}
			assert.Equal(t, in, string(back))
		})
	}
}

func TestFontPassthroughKeepsPosition(t *testing.T) {
	fm, err := compileFont(defaultFonts[0]) // bold
	require.NoError(t, err)

	out := []rune(fm.apply("a.b,c"))
	require.Len(t, out, 5)
	assert.Equal(t, '.', out[1])
	assert.Equal(t, ',', out[3])
}
