// Package style renders a short name under cosmetic Unicode transformations:
// character-substitution fonts, decorative frames, text art, and combinations
// of the two. Rendering is pure; the catalogs are fixed data compiled once.
package style

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholder marks the insertion point inside decorative and art templates.
// Every template must contain it exactly once.
const Placeholder = "{}"

// Family identifies one of the four transformation families.
type Family string

const (
	FamilyFont       Family = "font"
	FamilyDecorative Family = "decorative"
	FamilyArt        Family = "art"
	FamilyMixed      Family = "mixed"
)

// Descriptor is a tagged choice of family plus the parameters to apply it.
// Font styles carry FontName; Decorative and Art carry Template; Mixed
// carries both.
type Descriptor struct {
	Family   Family
	FontName string
	Template string
}

// FontStyle selects a character-substitution font by name.
func FontStyle(name string) Descriptor {
	return Descriptor{Family: FamilyFont, FontName: name}
}

// DecorativeStyle wraps the name in a decorative frame template.
func DecorativeStyle(template string) Descriptor {
	return Descriptor{Family: FamilyDecorative, Template: template}
}

// ArtStyle wraps the name in a text-art template. Mechanically identical to
// DecorativeStyle; the catalogs are distinct.
func ArtStyle(template string) Descriptor {
	return Descriptor{Family: FamilyArt, Template: template}
}

// MixedStyle applies a font, then wraps the result in a frame template.
func MixedStyle(fontName, template string) Descriptor {
	return Descriptor{Family: FamilyMixed, FontName: fontName, Template: template}
}

// Configuration errors. These indicate a broken catalog entry, never bad user
// input; Render fails closed by returning the name unchanged alongside them.
var (
	ErrUnknownFont   = errors.New("style: unknown font")
	ErrBadTemplate   = errors.New("style: template must contain exactly one placeholder")
	ErrUnknownFamily = errors.New("style: unknown family")
)

// Engine renders names under style descriptors. It holds only compiled
// read-only font tables and is safe for concurrent use.
type Engine struct {
	fonts map[string]*fontMap
}

// NewEngine compiles the given fonts. Any invalid table aborts construction.
func NewEngine(fonts []Font) (*Engine, error) {
	e := &Engine{fonts: make(map[string]*fontMap, len(fonts))}
	for _, f := range fonts {
		fm, err := compileFont(f)
		if err != nil {
			return nil, err
		}
		if _, dup := e.fonts[f.Name]; dup {
			return nil, fmt.Errorf("font %q: duplicate name", f.Name)
		}
		e.fonts[f.Name] = fm
	}
	return e, nil
}

// Render transforms name under the descriptor. The transform is deterministic
// and side-effect free. On a configuration error (unknown font, malformed
// template, unknown family) it returns name unchanged together with the error,
// never a partially substituted string. Name length is the caller's contract;
// over-length input is rendered as given.
func (e *Engine) Render(name string, d Descriptor) (string, error) {
	switch d.Family {
	case FamilyFont:
		return e.applyFont(name, d.FontName)
	case FamilyDecorative, FamilyArt:
		return applyTemplate(name, d.Template)
	case FamilyMixed:
		styled, err := e.applyFont(name, d.FontName)
		if err != nil {
			return name, err
		}
		out, err := applyTemplate(styled, d.Template)
		if err != nil {
			return name, err
		}
		return out, nil
	default:
		return name, fmt.Errorf("%w: %q", ErrUnknownFamily, d.Family)
	}
}

func (e *Engine) applyFont(name, fontName string) (string, error) {
	fm, ok := e.fonts[fontName]
	if !ok {
		return name, fmt.Errorf("%w: %q", ErrUnknownFont, fontName)
	}
	return fm.apply(name), nil
}

// applyTemplate substitutes the placeholder verbatim, once. No re-escaping,
// no recursive substitution: a placeholder inside the name survives as-is.
func applyTemplate(name, template string) (string, error) {
	if strings.Count(template, Placeholder) != 1 {
		return name, fmt.Errorf("%w: %q", ErrBadTemplate, template)
	}
	return strings.Replace(template, Placeholder, name, 1), nil
}
