package bot

import (
	"fmt"
	"strconv"
	"strings"

	"stylebot/internal/style"
)

// Callback data routes every inline-button press. Telegram caps callback data
// at 64 bytes, which is why rendered texts travel as registry fingerprints
// instead of inline payloads.
//
//	menu                    back to the family picker
//	fam:<family>            open page 1 of a family
//	pg:<family>:<page>      navigate within a family
//	t:<family>:<idx>:<fp>   deliver the full text behind a fingerprint
//	noop                    inert page-indicator button
const (
	actionMenu   = "menu"
	actionFamily = "fam"
	actionPage   = "pg"
	actionText   = "t"
	actionNoop   = "noop"
)

type callback struct {
	action      string
	family      style.Family
	page        int
	index       int
	fingerprint string
}

func menuCallback() string { return actionMenu }

func familyCallback(fam style.Family) string {
	return fmt.Sprintf("%s:%s", actionFamily, fam)
}

func pageCallback(fam style.Family, page int) string {
	return fmt.Sprintf("%s:%s:%d", actionPage, fam, page)
}

func textCallback(fam style.Family, index int, fingerprint string) string {
	return fmt.Sprintf("%s:%s:%d:%s", actionText, fam, index, fingerprint)
}

func parseCallback(data string) (callback, error) {
	parts := strings.Split(data, ":")
	switch parts[0] {
	case actionMenu, actionNoop:
		if len(parts) != 1 {
			return callback{}, fmt.Errorf("callback %q: unexpected arguments", data)
		}
		return callback{action: parts[0]}, nil

	case actionFamily:
		if len(parts) != 2 {
			return callback{}, fmt.Errorf("callback %q: want fam:<family>", data)
		}
		fam, err := parseFamily(parts[1])
		if err != nil {
			return callback{}, err
		}
		return callback{action: actionFamily, family: fam, page: 1}, nil

	case actionPage:
		if len(parts) != 3 {
			return callback{}, fmt.Errorf("callback %q: want pg:<family>:<page>", data)
		}
		fam, err := parseFamily(parts[1])
		if err != nil {
			return callback{}, err
		}
		p, err := strconv.Atoi(parts[2])
		if err != nil {
			return callback{}, fmt.Errorf("callback %q: bad page: %w", data, err)
		}
		return callback{action: actionPage, family: fam, page: p}, nil

	case actionText:
		if len(parts) != 4 {
			return callback{}, fmt.Errorf("callback %q: want t:<family>:<idx>:<fp>", data)
		}
		fam, err := parseFamily(parts[1])
		if err != nil {
			return callback{}, err
		}
		idx, err := strconv.Atoi(parts[2])
		if err != nil {
			return callback{}, fmt.Errorf("callback %q: bad index: %w", data, err)
		}
		if parts[3] == "" {
			return callback{}, fmt.Errorf("callback %q: empty fingerprint", data)
		}
		return callback{action: actionText, family: fam, index: idx, fingerprint: parts[3]}, nil

	default:
		return callback{}, fmt.Errorf("callback %q: unknown action", data)
	}
}

func parseFamily(s string) (style.Family, error) {
	switch fam := style.Family(s); fam {
	case style.FamilyFont, style.FamilyDecorative, style.FamilyArt, style.FamilyMixed:
		return fam, nil
	default:
		return "", fmt.Errorf("unknown family %q", s)
	}
}
