// Package notation parses and emits the notation token micro-format
// that rides along with note events.
//
// A record's attached text tokens may carry one section of the form
//
//	LyScore|note-head:cross|dyn:mf|tuplet:3/2
//
// i.e. the section marker followed by |-separated key:value sub-tokens
// (or a bare key for zero-argument notations). This is the one
// on-the-wire format owned by the core, so parsing and rendering are
// byte-exact and round-trip.
package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lyscore/frac"
)

// Section is the marker that opens a notation token string.
const Section = "LyScore"

// Delimiter separates sub-tokens inside a section.
const Delimiter = "|"

var (
	// ErrUnknownToken reports a sub-token with an unrecognized key.
	ErrUnknownToken = errors.New("unknown notation token")
	// ErrAmbiguousSection reports more than one section marker in a
	// single record. The whole record is rejected rather than silently
	// dropping notations.
	ErrAmbiguousSection = errors.New("more than one notation section in record")
)

// Notation is one parsed notation sub-token. The variant set is closed:
// NoteHead, Dynamics, Voice, TupletRate, TupletEnd.
type Notation interface {
	// Token returns the canonical sub-token text.
	Token() string
	// Render wraps an already-rendered note/chord string with this
	// notation's LilyPond markup. Structural notations (voice, tuplet
	// markers) pass the string through untouched.
	Render(s string) string

	sealed()
}

// NoteHead overrides the printed note-head style.
type NoteHead struct {
	Style string
}

var noteHeadStyles = map[string]bool{
	"default": true, "cross": true, "baroque": true, "diamond": true,
	"harmonic": true, "triangle": true, "slash": true, "xcircle": true,
}

func (n NoteHead) Token() string { return "note-head:" + n.Style }
func (n NoteHead) Render(s string) string {
	return fmt.Sprintf("\\override NoteHead.style = #'%s %s", n.Style, s)
}
func (NoteHead) sealed() {}

// Dynamics attaches a dynamic mark (mf, p, sfz...) to a note or chord.
// The mark is stored without the backslash.
type Dynamics struct {
	Mark string
}

func (d Dynamics) Token() string          { return "dyn:" + d.Mark }
func (d Dynamics) Render(s string) string { return s + `\` + d.Mark }
func (Dynamics) sealed()                  {}

// Voice assigns the note to a voice within its staff. Consumed during
// parsing; it never reaches a rendered event.
type Voice struct {
	Index uint8
}

func (v Voice) Token() string          { return fmt.Sprintf("voice:%d", v.Index) }
func (v Voice) Render(s string) string { return s }
func (Voice) sealed()                  {}

// TupletRate marks the first event of a tuplet group and carries its
// rate, e.g. 3/2 for a regular triplet.
type TupletRate struct {
	Rate frac.Fraction
}

func (t TupletRate) Token() string {
	return fmt.Sprintf("tuplet:%d/%d", t.Rate.Num(), t.Rate.Den())
}
func (t TupletRate) Render(s string) string { return s }
func (TupletRate) sealed()                  {}

// TupletEnd marks the last event of a tuplet group.
type TupletEnd struct{}

func (TupletEnd) Token() string          { return "tuplet_end" }
func (TupletEnd) Render(s string) string { return s }
func (TupletEnd) sealed()                {}

// IsHead reports whether the notation belongs to the first fragment
// when its event is split by a tie. Dynamics sound at the attack, so
// they stay on the head and are stripped from every later fragment.
func IsHead(n Notation) bool {
	_, ok := n.(Dynamics)
	return ok
}

// IsTail reports whether the notation belongs to the final fragment of
// a tied split. No current notation is tail-anchored; the hook stays so
// the split filters treat both directions uniformly.
func IsTail(n Notation) bool { return false }

// ParseToken parses one sub-token like "dyn:mf" or "tuplet_end".
func ParseToken(tk string) (Notation, error) {
	key, value, _ := strings.Cut(tk, ":")
	switch key {
	case "note-head":
		if !noteHeadStyles[value] {
			return nil, fmt.Errorf("%w: note-head style %q", ErrUnknownToken, value)
		}
		return NoteHead{Style: value}, nil
	case "dyn":
		return Dynamics{Mark: strings.TrimPrefix(value, `\`)}, nil
	case "voice":
		idx, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: voice index %q", ErrUnknownToken, value)
		}
		return Voice{Index: uint8(idx)}, nil
	case "tuplet":
		num, den, ok := strings.Cut(value, "/")
		if !ok {
			return nil, fmt.Errorf("%w: tuplet rate %q", ErrUnknownToken, value)
		}
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: tuplet rate %q", ErrUnknownToken, value)
		}
		d, err := strconv.ParseInt(den, 10, 64)
		if err != nil || d == 0 {
			return nil, fmt.Errorf("%w: tuplet rate %q", ErrUnknownToken, value)
		}
		return TupletRate{Rate: frac.New(n, d)}, nil
	case "tuplet_end":
		return TupletEnd{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownToken, tk)
}

// ParseSection parses a full section string, marker included.
func ParseSection(s string) ([]Notation, error) {
	parts := strings.Split(s, Delimiter)
	if parts[0] != Section {
		return nil, fmt.Errorf("%w: bad section marker %q", ErrUnknownToken, parts[0])
	}
	var res []Notation
	for _, tk := range parts[1:] {
		n, err := ParseToken(tk)
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, nil
}

// RenderSection emits the canonical section string for the given
// notations. Inverse of ParseSection.
func RenderSection(notations []Notation) string {
	parts := make([]string, 0, len(notations)+1)
	parts = append(parts, Section)
	for _, n := range notations {
		parts = append(parts, n.Token())
	}
	return strings.Join(parts, Delimiter)
}

// FromRecordTokens extracts the notations of one record from its
// attached token list. Exactly zero or one section is legal; two or
// more is an ErrAmbiguousSection.
func FromRecordTokens(tokens []string) ([]Notation, error) {
	var section string
	found := false
	for _, tk := range tokens {
		if !strings.HasPrefix(tk, Section+Delimiter) && tk != Section {
			continue
		}
		if found {
			return nil, fmt.Errorf("%w: %q", ErrAmbiguousSection, tokens)
		}
		section = tk
		found = true
	}
	if !found {
		return nil, nil
	}
	return ParseSection(section)
}

// Upsert replaces matching notation tokens inside a record's token
// list, appending a fresh section when none exists. Tokens match on
// their key, so pushing a new note-head replaces the old one but
// leaves dynamics alone.
func Upsert(tokens []string, notations []Notation) ([]string, error) {
	existing, err := FromRecordTokens(tokens)
	if err != nil {
		return nil, err
	}
	merged := make([]Notation, 0, len(existing)+len(notations))
	for _, old := range existing {
		replaced := false
		for i, n := range notations {
			if n != nil && tokenKey(n.Token()) == tokenKey(old.Token()) {
				merged = append(merged, n)
				notations[i] = nil
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, old)
		}
	}
	for _, n := range notations {
		if n != nil {
			merged = append(merged, n)
		}
	}
	return replaceSection(tokens, RenderSection(merged)), nil
}

// Remove drops the exact given notations from a record's token list.
func Remove(tokens []string, notations []Notation) ([]string, error) {
	existing, err := FromRecordTokens(tokens)
	if err != nil || existing == nil {
		return tokens, err
	}
	var kept []Notation
	for _, old := range existing {
		drop := false
		for _, n := range notations {
			if n.Token() == old.Token() {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, old)
		}
	}
	return replaceSection(tokens, RenderSection(kept)), nil
}

func replaceSection(tokens []string, section string) []string {
	res := make([]string, 0, len(tokens)+1)
	replaced := false
	for _, tk := range tokens {
		if strings.HasPrefix(tk, Section+Delimiter) || tk == Section {
			res = append(res, section)
			replaced = true
			continue
		}
		res = append(res, tk)
	}
	if !replaced {
		res = append(res, section)
	}
	return res
}

func tokenKey(tk string) string {
	key, _, _ := strings.Cut(tk, ":")
	return key
}
