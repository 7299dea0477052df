// Package pitch spells MIDI note numbers as LilyPond pitch names.
//
// Spelling is key-aware: the same MIDI key renders as cis in sharp
// keys and as des in flat ones, and an explicit accidental pinned to
// the note always wins over the key preference.
package pitch

import "fmt"

// NoteName is one of the seven diatonic letters.
type NoteName int

const (
	C NoteName = iota
	D
	E
	F
	G
	A
	B
)

var noteLetters = [7]string{"c", "d", "e", "f", "g", "a", "b"}

// semitone of each letter within the octave.
var noteSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

func (n NoteName) String() string { return noteLetters[n] }

// Accidental is an alteration applied to a note letter.
type Accidental int

const (
	Natural Accidental = iota
	Sharp
	DoubleSharp
	Flat
	DoubleFlat
)

// suffix returns the LilyPond (dutch) accidental suffix for the given
// letter. E flat and A flat drop the leading e: es, as.
func (a Accidental) suffix(n NoteName) string {
	switch a {
	case Natural:
		return ""
	case Sharp:
		return "is"
	case DoubleSharp:
		return "isis"
	case Flat:
		if n == E || n == A {
			return "s"
		}
		return "es"
	case DoubleFlat:
		if n == E || n == A {
			return "ses"
		}
		return "eses"
	}
	panic(fmt.Sprintf("pitch: unknown accidental %d", a))
}

// Scale of a key signature.
type Scale int

const (
	Major Scale = iota
	Minor
)

// Key is a key signature: tonic letter, tonic alteration and scale.
// It only decides between enharmonic spellings.
type Key struct {
	Tonic      NoteName
	Accidental Accidental
	Scale      Scale
}

// CMajor is the default render key.
var CMajor = Key{Tonic: C, Accidental: Natural, Scale: Major}

// ParseKey reads a tonic in LilyPond/dutch form ("c", "cis", "des",
// "bes") and a scale name ("major" or "minor").
func ParseKey(tonic, scale string) (Key, error) {
	if tonic == "" {
		return Key{}, fmt.Errorf("pitch: empty key tonic")
	}
	var name NoteName
	found := false
	for i, letter := range noteLetters {
		if tonic[:1] == letter {
			name = NoteName(i)
			found = true
			break
		}
	}
	if !found {
		return Key{}, fmt.Errorf("pitch: unknown tonic %q", tonic)
	}
	acc := Natural
	switch rest := tonic[1:]; rest {
	case "":
	case "is":
		acc = Sharp
	case "isis":
		acc = DoubleSharp
	case "es", "s":
		acc = Flat
	case "eses", "ses":
		acc = DoubleFlat
	default:
		return Key{}, fmt.Errorf("pitch: unknown tonic %q", tonic)
	}

	var sc Scale
	switch scale {
	case "", "major":
		sc = Major
	case "minor":
		sc = Minor
	default:
		return Key{}, fmt.Errorf("pitch: unknown scale %q", scale)
	}
	return Key{Tonic: name, Accidental: acc, Scale: sc}, nil
}

// flats reports whether the key signature prefers flat spellings.
// Decided by the position on the circle of fifths: F major, the flat
// keys and their relative minors go flat, everything else sharp.
func (k Key) flats() bool {
	if k.Accidental == Flat || k.Accidental == DoubleFlat {
		return true
	}
	if k.Accidental == Sharp || k.Accidental == DoubleSharp {
		return false
	}
	switch k.Scale {
	case Major:
		return k.Tonic == F
	default:
		return k.Tonic == D || k.Tonic == G || k.Tonic == C || k.Tonic == F
	}
}

// sharpNames and flatNames spell the twelve pitch classes.
var sharpNames = [12]struct {
	name NoteName
	acc  Accidental
}{
	{C, Natural}, {C, Sharp}, {D, Natural}, {D, Sharp}, {E, Natural},
	{F, Natural}, {F, Sharp}, {G, Natural}, {G, Sharp}, {A, Natural},
	{A, Sharp}, {B, Natural},
}

var flatNames = [12]struct {
	name NoteName
	acc  Accidental
}{
	{C, Natural}, {D, Flat}, {D, Natural}, {E, Flat}, {E, Natural},
	{F, Natural}, {G, Flat}, {G, Natural}, {A, Flat}, {A, Natural},
	{B, Flat}, {B, Natural},
}

// Pitch is a single note pitch, bound to its MIDI key and an optional
// forced accidental or a literal name override.
type Pitch struct {
	midi       uint8
	accidental *Accidental
	// name, when set, is emitted verbatim instead of resolving the
	// MIDI key. Used for percussion-style note name overrides.
	name string
}

// FromMIDI builds a pitch from a MIDI key 0-127. accidental forces the
// enharmonic spelling regardless of key.
func FromMIDI(midi uint8, accidental *Accidental) Pitch {
	return Pitch{midi: midi, accidental: accidental}
}

// Named builds a pitch that renders as the given literal string.
func Named(midi uint8, name string) Pitch {
	return Pitch{midi: midi, name: name}
}

func (p Pitch) MIDI() uint8 { return p.midi }

// Resolve returns the LilyPond pitch token for p under the given key,
// e.g. "c'", "cis''", "es,,".
func (p Pitch) Resolve(key Key) string {
	if p.name != "" {
		return p.name
	}
	pc := int(p.midi) % 12
	octave := int(p.midi)/12 - 1 // MIDI 60 -> octave 4

	name, acc := sharpNames[pc].name, sharpNames[pc].acc
	if key.flats() {
		name, acc = flatNames[pc].name, flatNames[pc].acc
	}
	if p.accidental != nil {
		name, acc = respell(pc, *p.accidental)
	}

	s := name.String() + acc.suffix(name)
	marks := octave - 3 // octave 4 gets one apostrophe
	for i := 0; i < marks; i++ {
		s += "'"
	}
	for i := 0; i > marks; i-- {
		s += ","
	}
	return s
}

// respell finds the letter that expresses pitch class pc with the
// wanted accidental. Falls back to the sharp table when the class
// cannot carry that accidental (e.g. a forced flat on pitch class 0).
func respell(pc int, want Accidental) (NoteName, Accidental) {
	offset := 0
	switch want {
	case Sharp:
		offset = -1
	case DoubleSharp:
		offset = -2
	case Flat:
		offset = 1
	case DoubleFlat:
		offset = 2
	case Natural:
		for i, s := range noteSemitones {
			if s == pc {
				return NoteName(i), Natural
			}
		}
		return sharpNames[pc].name, sharpNames[pc].acc
	}
	base := ((pc+offset)%12 + 12) % 12
	for i, s := range noteSemitones {
		if s == base {
			return NoteName(i), want
		}
	}
	return sharpNames[pc].name, sharpNames[pc].acc
}
