// Package model holds the boundary shapes passed between the midi
// reader, the parser and the HTTP surface. Times are fractions of a
// whole note from the start of the input file.
package model

import "lyscore/frac"

// NoteEvent is one sounding note extracted from the input.
type NoteEvent struct {
	Start   frac.Fraction
	End     frac.Fraction
	Channel uint8
	Key     uint8
}

func (n NoteEvent) Length() frac.Fraction {
	return n.End.Sub(n.Start)
}

// NotationEvent is the token list attached to one note: a text record
// of the form "NOTE <channel> <key> <token> <token> ...".
type NotationEvent struct {
	Position frac.Fraction
	Channel  uint8
	Key      uint8
	Tokens   []string
}

// TimeSignatureChange places a new meter at an absolute position.
// The parser assumes changes land on barlines.
type TimeSignatureChange struct {
	Position    frac.Fraction
	Numerator   uint32
	Denominator uint32
}

// TrackEvents is everything one input file contributes to a score.
type TrackEvents struct {
	Notes          []NoteEvent
	Notations      []NotationEvent
	TimeSignatures []TimeSignatureChange
	// End is the position of the last sounding material.
	End frac.Fraction
}

// TimeRange bounds the exported slice of the timeline.
type TimeRange struct {
	Start frac.Fraction
	End   frac.Fraction
}

func (r TimeRange) Contains(pos frac.Fraction) bool {
	return r.Start.Cmp(pos) <= 0 && r.End.Cmp(pos) >= 0
}
