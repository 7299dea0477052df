package score

import (
	"fmt"
	"strings"

	"lyscore/notation"
	"lyscore/pitch"
)

// Note is a single pitched event. Notations splits in two: the
// note-level ones (note-head style) and chord-level ones (dynamics)
// that a containing chord takes over when notes merge.
type Note struct {
	Pitch          pitch.Pitch
	Tie            bool
	Notations      []notation.Notation
	ChordNotations []notation.Notation
}

func NewNote(p pitch.Pitch) *Note {
	return &Note{Pitch: p}
}

func (n *Note) clone() EventType {
	c := *n
	c.Notations = append([]notation.Notation(nil), n.Notations...)
	c.ChordNotations = append([]notation.Notation(nil), n.ChordNotations...)
	return &c
}

func (n *Note) split() (EventType, EventType) {
	left := n.clone().(*Note)
	left.Tie = true
	left.removeTailNotations()
	right := n.clone().(*Note)
	right.removeHeadNotations()
	return left, right
}

func (n *Note) applyNotation(nt notation.Notation) error {
	switch v := nt.(type) {
	case notation.NoteHead:
		n.Notations = append(n.Notations, v)
		return nil
	case notation.Dynamics:
		n.ChordNotations = append(n.ChordNotations, v)
		return nil
	}
	// voice assignment is consumed during parsing, never after
	return fmt.Errorf("%w: %q on note", ErrUnexpectedNotation, nt.Token())
}

func (n *Note) removeHeadNotations() {
	n.Notations = filterNotations(n.Notations, notation.IsHead)
	n.ChordNotations = filterNotations(n.ChordNotations, notation.IsHead)
}

func (n *Note) removeTailNotations() {
	n.Notations = filterNotations(n.Notations, notation.IsTail)
	n.ChordNotations = filterNotations(n.ChordNotations, notation.IsTail)
}

func (n *Note) RenderLilypond(lengthStr string, settings RenderSettings) string {
	s := n.Pitch.Resolve(settings.Key) + lengthStr
	for _, nt := range n.Notations {
		s = nt.Render(s)
	}
	for _, nt := range n.ChordNotations {
		s = nt.Render(s)
	}
	if n.Tie {
		s += "~"
	}
	return s
}

// Chord is an ordered stack of simultaneous notes. Chord-level
// notations of merged notes are deduplicated onto the chord itself.
type Chord struct {
	Notes          []*Note
	ChordNotations []notation.Notation
}

func NewChord() *Chord { return &Chord{} }

func (c *Chord) clone() EventType {
	cl := &Chord{
		ChordNotations: append([]notation.Notation(nil), c.ChordNotations...),
	}
	for _, n := range c.Notes {
		cl.Notes = append(cl.Notes, n.clone().(*Note))
	}
	return cl
}

// Push merges another payload into the chord. Rests can not be pushed.
func (c *Chord) Push(event EventType) error {
	switch v := event.(type) {
	case Rest:
		return ErrCannotPushRest
	case *Note:
		c.grabChordNotations(&v.ChordNotations)
		c.Notes = append(c.Notes, v)
		return nil
	case *Chord:
		c.grabChordNotations(&v.ChordNotations)
		c.Notes = append(c.Notes, v.Notes...)
		return nil
	}
	return fmt.Errorf("%w: can not merge %T into chord", ErrUnexpectedNotation, event)
}

func (c *Chord) grabChordNotations(notations *[]notation.Notation) {
	for _, n := range *notations {
		exists := false
		for _, have := range c.ChordNotations {
			if have == n {
				exists = true
				break
			}
		}
		if !exists {
			c.ChordNotations = append(c.ChordNotations, n)
		}
	}
	*notations = nil
}

func (c *Chord) SetTies(tie bool) {
	for _, n := range c.Notes {
		n.Tie = tie
	}
}

func (c *Chord) split() (EventType, EventType) {
	left := c.clone().(*Chord)
	left.SetTies(true)
	left.removeTailNotations()
	right := c.clone().(*Chord)
	right.removeHeadNotations()
	return left, right
}

func (c *Chord) applyNotation(nt notation.Notation) error {
	if d, ok := nt.(notation.Dynamics); ok {
		c.ChordNotations = append(c.ChordNotations, d)
		return nil
	}
	return fmt.Errorf("%w: %q on chord", ErrUnexpectedNotation, nt.Token())
}

func (c *Chord) removeHeadNotations() {
	c.ChordNotations = filterNotations(c.ChordNotations, notation.IsHead)
}

func (c *Chord) removeTailNotations() {
	c.ChordNotations = filterNotations(c.ChordNotations, notation.IsTail)
}

func (c *Chord) RenderLilypond(lengthStr string, settings RenderSettings) string {
	notes := make([]string, 0, len(c.Notes))
	for _, n := range c.Notes {
		notes = append(notes, n.RenderLilypond("", settings))
	}
	s := fmt.Sprintf("< %s >%s", strings.Join(notes, " "), lengthStr)
	for _, nt := range c.ChordNotations {
		s = nt.Render(s)
	}
	return s
}

// filterNotations drops the notations matching the predicate.
func filterNotations(
	ns []notation.Notation, drop func(notation.Notation) bool,
) []notation.Notation {
	var kept []notation.Notation
	for _, n := range ns {
		if !drop(n) {
			kept = append(kept, n)
		}
	}
	return kept
}
