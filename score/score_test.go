package score

import (
	"lyscore/frac"
	"lyscore/pitch"
)

// shared test helpers

func q(num, den int64) frac.Fraction { return frac.New(num, den) }

func pos(measure uint32, num, den int64) RelativePosition {
	return NewRelativePosition(measure, q(num, den))
}

func noteOf(midi uint8) *Note {
	return NewNote(pitch.FromMIDI(midi, nil))
}

func noteEvent(measure uint32, num, den int64, length frac.Fraction, midi uint8) EventInfo {
	return NewEvent(pos(measure, num, den), LengthOf(length), noteOf(midi))
}

// assertCovered reports the invariant every container must keep:
// sorted events, no gaps, no overlaps, total length equal to the
// container's length.
func eventsCover(events []EventInfo, length frac.Fraction) bool {
	cursor := q(0, 1)
	for i := range events {
		if events[i].Position.Offset() != cursor {
			return false
		}
		cursor = cursor.Add(events[i].Length.Quantized())
	}
	return cursor == length
}
