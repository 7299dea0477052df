// Package parse turns extracted input events into a renderable score:
// it lays out the time map, attaches notations to their notes, routes
// events into per-channel voices and groups voices into staves.
package parse

import (
	"errors"
	"fmt"
	"sort"

	"lyscore/frac"
	"lyscore/model"
	"lyscore/notation"
	"lyscore/pitch"
	"lyscore/score"
	"lyscore/util"
)

// defaultTimeSignature applies until the first change in the table.
var defaultTimeSignature = score.NewTimeSignature(4, 4)

// ErrBadTimeSignature reports a signature change implying a measure of
// zero or undefined length. Input data, not a bug, so no panic.
var ErrBadTimeSignature = errors.New("time signature with no length")

// ParsedEvent is one note with its channel routing and the notations
// that were attached to it in the input.
type ParsedEvent struct {
	Channel   uint8
	Key       uint8
	Event     score.EventInfo
	Notations []notation.Notation
}

// ApplySingleNotations pushes every notation that a single event can
// carry, keeping the rest for later stages. A voice token is consumed
// here: it overrides the channel routing of this one note.
func (p *ParsedEvent) ApplySingleNotations() {
	var kept []notation.Notation
	for _, n := range p.Notations {
		if v, ok := n.(notation.Voice); ok {
			p.Channel = v.Index
			continue
		}
		if err := p.Event.PushNotation(n); err != nil {
			kept = append(kept, n)
		}
	}
	p.Notations = kept
}

// BuildTimeMap lays out measures from the timeline origin using the
// signature change table (changes are assumed to land on barlines)
// and keeps the slice covering the range.
func BuildTimeMap(
	r model.TimeRange, changes []model.TimeSignatureChange,
) (*score.TimeMap, error) {
	if r.End.Cmp(r.Start) <= 0 {
		return nil, fmt.Errorf("empty time range %s..%s", r.Start, r.End)
	}
	for _, change := range changes {
		if change.Numerator == 0 || change.Denominator == 0 {
			return nil, fmt.Errorf("%w: %d/%d at %s", ErrBadTimeSignature,
				change.Numerator, change.Denominator, change.Position)
		}
	}
	sorted := append([]model.TimeSignatureChange(nil), changes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position.Cmp(sorted[j].Position) < 0
	})

	var measures []score.MeasureInfo
	var mapStart score.AbsolutePosition

	ts := defaultTimeSignature
	cursor := frac.New(0, 1)
	for index := uint32(1); ; index++ {
		for len(sorted) > 0 && sorted[0].Position.Cmp(cursor) <= 0 {
			ts = score.NewTimeSignature(
				sorted[0].Numerator, sorted[0].Denominator,
			)
			sorted = sorted[1:]
		}
		next := cursor.Add(ts.Length().Quantized())
		if next.Cmp(r.Start) > 0 {
			if len(measures) == 0 {
				mapStart = score.AbsoluteOf(cursor)
			}
			measures = append(measures, score.NewMeasureInfo(index, ts))
		}
		cursor = next
		if cursor.Cmp(r.End) >= 0 {
			break
		}
	}
	return score.NewTimeMap(measures, mapStart), nil
}

// Events converts the extracted material into parsed events addressed
// relative to the time map, clipped to the range.
func Events(
	input model.TrackEvents, r model.TimeRange, tm *score.TimeMap,
) ([]ParsedEvent, error) {
	var res []ParsedEvent
	for _, note := range input.Notes {
		if note.Start.Cmp(r.End) >= 0 || note.End.Cmp(r.Start) <= 0 {
			continue
		}
		start := note.Start
		if start.Cmp(r.Start) < 0 {
			start = r.Start
		}
		end := note.End
		if end.Cmp(r.End) > 0 {
			end = r.End
		}
		pos, ok := tm.RelativeFromAbsolute(score.AbsoluteOf(start))
		if !ok {
			return nil, fmt.Errorf(
				"note at %s is outside the mapped range", start,
			)
		}
		ev := score.NewEvent(
			pos,
			score.LengthOf(end.Sub(start)),
			score.NewNote(pitch.FromMIDI(note.Key, nil)),
		)
		parsed := ParsedEvent{
			Channel: note.Channel,
			Key:     note.Key,
			Event:   ev,
		}
		for _, rec := range input.Notations {
			if rec.Channel != note.Channel || rec.Key != note.Key {
				continue
			}
			if rec.Position.Cmp(note.Start) != 0 {
				continue
			}
			ns, err := notation.FromRecordTokens(rec.Tokens)
			if err != nil {
				return nil, err
			}
			parsed.Notations = append(parsed.Notations, ns...)
		}
		parsed.ApplySingleNotations()
		res = append(res, parsed)
	}
	return res, nil
}

// VoicesFromEvents routes events into one voice per channel, sorted
// by channel for deterministic output.
func VoicesFromEvents(
	events []ParsedEvent, tm *score.TimeMap,
) ([]*score.Voice, error) {
	byChannel := make(map[uint8]*score.Voice)
	for i := range events {
		v, ok := byChannel[events[i].Channel]
		if !ok {
			v = score.NewVoice(tm, events[i].Channel)
			byChannel[events[i].Channel] = v
		}
		if err := v.InsertEvent(events[i].Event); err != nil {
			return nil, err
		}
	}
	voices := make([]*score.Voice, 0, len(byChannel))
	for _, ch := range util.SortedKeys(byChannel) {
		voices = append(voices, byChannel[ch])
	}
	return voices, nil
}

// StavesFromVoices groups voices into staves by channel block:
// channels 0-3 on staff 1, 4-7 on staff 2, 8-11 on 3, 12-15 on 4.
func StavesFromVoices(voices []*score.Voice, tm *score.TimeMap) []*score.Staff {
	byIndex := make(map[uint8]*score.Staff)
	for _, v := range voices {
		idx := v.Channel/4 + 1
		staff, ok := byIndex[idx]
		if !ok {
			staff = score.NewStaff(tm, idx, nil)
			byIndex[idx] = staff
		}
		staff.Voices = append(staff.Voices, v)
	}
	staves := make([]*score.Staff, 0, len(byIndex))
	for _, idx := range util.SortedKeys(byIndex) {
		staves = append(staves, byIndex[idx])
	}
	return staves
}

// Part runs the whole pipeline: time map, events, voices, staves.
func Part(input model.TrackEvents, r model.TimeRange) (*score.Part, error) {
	tm, err := BuildTimeMap(r, input.TimeSignatures)
	if err != nil {
		return nil, err
	}
	events, err := Events(input, r, tm)
	if err != nil {
		return nil, err
	}
	voices, err := VoicesFromEvents(events, tm)
	if err != nil {
		return nil, err
	}
	return score.NewPart(tm, StavesFromVoices(voices, tm)), nil
}
