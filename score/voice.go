package score

import (
	"fmt"
	"log"
	"strings"

	"lyscore/frac"
)

// Voice is one line of music: the full measure table of the time map,
// owned by a single input channel.
type Voice struct {
	timeMap  *TimeMap
	Channel  uint8
	begin    uint32
	measures []*Measure
}

// NewVoice builds an all-rest voice over every measure of the map.
func NewVoice(tm *TimeMap, channel uint8) *Voice {
	measures := make([]*Measure, 0, len(tm.Measures()))
	for _, info := range tm.Measures() {
		measures = append(measures, NewMeasureFromInfo(info))
	}
	return &Voice{
		timeMap:  tm,
		Channel:  channel,
		begin:    tm.BeginMeasure(),
		measures: measures,
	}
}

func (v *Voice) TimeMap() *TimeMap { return v.timeMap }

// Measure returns the measure with the given 1-based index, or nil
// when it lies outside the voice.
func (v *Voice) Measure(index uint32) *Measure {
	if index < v.begin || index >= v.begin+uint32(len(v.measures)) {
		return nil
	}
	return v.measures[index-v.begin]
}

// InsertEvent routes the event into its measure and keeps feeding the
// overflow into the following measures until nothing is left. An
// event addressed before the exported range (usually a note tied from
// an earlier bar) is clamped to the start of the first measure.
func (v *Voice) InsertEvent(event EventInfo) error {
	for {
		index := event.Position.Measure()
		if index < v.begin {
			log.Printf(
				"score: event from before the range, clamping to measure %d: %v",
				v.begin, event,
			)
			event.Position.SetMeasure(v.begin)
			event.Position.SetOffset(frac.New(0, 1))
			index = v.begin
		}
		measure := v.Measure(index)
		if measure == nil {
			return fmt.Errorf(
				"%w: position %s\n event: %v", ErrNoSlot, event.Position, event,
			)
		}
		head, err := measure.Insert(event)
		if err != nil {
			return err
		}
		if head == nil {
			return nil
		}
		event = *head
	}
}

// RenderLilypond renders every measure as "% barN" comment, a \time
// command when the signature differs from the previous bar, the
// normalized events and a closing barline check.
func (v *Voice) RenderLilypond(settings RenderSettings) string {
	bars := make([]string, 0, len(v.measures))
	for i, measure := range v.measures {
		ts := ""
		if i == 0 || v.measures[i-1].TimeSignature() != measure.TimeSignature() {
			ts = measure.TimeSignature().RenderLilypond()
		}
		events := measure.EventsNormalized()
		tokens := make([]string, 0, len(events))
		for j := range events {
			tokens = append(tokens, events[j].RenderLilypond(settings))
		}
		bars = append(bars, fmt.Sprintf(
			"%% bar%d\n%s %s |", measure.Index(), ts, strings.Join(tokens, " "),
		))
	}
	return strings.Join(bars, " ")
}

// Staff groups the voices sharing one set of staff lines.
type Staff struct {
	timeMap *TimeMap
	Index   uint8
	Voices  []*Voice
}

func NewStaff(tm *TimeMap, index uint8, voices []*Voice) *Staff {
	return &Staff{timeMap: tm, Index: index, Voices: voices}
}

// RenderLilypond renders a single voice plainly; several voices on
// one staff use the polyphony form << { ... } \\ { ... } >>.
func (s *Staff) RenderLilypond(settings RenderSettings) string {
	if len(s.Voices) == 1 {
		return s.Voices[0].RenderLilypond(settings)
	}
	rendered := make([]string, 0, len(s.Voices))
	for _, v := range s.Voices {
		rendered = append(rendered, fmt.Sprintf("{ %s }", v.RenderLilypond(settings)))
	}
	return fmt.Sprintf("<< %s >>", strings.Join(rendered, ` \\ `))
}

// Part is the rendered unit: every staff of one track.
type Part struct {
	TimeMap *TimeMap
	Staves  []*Staff
}

func NewPart(tm *TimeMap, staves []*Staff) *Part {
	return &Part{TimeMap: tm, Staves: staves}
}

func (p *Part) RenderLilypond(settings RenderSettings) string {
	if len(p.Staves) == 1 {
		return p.Staves[0].RenderLilypond(settings)
	}
	rendered := make([]string, 0, len(p.Staves))
	for _, s := range p.Staves {
		rendered = append(rendered, s.RenderLilypond(settings))
	}
	return fmt.Sprintf("<< %s >>", strings.Join(rendered, " "))
}
