package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lyscore/frac"
	"lyscore/model"
	"lyscore/notation"
	"lyscore/score"
)

func q(num, den int64) frac.Fraction { return frac.New(num, den) }

func wholeRange(measures int64) model.TimeRange {
	return model.TimeRange{Start: q(0, 1), End: q(measures, 1)}
}

func TestBuildTimeMapDefaultMeter(t *testing.T) {
	tm, err := BuildTimeMap(wholeRange(2), nil)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(uint32(1), tm.BeginMeasure())
	assert.Equal(uint32(2), tm.EndMeasure())
	for _, m := range tm.Measures() {
		assert.Equal(score.NewTimeSignature(4, 4), m.TimeSignature)
	}
}

func TestBuildTimeMapWithSignatureChange(t *testing.T) {
	changes := []model.TimeSignatureChange{
		{Position: q(1, 1), Numerator: 3, Denominator: 4},
	}
	tm, err := BuildTimeMap(wholeRange(2), changes)

	assert := assert.New(t)
	assert.NoError(err)
	measures := tm.Measures()
	assert.Len(measures, 3)
	assert.Equal(score.NewTimeSignature(4, 4), measures[0].TimeSignature)
	assert.Equal(score.NewTimeSignature(3, 4), measures[1].TimeSignature)
	assert.Equal(score.NewTimeSignature(3, 4), measures[2].TimeSignature)
}

func TestBuildTimeMapSkipsMeasuresBeforeRange(t *testing.T) {
	tm, err := BuildTimeMap(
		model.TimeRange{Start: q(1, 1), End: q(2, 1)}, nil,
	)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(uint32(2), tm.BeginMeasure())
	assert.Equal(uint32(2), tm.EndMeasure())
	assert.Equal(score.AbsoluteOf(q(1, 1)), tm.AbsolutePositionOfMeasure(2))
}

func TestBuildTimeMapRejectsEmptyRange(t *testing.T) {
	_, err := BuildTimeMap(model.TimeRange{Start: q(1, 1), End: q(1, 1)}, nil)
	assert.Error(t, err)
}

func TestBuildTimeMapRejectsZeroLengthMeasure(t *testing.T) {
	assert := assert.New(t)
	_, err := BuildTimeMap(wholeRange(2), []model.TimeSignatureChange{
		{Position: q(0, 1), Numerator: 0, Denominator: 4},
	})
	assert.ErrorIs(err, ErrBadTimeSignature)

	_, err = BuildTimeMap(wholeRange(2), []model.TimeSignatureChange{
		{Position: q(1, 1), Numerator: 4, Denominator: 0},
	})
	assert.ErrorIs(err, ErrBadTimeSignature)
}

func TestEventsClipsToRange(t *testing.T) {
	input := model.TrackEvents{Notes: []model.NoteEvent{
		{Start: q(-1, 4), End: q(1, 4), Channel: 0, Key: 60},
		{Start: q(3, 4), End: q(5, 4), Channel: 0, Key: 62},
		{Start: q(2, 1), End: q(9, 4), Channel: 0, Key: 64},
	}}
	r := wholeRange(1)
	tm, err := BuildTimeMap(r, nil)
	assert.NoError(t, err)

	events, err := Events(input, r, tm)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(events, 2)

	assert.Equal(score.NewRelativePosition(1, q(0, 1)), events[0].Event.Position)
	assert.Equal(q(1, 4), events[0].Event.Length.Quantized())

	assert.Equal(score.NewRelativePosition(1, q(3, 4)), events[1].Event.Position)
	assert.Equal(q(1, 4), events[1].Event.Length.Quantized())
}

func TestEventsAttachNotations(t *testing.T) {
	input := model.TrackEvents{
		Notes: []model.NoteEvent{
			{Start: q(0, 1), End: q(1, 4), Channel: 0, Key: 60},
		},
		Notations: []model.NotationEvent{{
			Position: q(0, 1), Channel: 0, Key: 60,
			Tokens: []string{"LyScore|note-head:cross|dyn:f"},
		}},
	}
	r := wholeRange(1)
	tm, err := BuildTimeMap(r, nil)
	assert.NoError(t, err)

	events, err := Events(input, r, tm)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(events, 1)
	// both notations apply to a single note, nothing is left over
	assert.Empty(events[0].Notations)

	note := events[0].Event.Payload.(*score.Note)
	assert.Len(note.Notations, 1)
	assert.Len(note.ChordNotations, 1)
}

func TestEventsRejectAmbiguousNotationSection(t *testing.T) {
	input := model.TrackEvents{
		Notes: []model.NoteEvent{
			{Start: q(0, 1), End: q(1, 4), Channel: 0, Key: 60},
		},
		Notations: []model.NotationEvent{{
			Position: q(0, 1), Channel: 0, Key: 60,
			Tokens: []string{"LyScore|dyn:f", "LyScore|dyn:p"},
		}},
	}
	r := wholeRange(1)
	tm, err := BuildTimeMap(r, nil)
	assert.NoError(t, err)

	_, err = Events(input, r, tm)
	assert.ErrorIs(t, err, notation.ErrAmbiguousSection)
}

func TestVoiceTokenOverridesChannel(t *testing.T) {
	ev := ParsedEvent{
		Channel: 0,
		Key:     60,
		Event: score.NewEvent(
			score.NewRelativePosition(1, q(0, 1)),
			score.LengthOf(q(1, 4)),
			nil,
		),
		Notations: []notation.Notation{notation.Voice{Index: 5}},
	}
	ev.ApplySingleNotations()
	assert.Equal(t, uint8(5), ev.Channel)
	assert.Empty(t, ev.Notations)
}

func TestVoicesFromEventsGroupsByChannel(t *testing.T) {
	r := wholeRange(1)
	tm, err := BuildTimeMap(r, nil)
	assert.NoError(t, err)

	input := model.TrackEvents{Notes: []model.NoteEvent{
		{Start: q(0, 1), End: q(1, 4), Channel: 1, Key: 64},
		{Start: q(0, 1), End: q(1, 4), Channel: 0, Key: 60},
		{Start: q(1, 4), End: q(1, 2), Channel: 0, Key: 62},
	}}
	events, err := Events(input, r, tm)
	assert.NoError(t, err)

	voices, err := VoicesFromEvents(events, tm)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(voices, 2)
	assert.Equal(uint8(0), voices[0].Channel)
	assert.Equal(uint8(1), voices[1].Channel)
}

func TestStavesFromVoicesGroupsByChannelBlock(t *testing.T) {
	r := wholeRange(1)
	tm, err := BuildTimeMap(r, nil)
	assert.NoError(t, err)

	voices := []*score.Voice{
		score.NewVoice(tm, 0),
		score.NewVoice(tm, 3),
		score.NewVoice(tm, 5),
		score.NewVoice(tm, 14),
	}
	staves := StavesFromVoices(voices, tm)

	assert := assert.New(t)
	assert.Len(staves, 3)
	assert.Equal(uint8(1), staves[0].Index)
	assert.Len(staves[0].Voices, 2)
	assert.Equal(uint8(2), staves[1].Index)
	assert.Equal(uint8(4), staves[2].Index)
}

func TestPartEndToEnd(t *testing.T) {
	input := model.TrackEvents{Notes: []model.NoteEvent{
		{Start: q(3, 4), End: q(5, 4), Channel: 0, Key: 60},
	}}
	part, err := Part(input, wholeRange(2))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(
		"% bar1\n\\time 4/4 r2. c'4~ | % bar2\n c'4 r2. |",
		part.RenderLilypond(score.DefaultRenderSettings()),
	)
}
