package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"lyscore/frac"
	"lyscore/model"
)

// quarter note resolution, so a whole note is 3840 ticks
const testTicks = 960

func buildSMF(tracks ...smf.Track) *smf.SMF {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(testTicks)
	for _, tr := range tracks {
		s.Add(tr)
	}
	return s
}

func TestExtractEventsNotes(t *testing.T) {
	assert := assert.New(t)

	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(testTicks, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOn(0, 64, 100))
	tr.Add(testTicks*2, midi.NoteOff(0, 64))
	tr.Close(0)

	events, err := ExtractEvents(buildSMF(tr))
	assert.NoError(err)
	assert.Equal([]model.NoteEvent{
		{Start: frac.New(0, 1), End: frac.New(1, 4), Channel: 0, Key: 60},
		{Start: frac.New(1, 4), End: frac.New(3, 4), Channel: 0, Key: 64},
	}, events.Notes)
	assert.Equal(frac.New(3, 4), events.End)
}

func TestExtractEventsZeroVelocityNoteOnEndsNote(t *testing.T) {
	assert := assert.New(t)

	var tr smf.Track
	tr.Add(0, midi.NoteOn(2, 60, 100))
	tr.Add(testTicks, midi.NoteOn(2, 60, 0))
	tr.Close(0)

	events, err := ExtractEvents(buildSMF(tr))
	assert.NoError(err)
	assert.Equal([]model.NoteEvent{
		{Start: frac.New(0, 1), End: frac.New(1, 4), Channel: 2, Key: 60},
	}, events.Notes)
}

func TestExtractEventsOpenNoteCutAtEndOfTrack(t *testing.T) {
	assert := assert.New(t)

	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 72, 100))
	tr.Close(testTicks * 2)

	events, err := ExtractEvents(buildSMF(tr))
	assert.NoError(err)
	assert.Equal([]model.NoteEvent{
		{Start: frac.New(0, 1), End: frac.New(1, 2), Channel: 0, Key: 72},
	}, events.Notes)
	assert.Equal(frac.New(1, 2), events.End)
}

func TestExtractEventsTimeSignaturesAndNotations(t *testing.T) {
	assert := assert.New(t)

	var tr smf.Track
	tr.Add(0, smf.MetaMeter(3, 4))
	tr.Add(0, smf.MetaText(NotationRecord(0, 60, []string{"LyScore|dyn:f"})))
	tr.Add(0, smf.MetaText("lyrics or something else"))
	tr.Add(testTicks*3, smf.MetaMeter(4, 4))
	tr.Close(0)

	events, err := ExtractEvents(buildSMF(tr))
	assert.NoError(err)
	assert.Equal([]model.TimeSignatureChange{
		{Position: frac.New(0, 1), Numerator: 3, Denominator: 4},
		{Position: frac.New(3, 4), Numerator: 4, Denominator: 4},
	}, events.TimeSignatures)
	assert.Equal([]model.NotationEvent{
		{Position: frac.New(0, 1), Channel: 0, Key: 60, Tokens: []string{"LyScore|dyn:f"}},
	}, events.Notations)
}

func TestReadRejectsGarbage(t *testing.T) {
	assert := assert.New(t)
	s, err := Read([]byte("not a midi file"))
	assert.Error(err)
	assert.NotNil(s)
}

func TestExtractEventsRejectsNonMetricTime(t *testing.T) {
	s := smf.NewSMF1()
	s.TimeFormat = smf.SMPTE25(40)
	_, err := ExtractEvents(s)
	assert.Error(t, err)
}

func TestParseNotationRecord(t *testing.T) {
	assert := assert.New(t)

	rec, ok := parseNotationRecord(frac.New(1, 4), "NOTE 3 72 id:xyz LyScore|note-head:cross|dyn:p")
	assert.True(ok)
	assert.Equal(model.NotationEvent{
		Position: frac.New(1, 4),
		Channel:  3,
		Key:      72,
		Tokens:   []string{"id:xyz", "LyScore|note-head:cross|dyn:p"},
	}, rec)

	// missing tokens, wrong prefix, unparsable numbers
	_, ok = parseNotationRecord(frac.New(0, 1), "NOTE 3 72")
	assert.False(ok)
	_, ok = parseNotationRecord(frac.New(0, 1), "TEMPO 3 72 LyScore|dyn:p")
	assert.False(ok)
	_, ok = parseNotationRecord(frac.New(0, 1), "NOTE x 72 LyScore|dyn:p")
	assert.False(ok)
	_, ok = parseNotationRecord(frac.New(0, 1), "NOTE 3 999 LyScore|dyn:p")
	assert.False(ok)
}

func TestNotationRecordRoundTrip(t *testing.T) {
	text := NotationRecord(5, 64, []string{"LyScore|voice:2|note-head:harmonic"})
	assert.Equal(t, "NOTE 5 64 LyScore|voice:2|note-head:harmonic", text)

	rec, ok := parseNotationRecord(frac.New(0, 1), text)
	assert.True(t, ok)
	assert.Equal(t, uint8(5), rec.Channel)
	assert.Equal(t, uint8(64), rec.Key)
	assert.Equal(t, []string{"LyScore|voice:2|note-head:harmonic"}, rec.Tokens)
}
