// Package midi extracts score material from standard MIDI files:
// notes, notation text records and time signature changes, with all
// positions converted from ticks to fractions of a whole note.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2/smf"

	"lyscore/frac"
	"lyscore/model"
)

// notationPrefix opens a per-note text record:
// "NOTE <channel> <key> <token> ...".
const notationPrefix = "NOTE"

// Read parses SMF bytes.
func Read(dat []byte) (s *smf.SMF, e error) {
	var blank smf.SMF

	// the smf reader panics on some malformed files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		switch r := recover().(type) {
		case nil:
		case string:
			s, e = &blank, errors.New(r)
		default:
			panic(r)
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("parsing midi file: %w", err)
	}
	return res, nil
}

// ReadFile parses an SMF file from disk.
func ReadFile(path string) (*smf.SMF, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return &smf.SMF{}, fmt.Errorf("reading midi file: %w", err)
	}
	return Read(dat)
}

// ExtractEvents walks every track and collects notes, notation
// records and time signature changes in whole-note time.
func ExtractEvents(s *smf.SMF) (model.TrackEvents, error) {
	var res model.TrackEvents

	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return res, fmt.Errorf("unsupported midi time format: %v", s.TimeFormat)
	}
	wholeTicks := int64(ticks) * 4

	type noteID struct {
		channel, key uint8
	}

	for _, events := range s.Tracks {
		var absTicks int64
		open := make(map[noteID]int64)
		for _, event := range events {
			absTicks += int64(event.Delta)
			pos := frac.New(absTicks, wholeTicks)

			var channel, key, velocity uint8
			var num, denom, cpt, dsqpq uint8
			var text string
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				open[noteID{channel, key}] = absTicks
			case event.Message.GetNoteOff(&channel, &key, &velocity),
				event.Message.GetNoteOn(&channel, &key, &velocity):
				id := noteID{channel, key}
				start, sounding := open[id]
				if !sounding {
					continue
				}
				delete(open, id)
				res.Notes = append(res.Notes, model.NoteEvent{
					Start:   frac.New(start, wholeTicks),
					End:     pos,
					Channel: channel,
					Key:     key,
				})
				if pos.Cmp(res.End) > 0 {
					res.End = pos
				}
			case event.Message.GetMetaTimeSig(&num, &denom, &cpt, &dsqpq):
				res.TimeSignatures = append(res.TimeSignatures,
					model.TimeSignatureChange{
						Position:    pos,
						Numerator:   uint32(num),
						Denominator: uint32(denom),
					})
			case event.Message.GetMetaText(&text):
				notation, ok := parseNotationRecord(pos, text)
				if !ok {
					continue
				}
				res.Notations = append(res.Notations, notation)
			}
		}
		// a note still sounding at end of track is cut there
		for id, start := range open {
			end := frac.New(absTicks, wholeTicks)
			res.Notes = append(res.Notes, model.NoteEvent{
				Start:   frac.New(start, wholeTicks),
				End:     end,
				Channel: id.channel,
				Key:     id.key,
			})
			if end.Cmp(res.End) > 0 {
				res.End = end
			}
		}
	}
	return res, nil
}

// parseNotationRecord reads "NOTE <channel> <key> <token> ...".
// Anything else is some other text event and is skipped.
func parseNotationRecord(pos frac.Fraction, text string) (model.NotationEvent, bool) {
	fields := strings.Fields(text)
	if len(fields) < 4 || fields[0] != notationPrefix {
		return model.NotationEvent{}, false
	}
	channel, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil {
		return model.NotationEvent{}, false
	}
	key, err := strconv.ParseUint(fields[2], 10, 8)
	if err != nil {
		return model.NotationEvent{}, false
	}
	return model.NotationEvent{
		Position: pos,
		Channel:  uint8(channel),
		Key:      uint8(key),
		Tokens:   fields[3:],
	}, true
}

// NotationRecord renders the text record for a note's token list.
// Inverse of the record parsing done by ExtractEvents.
func NotationRecord(channel, key uint8, tokens []string) string {
	parts := append([]string{
		notationPrefix,
		strconv.Itoa(int(channel)),
		strconv.Itoa(int(key)),
	}, tokens...)
	return strings.Join(parts, " ")
}
