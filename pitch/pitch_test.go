package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveOctaveMarks(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("c'", FromMIDI(60, nil).Resolve(CMajor))
	assert.Equal("c,,", FromMIDI(24, nil).Resolve(CMajor))
	assert.Equal("c", FromMIDI(48, nil).Resolve(CMajor))
	assert.Equal("c''''", FromMIDI(96, nil).Resolve(CMajor))
}

func TestResolveKeyPreference(t *testing.T) {
	assert := assert.New(t)
	sharpKey := Key{Tonic: C, Accidental: Sharp, Scale: Major}
	flatKey := Key{Tonic: E, Accidental: Flat, Scale: Major}
	assert.Equal("cis'", FromMIDI(61, nil).Resolve(sharpKey))
	assert.Equal("des'", FromMIDI(61, nil).Resolve(flatKey))
	assert.Equal("bes", FromMIDI(58, nil).Resolve(flatKey))
	assert.Equal("ais", FromMIDI(58, nil).Resolve(sharpKey))
}

func TestResolveForcedAccidental(t *testing.T) {
	assert := assert.New(t)
	flat := Flat
	sharp := Sharp
	// forced spelling wins over the key
	sharpKey := Key{Tonic: C, Accidental: Sharp, Scale: Major}
	assert.Equal("es''", FromMIDI(75, &flat).Resolve(sharpKey))
	assert.Equal("as'", FromMIDI(68, &flat).Resolve(CMajor))
	assert.Equal("gis'", FromMIDI(68, &sharp).Resolve(CMajor))
}

func TestNamedOverride(t *testing.T) {
	assert.Equal(t, "xhead", Named(60, "xhead").Resolve(CMajor))
}

func TestParseKey(t *testing.T) {
	assert := assert.New(t)

	key, err := ParseKey("c", "major")
	assert.NoError(err)
	assert.Equal(CMajor, key)

	key, err = ParseKey("es", "")
	assert.NoError(err)
	assert.Equal(Key{Tonic: E, Accidental: Flat, Scale: Major}, key)

	key, err = ParseKey("fis", "minor")
	assert.NoError(err)
	assert.Equal(Key{Tonic: F, Accidental: Sharp, Scale: Minor}, key)

	key, err = ParseKey("bes", "major")
	assert.NoError(err)
	assert.Equal(Key{Tonic: B, Accidental: Flat, Scale: Major}, key)

	_, err = ParseKey("", "major")
	assert.Error(err)
	_, err = ParseKey("h", "major")
	assert.Error(err)
	_, err = ParseKey("cq", "major")
	assert.Error(err)
	_, err = ParseKey("c", "dorian")
	assert.Error(err)
}
