package guitarpro_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/perlence/guitarpro"
)

func roundTrip(t *testing.T, song *guitarpro.Song, version guitarpro.Version) *guitarpro.Song {
	t.Helper()
	var buf bytes.Buffer
	if err := guitarpro.Write(song, &buf, version); err != nil {
		t.Fatalf("write %v failed: %v", version, err)
	}
	parsed, err := guitarpro.Parse(&buf)
	if err != nil {
		t.Fatalf("parse %v failed: %v", version, err)
	}
	if parsed.Version != version {
		t.Fatalf("got version %v, expected %v", parsed.Version, version)
	}
	if !song.Equal(parsed) {
		t.Fatalf("song did not survive the %v round trip", version)
	}
	return parsed
}

// testSong builds a two-measure song exercising the records every
// dialect stores the same way. Dialect-specific constructs are bolted
// on by the individual tests.
func testSong() *guitarpro.Song {
	song := guitarpro.NewSong()
	song.Title = "Test Drive"
	song.Subtitle = "unplugged"
	song.Artist = "Anonymous"
	song.Album = "Field Recordings"
	song.Words = "A. Nonymous"
	song.Music = "A. Nonymous"
	song.Copyright = "2004"
	song.Tab = "somebody"
	song.Instructions = "play it slowly"
	song.Notice = []string{"transcribed by ear"}
	song.Tempo = 140
	song.Key = guitarpro.GMajor

	first := &song.MeasureHeaders[0]
	first.Tempo = 140
	first.IsRepeatOpen = true
	marker := guitarpro.NewMarker()
	marker.Title = "Intro"
	first.Marker = &marker

	second := guitarpro.NewMeasureHeader()
	second.Tempo = 140
	second.TimeSignature.Numerator = 3
	second.RepeatClose = 1
	second.RepeatAlternative = 1
	song.AddMeasureHeader(second)
	song.NewMeasure()

	m1 := &song.Tracks[0].Measures[0].Voices[0]
	b1 := normalBeat(5, 3)
	b1.Notes[0].Velocity = guitarpro.MezzoForte
	b1.Notes[0].Effect.HeavyAccentuatedNote = true
	b1.Notes[0].Effect.GhostNote = true
	b2 := normalBeat(2, 7)
	b2.Notes[0].Effect.Bend = &guitarpro.BendEffect{
		Type:  guitarpro.BendBend,
		Value: 100,
		Points: []guitarpro.BendPoint{
			{Position: 0, Value: 0},
			{Position: 6, Value: 4, Vibrato: true},
			{Position: 12, Value: 4},
		},
	}
	b2.Notes[0].Effect.Hammer = true
	b2.Notes[0].Effect.LetRing = true
	grace := guitarpro.NewGraceEffect()
	grace.Fret = 2
	grace.Duration = 32
	grace.Transition = guitarpro.GraceTransitionHammer
	b2.Notes[0].Effect.Grace = &grace
	b2.Notes[0].Effect.Slides = []guitarpro.SlideType{guitarpro.SlideShiftTo}
	b3 := normalBeat(1, 5)
	b3.Notes[0].Effect.Vibrato = true
	b4 := normalBeat(1, 12)
	b4.Text = &guitarpro.BeatText{Value: "harm."}
	b4.Notes[0].Effect.Harmonic = &guitarpro.HarmonicEffect{Type: guitarpro.HarmonicNatural}
	m1.Beats = append(m1.Beats, b1, b2, b3, b4)

	m2 := &song.Tracks[0].Measures[1].Voices[0]
	c1 := normalBeat(1, 5)
	c1.Effect.FadeIn = true
	c1.Effect.Stroke = guitarpro.BeatStroke{Direction: guitarpro.BeatStrokeDown, Value: guitarpro.SixteenthNote}
	c2 := normalBeat(1, 5)
	c2.Notes[0].Type = guitarpro.NoteTypeTie
	c3 := guitarpro.NewBeat()
	c3.Status = guitarpro.BeatStatusRest
	change := guitarpro.NewMixTableChange()
	change.Volume = &guitarpro.MixTableItem{Value: 100, Duration: 2}
	change.Tempo = &guitarpro.MixTableItem{Value: 150}
	change.HideTempo = false
	c3.Effect.MixTableChange = &change
	m2.Beats = append(m2.Beats, c1, c2, c3)

	return song
}

func normalBeat(stringNumber, fret int) guitarpro.Beat {
	beat := guitarpro.NewBeat()
	beat.Status = guitarpro.BeatStatusNormal
	note := guitarpro.NewNote()
	note.Type = guitarpro.NoteTypeNormal
	note.String = stringNumber
	note.Value = fret
	beat.Notes = append(beat.Notes, note)
	return beat
}

func beatAt(song *guitarpro.Song, measure, voice, beat int) *guitarpro.Beat {
	return &song.Tracks[0].Measures[measure].Voices[voice].Beats[beat]
}

func TestRoundTripGP3(t *testing.T) {
	song := testSong()
	for i := range song.MeasureHeaders {
		song.MeasureHeaders[i].TripletFeel = guitarpro.TripletFeelEighth
	}
	beatAt(song, 0, 0, 0).Notes[0].Independent = &guitarpro.NoteDuration{Value: 4, Tuplet: 3}

	newChord := guitarpro.NewChord(6)
	newChord.NewFormat = true
	newChord.Sharp = true
	newChord.Root = guitarpro.NewPitchClass(9)
	newChord.Type = guitarpro.ChordMinor
	newChord.Extension = guitarpro.ChordExtensionNinth
	newChord.Bass = guitarpro.NewPitchClass(9)
	newChord.Name = "Am9"
	newChord.FirstFret = 5
	newChord.Strings = []int{5, 7, 5, 5, -1, -1}
	newChord.Barres = []guitarpro.Barre{{Fret: 5, Start: 1, End: 4}}
	newChord.Omissions = []bool{true, true, true, true, true, true, true}
	beatAt(song, 0, 0, 1).Effect.Chord = &newChord

	oldChord := guitarpro.NewChord(6)
	oldChord.Name = "C"
	oldChord.FirstFret = 1
	oldChord.Strings = []int{-1, 1, 0, 2, 3, -1}
	beatAt(song, 0, 0, 3).Effect.Chord = &oldChord

	// the 3.x tremolo bar stores a single dip depth
	beatAt(song, 1, 0, 0).Effect.TremoloBar = &guitarpro.BendEffect{
		Type:  guitarpro.BendDip,
		Value: 100,
		Points: []guitarpro.BendPoint{
			{Position: 0, Value: 0},
			{Position: 6, Value: -4},
			{Position: 12, Value: 0},
		},
	}

	roundTrip(t, song, guitarpro.Version{Major: 3})
}

func TestRoundTripGP4(t *testing.T) {
	song := testSong()
	song.Lyrics.TrackChoice = 1
	song.Lyrics.Lines[0].Lyrics = "one two three"

	b1 := beatAt(song, 0, 0, 0)
	b1.Notes[0].Independent = &guitarpro.NoteDuration{Value: 4, Tuplet: 3}
	b1.Notes[0].Effect.Staccato = true
	b1.Notes[0].Effect.PalmMute = true
	b1.Notes[0].Effect.LeftHandFinger = guitarpro.FingeringIndex
	b1.Notes[0].Effect.RightHandFinger = guitarpro.FingeringThumb

	b2 := beatAt(song, 0, 0, 1)
	b2.Notes[0].Effect.TremoloPicking = &guitarpro.TremoloPickingEffect{
		Duration: guitarpro.Duration{Value: guitarpro.SixteenthNote, Tuplet: guitarpro.Tuplet{1, 1}},
	}

	b3 := beatAt(song, 0, 0, 2)
	trill := guitarpro.NewTrillEffect()
	trill.Fret = 7
	trill.Duration.Value = guitarpro.ThirtySecondNote
	b3.Notes[0].Effect.Trill = &trill
	b3.Notes[0].Effect.Harmonic = &guitarpro.HarmonicEffect{Type: guitarpro.HarmonicPinch}

	chord := guitarpro.NewChord(6)
	chord.NewFormat = true
	chord.Sharp = true
	chord.Root = guitarpro.NewPitchClass(9)
	chord.Type = guitarpro.ChordMinor
	chord.Extension = guitarpro.ChordExtensionNinth
	chord.Bass = guitarpro.NewPitchClass(9)
	chord.Name = "Am9"
	chord.FirstFret = 5
	chord.Strings = []int{5, 7, 5, 5, -1, -1}
	chord.Barres = []guitarpro.Barre{{Fret: 5, Start: 1, End: 4}}
	chord.Omissions = []bool{true, true, true, true, true, true, true}
	chord.Fingerings = []guitarpro.Fingering{
		guitarpro.FingeringUnknown, guitarpro.FingeringUnknown, guitarpro.FingeringUnknown,
		guitarpro.FingeringIndex, guitarpro.FingeringMiddle,
		guitarpro.FingeringUnknown, guitarpro.FingeringUnknown,
	}
	chord.Show = true
	beatAt(song, 0, 0, 3).Effect.Chord = &chord

	c1 := beatAt(song, 1, 0, 0)
	c1.Effect.PickStroke = guitarpro.BeatStrokeUp
	c1.Effect.HasRasgueado = true
	c1.Effect.TremoloBar = &guitarpro.BendEffect{
		Type:  guitarpro.BendDip,
		Value: -100,
		Points: []guitarpro.BendPoint{
			{Position: 0, Value: 0},
			{Position: 6, Value: -4},
			{Position: 12, Value: 0},
		},
	}
	c1.Notes[0].Effect.Harmonic = &guitarpro.HarmonicEffect{
		Type: guitarpro.HarmonicTapped,
		Fret: c1.Notes[0].Value + 12,
	}

	beatAt(song, 1, 0, 2).Effect.MixTableChange.Volume.AllTracks = true

	roundTrip(t, song, guitarpro.Version{Major: 4, Patch: 6})
}

func TestRoundTripGP4Clipboard(t *testing.T) {
	song := testSong()
	clipboard := guitarpro.NewClipboard()
	clipboard.StopMeasure = 2
	song.Clipboard = &clipboard
	roundTrip(t, song, guitarpro.Version{Major: 4, Patch: 6, Clipboard: true})
}

// testSongV5 decorates the common song with the records only the 5.x
// dialect stores.
func testSongV5() *guitarpro.Song {
	song := testSong()

	song.TempoName = "Moderato"
	song.HideTempo = true
	song.MasterEffect.Volume = 100
	song.MasterEffect.Reverb = 3
	song.MasterEffect.Equalizer.Knobs[0] = 1.2
	song.MasterEffect.Equalizer.Knobs[9] = -0.5
	song.MasterEffect.Equalizer.Gain = 0.3

	song.PageSetup.PageSize = guitarpro.Point{X: 216, Y: 279}
	song.PageSetup.PageMargin = guitarpro.Padding{Right: 12, Top: 14, Left: 11, Bottom: 13}
	song.PageSetup.ScoreSizeProportion = 0.95
	song.PageSetup.HeaderAndFooter = guitarpro.HeaderFooterTitle | guitarpro.HeaderFooterPageNumber
	song.PageSetup.Copyright = "Copyright 2004\nAll Rights Reserved"

	song.MeasureHeaders[0].Direction = &guitarpro.DirectionSign{Name: "Coda"}
	song.MeasureHeaders[1].FromDirection = &guitarpro.DirectionSign{Name: "Da Coda"}
	song.MeasureHeaders[1].TripletFeel = guitarpro.TripletFeelSixteenth

	track := &song.Tracks[0]
	track.IsSolo = true
	track.UseRSE = true
	track.IndicateTuning = true
	track.Settings.ShowRhythm = true
	track.Channel.Bank = 2
	track.RSE.AutoAccentuation = guitarpro.AccentuationMedium
	track.RSE.Humanize = 30
	track.RSE.Instrument.Instrument = 60
	track.RSE.Instrument.Effect = "Overdrive"
	track.RSE.Instrument.EffectCategory = "Guitars"
	track.RSE.Equalizer.Knobs[0] = 0.5
	track.RSE.Equalizer.Knobs[2] = -1.1
	track.RSE.Equalizer.Gain = 0.2

	b1 := beatAt(song, 0, 0, 0)
	b1.Notes[0].Effect.AccentuatedNote = true
	b1.Notes[0].SwapAccidentals = true
	b1.Notes[0].DurationPercent = 0.5

	beatAt(song, 0, 0, 1).Notes[0].Effect.Slides = []guitarpro.SlideType{
		guitarpro.SlideShiftTo, guitarpro.SlideOutDownwards,
	}

	b3 := beatAt(song, 0, 0, 2)
	b3.Octave = guitarpro.OctaveOttava
	b3.Display.BreakBeam = true
	b3.Display.BreakSecondary = 4

	// second voice
	v2 := normalBeat(6, 0)
	v2.Duration.Value = guitarpro.WholeNote
	pitch := guitarpro.NewPitchClassAccidental(9, 0)
	v2.Notes[0].Effect.Harmonic = &guitarpro.HarmonicEffect{
		Type:           guitarpro.HarmonicArtificial,
		Pitch:          &pitch,
		HarmonicOctave: guitarpro.OctaveOttava,
	}
	voice := &song.Tracks[0].Measures[0].Voices[1]
	voice.Beats = append(voice.Beats, v2)

	song.Tracks[0].Measures[1].LineBreak = guitarpro.LineBreakBreak

	c1 := beatAt(song, 1, 0, 0)
	c1.Effect.PickStroke = guitarpro.BeatStrokeUp
	c1.Notes[0].Effect.Harmonic = &guitarpro.HarmonicEffect{Type: guitarpro.HarmonicTapped, Fret: 17}

	change := beatAt(song, 1, 0, 2).Effect.MixTableChange
	change.Wah = &guitarpro.WahEffect{Value: 30, Display: true}
	change.UseRSE = true
	change.TempoName = "Allegro"
	change.Instrument = &guitarpro.MixTableItem{Value: 30}
	change.RSE = guitarpro.RSEInstrument{
		Instrument:     2,
		Unknown:        1,
		SoundBank:      3,
		EffectNumber:   -1,
		Effect:         "Crunchy",
		EffectCategory: "Guitar amps",
	}

	return song
}

func TestRoundTripGP5(t *testing.T) {
	roundTrip(t, testSongV5(), guitarpro.Version{Major: 5, Minor: 1})
}

func TestRoundTripGP5Clipboard(t *testing.T) {
	song := testSongV5()
	clipboard := guitarpro.NewClipboard()
	clipboard.StopBeat = 2
	clipboard.SubBarCopy = true
	song.Clipboard = &clipboard
	roundTrip(t, song, guitarpro.Version{Major: 5, Minor: 2, Clipboard: true})
}

// 5.0.0 differs from 5.1 in a handful of records: no master effect
// volume or equalizers, short RSE effect numbers, no hide-tempo flags.
func TestRoundTripGP500(t *testing.T) {
	song := testSong()
	song.MasterEffect.Reverb = 3
	beatAt(song, 1, 0, 2).Effect.MixTableChange.Wah = &guitarpro.WahEffect{Value: -1}
	v2 := normalBeat(6, 0)
	v2.Duration.Value = guitarpro.WholeNote
	voice := &song.Tracks[0].Measures[0].Voices[1]
	voice.Beats = append(voice.Beats, v2)
	roundTrip(t, song, guitarpro.Version{Major: 5})
}

// Whole files were never written with a 5.2 signature; they carry the
// 5.10 signature and parse back as 5.1.
func TestWriteGP52ReadsBackAs51(t *testing.T) {
	song := testSongV5()
	var buf bytes.Buffer
	if err := guitarpro.Write(song, &buf, guitarpro.Version{Major: 5, Minor: 2}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	parsed, err := guitarpro.Parse(&buf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if expected := (guitarpro.Version{Major: 5, Minor: 1}); parsed.Version != expected {
		t.Fatalf("got version %v, expected %v", parsed.Version, expected)
	}
	if !song.Equal(parsed) {
		t.Fatalf("song did not survive the 5.2 round trip")
	}
}

func TestParseSingleNoteGP5(t *testing.T) {
	song := guitarpro.NewSong()
	beat := normalBeat(1, 0)
	beat.Duration.Value = guitarpro.WholeNote
	song.Tracks[0].Measures[0].Voices[0].Beats = append(
		song.Tracks[0].Measures[0].Voices[0].Beats, beat)
	var buf bytes.Buffer
	if err := guitarpro.Write(song, &buf, guitarpro.Version{Major: 5, Minor: 1}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	parsed, err := guitarpro.Parse(&buf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	voice := &parsed.Tracks[0].Measures[0].Voices[0]
	if len(voice.Beats) != 1 || len(voice.Beats[0].Notes) != 1 {
		t.Fatalf("got %d beats, expected 1 with a single note", len(voice.Beats))
	}
	note := &voice.Beats[0].Notes[0]
	if note.String != 1 || note.Value != 0 {
		t.Fatalf("got string %d value %d, expected the open first string", note.String, note.Value)
	}
	if got := voice.StartInMeasure(0); got != 0 {
		t.Fatalf("first beat starts at %v, expected 0", got)
	}
}

func TestWriteUnsupportedVersionRefused(t *testing.T) {
	for _, version := range []guitarpro.Version{
		{},
		{Major: 6},
		{Major: 3, Clipboard: true},
	} {
		var buf bytes.Buffer
		err := guitarpro.Write(testSong(), &buf, version)
		var unsupported guitarpro.UnsupportedVersionError
		if !errors.As(err, &unsupported) {
			t.Fatalf("write of %v got %v, expected UnsupportedVersionError", version, err)
		}
		if buf.Len() != 0 {
			t.Fatalf("write of %v left %d bytes in the buffer", version, buf.Len())
		}
	}
}

func signatureBytes(signature string) []byte {
	data := make([]byte, 31)
	data[0] = byte(len(signature))
	copy(data[1:], signature)
	return data
}

func TestParseUnrecognizedFormat(t *testing.T) {
	_, err := guitarpro.Parse(bytes.NewReader(signatureBytes("NOT A TABLATURE FILE")))
	var unrec guitarpro.UnrecognizedFormatError
	if !errors.As(err, &unrec) {
		t.Fatalf("got %v, expected UnrecognizedFormatError", err)
	}
	if unrec.Signature != "NOT A TABLATURE FILE" {
		t.Fatalf("got signature %q", unrec.Signature)
	}
}

func TestParseUnsupportedVersion(t *testing.T) {
	_, err := guitarpro.Parse(bytes.NewReader(signatureBytes("FICHIER GUITAR PRO v6.00")))
	var unsup guitarpro.UnsupportedVersionError
	if !errors.As(err, &unsup) {
		t.Fatalf("got %v, expected UnsupportedVersionError", err)
	}
}

func TestParseTruncatedInput(t *testing.T) {
	_, err := guitarpro.Parse(bytes.NewReader([]byte{24, 'F', 'I'}))
	var trunc guitarpro.TruncatedInputError
	if !errors.As(err, &trunc) {
		t.Fatalf("got %v, expected TruncatedInputError", err)
	}
}

func TestWriteSecondVoiceRefused(t *testing.T) {
	song := testSong()
	voice := &song.Tracks[0].Measures[0].Voices[1]
	voice.Beats = append(voice.Beats, normalBeat(6, 0))
	for _, version := range []guitarpro.Version{{Major: 3}, {Major: 4, Patch: 6}} {
		var buf bytes.Buffer
		err := guitarpro.Write(song, &buf, version)
		var unsup guitarpro.UnsupportedFeatureError
		if !errors.As(err, &unsup) {
			t.Fatalf("write %v: got %v, expected UnsupportedFeatureError", version, err)
		}
		if buf.Len() != 0 {
			t.Fatalf("write %v: refused write left %d bytes", version, buf.Len())
		}
	}
}

func TestWriteDoubleDottedRefused(t *testing.T) {
	song := testSong()
	beatAt(song, 0, 0, 0).Duration.IsDoubleDotted = true
	var buf bytes.Buffer
	err := guitarpro.Write(song, &buf, guitarpro.Version{Major: 5, Minor: 1})
	var unsup guitarpro.UnsupportedFeatureError
	if !errors.As(err, &unsup) {
		t.Fatalf("got %v, expected UnsupportedFeatureError", err)
	}
}
