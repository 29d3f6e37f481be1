package guitarpro_test

import (
	"bytes"
	"testing"

	"github.com/perlence/guitarpro"
)

func TestSongEqualIgnoresBookkeeping(t *testing.T) {
	a := guitarpro.NewSong()
	b := guitarpro.NewSong()
	b.Version = guitarpro.Version{Major: 5, Minor: 1}
	b.MeasureHeaders[0].Number = 42
	b.MeasureHeaders[0].Start = 123456
	b.Tracks[0].Number = 7
	if !a.Equal(b) {
		t.Fatalf("songs differing only in bookkeeping fields compare unequal")
	}
}

func TestSongEqualDetectsChanges(t *testing.T) {
	a := guitarpro.NewSong()
	b := guitarpro.NewSong()
	b.Tracks[0].Strings[5].Value--
	if a.Equal(b) {
		t.Fatalf("songs with different tunings compare equal")
	}
}

func TestMeasureHashMatchesEqual(t *testing.T) {
	// Each measure gets its own beat so mutating one cannot reach
	// into the other through a shared note slice.
	newBeat := func() guitarpro.Beat {
		beat := guitarpro.NewBeat()
		beat.Status = guitarpro.BeatStatusNormal
		note := guitarpro.NewNote()
		note.Type = guitarpro.NoteTypeNormal
		note.Value = 5
		note.String = 1
		beat.Notes = append(beat.Notes, note)
		return beat
	}
	a := guitarpro.NewMeasure()
	a.Voices[0].Beats = append(a.Voices[0].Beats, newBeat())
	b := guitarpro.NewMeasure()
	b.Voices[0].Beats = append(b.Voices[0].Beats, newBeat())
	if !a.Equal(&b) || a.Hash() != b.Hash() {
		t.Fatalf("identical measures should compare and hash equal")
	}
	b.Voices[0].Beats[0].Notes[0].Value = 7
	if a.Equal(&b) {
		t.Fatalf("measures with different notes compare equal")
	}
	if a.Hash() == b.Hash() {
		t.Fatalf("measures with different notes hash equal")
	}
	// start ticks are bookkeeping
	b.Voices[0].Beats[0].Notes[0].Value = 5
	b.Voices[0].Beats[0].Start = 960
	if a.Hash() != b.Hash() {
		t.Fatalf("beat start tick should not change the hash")
	}
}

func TestValidate(t *testing.T) {
	song := guitarpro.NewSong()
	if err := song.Validate(); err != nil {
		t.Fatalf("default song should validate, got: %v", err)
	}
	song.AddMeasureHeader(guitarpro.NewMeasureHeader())
	if err := song.Validate(); err == nil {
		t.Fatalf("track with a missing measure should not validate")
	}
	song.NewMeasure()
	if err := song.Validate(); err != nil {
		t.Fatalf("song should validate after adding the measure, got: %v", err)
	}
}

func TestValidateNoteStrings(t *testing.T) {
	withNotes := func(strings ...int) *guitarpro.Song {
		song := guitarpro.NewSong()
		beat := guitarpro.NewBeat()
		beat.Status = guitarpro.BeatStatusNormal
		for _, number := range strings {
			note := guitarpro.NewNote()
			note.Type = guitarpro.NoteTypeNormal
			note.String = number
			beat.Notes = append(beat.Notes, note)
		}
		song.Tracks[0].Measures[0].Voices[0].Beats = append(
			song.Tracks[0].Measures[0].Voices[0].Beats, beat)
		return song
	}
	if err := withNotes(1, 6).Validate(); err != nil {
		t.Fatalf("notes on distinct strings should validate, got: %v", err)
	}
	if err := withNotes(9).Validate(); err == nil {
		t.Fatalf("note beyond the track's strings should not validate")
	}
	if err := withNotes(0).Validate(); err == nil {
		t.Fatalf("note on string 0 should not validate")
	}
	if err := withNotes(3, 3).Validate(); err == nil {
		t.Fatalf("two notes on one string should not validate")
	}
	var buf bytes.Buffer
	err := guitarpro.Write(withNotes(9), &buf, guitarpro.Version{Major: 5, Minor: 1})
	if err == nil || buf.Len() != 0 {
		t.Fatalf("write of a note beyond the track's strings should fail cleanly, got %v and %d bytes", err, buf.Len())
	}
}

func TestPitchClass(t *testing.T) {
	cSharp := guitarpro.NewPitchClass(1)
	if cSharp.String() != "C#" {
		t.Fatalf("got %q, expected C#", cSharp.String())
	}
	dFlat := guitarpro.NewPitchClassAccidental(2, -1)
	if dFlat.String() != "Db" {
		t.Fatalf("got %q, expected Db", dFlat.String())
	}
	if dFlat.Value != 1 {
		t.Fatalf("Db value got %v, expected 1", dFlat.Value)
	}
}

func TestNoteRealValue(t *testing.T) {
	song := guitarpro.NewSong()
	note := guitarpro.NewNote()
	note.String = 6
	note.Value = 5
	if got := note.RealValue(&song.Tracks[0]); got != 45 {
		t.Fatalf("got %v, expected 45", got)
	}
}
