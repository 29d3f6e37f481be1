package main

import (
	"testing"

	"github.com/perlence/guitarpro"
)

func TestExport(t *testing.T) {
	song := guitarpro.NewSong()
	song.Tracks[0].Name = "Lead"
	beat := guitarpro.NewBeat()
	beat.Status = guitarpro.BeatStatusNormal
	note := guitarpro.NewNote()
	note.Type = guitarpro.NoteTypeNormal
	note.String = 1
	note.Value = 5
	beat.Notes = append(beat.Notes, note)
	song.Tracks[0].Measures[0].Voices[0].Beats = append(
		song.Tracks[0].Measures[0].Voices[0].Beats, beat)

	s := export(song)
	if got := len(s.Tracks); got != 2 {
		t.Fatalf("got %d tracks, expected a tempo track and one part", got)
	}
	var name string
	named := false
	noteOns := 0
	for _, event := range s.Tracks[1] {
		if event.Message.GetMetaTrackName(&name) {
			named = true
		}
		var channel, key, velocity uint8
		if event.Message.GetNoteOn(&channel, &key, &velocity) {
			noteOns++
		}
	}
	if !named || name != "Lead" {
		t.Fatalf("got track name %q, expected Lead", name)
	}
	if noteOns != 1 {
		t.Fatalf("got %d note-on events, expected 1", noteOns)
	}
}
