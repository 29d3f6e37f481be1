package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/perlence/guitarpro"
	"github.com/perlence/guitarpro/version"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, "Guitar Pro to Standard MIDI File exporter. Usage:\n")
	fmt.Fprintf(os.Stderr, "gp-midi [flags] [path ...]\n")
	flag.PrintDefaults()
}

func main() {
	outPath := flag.String("o", "", "Filename where to write the MIDI file. By default, the file is placed next to the original with a .mid extension.")
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	retval := 0
	for _, param := range flag.Args() {
		if err := process(param, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			retval = 1
		}
	}
	os.Exit(retval)
}

func process(filename, outPath string) error {
	song, err := guitarpro.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("could not parse %v: %v", filename, err)
	}
	out := outPath
	if out == "" {
		out = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".mid"
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("could not create %v: %v", out, err)
	}
	if _, err := export(song).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("could not write %v: %v", out, err)
	}
	return f.Close()
}

type timedMessage struct {
	tick uint32
	msg  midi.Message
}

// export renders the song into a one-track-per-part MIDI file at the
// tablature tick resolution.
func export(song *guitarpro.Song) *smf.SMF {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(guitarpro.QuarterTime)

	var tempo smf.Track
	tempo.Add(0, smf.MetaTrackSequenceName(song.Title))
	tempo.Add(0, smf.MetaTempo(float64(song.Tempo)))
	previousTick := uint32(0)
	for hi := range song.MeasureHeaders {
		header := &song.MeasureHeaders[hi]
		tick := uint32(header.Start - guitarpro.QuarterTime)
		tempo.Add(tick-previousTick, smf.MetaMeter(
			uint8(header.TimeSignature.Numerator),
			uint8(header.TimeSignature.Denominator.Value)))
		previousTick = tick
	}
	tempo.Close(0)
	s.Add(tempo)

	for ti := range song.Tracks {
		track := &song.Tracks[ti]
		s.Add(exportTrack(song, track))
	}
	return s
}

func exportTrack(song *guitarpro.Song, track *guitarpro.Track) smf.Track {
	channel := uint8(track.Channel.Channel % 16)
	events := []timedMessage{
		{0, midi.Message(smf.MetaTrackSequenceName(track.Name))},
		{0, midi.ProgramChange(channel, uint8(track.Channel.Instrument&0x7f))},
	}
	for mi := range track.Measures {
		header := &song.MeasureHeaders[mi]
		for vi := range track.Measures[mi].Voices {
			voice := &track.Measures[mi].Voices[vi]
			start := header.Start
			for bi := range voice.Beats {
				beat := &voice.Beats[bi]
				duration := beat.Duration.Time()
				if beat.Status == guitarpro.BeatStatusNormal {
					events = append(events, noteEvents(track, beat, channel, start, duration)...)
				}
				start += duration
			}
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].tick < events[j].tick })
	var tr smf.Track
	previousTick := uint32(0)
	for _, event := range events {
		tr.Add(event.tick-previousTick, event.msg)
		previousTick = event.tick
	}
	tr.Close(0)
	return tr
}

func noteEvents(track *guitarpro.Track, beat *guitarpro.Beat, channel uint8, start, duration int) []timedMessage {
	var events []timedMessage
	for ni := range beat.Notes {
		note := &beat.Notes[ni]
		if note.Type != guitarpro.NoteTypeNormal {
			continue
		}
		key := note.RealValue(track)
		if key < 0 || key > 127 {
			continue
		}
		length := int(float64(duration) * note.DurationPercent)
		on := uint32(start - guitarpro.QuarterTime)
		off := on + uint32(length)
		events = append(events,
			timedMessage{on, midi.NoteOn(channel, uint8(key), uint8(note.Velocity&0x7f))},
			timedMessage{off, midi.NoteOff(channel, uint8(key))},
		)
	}
	return events
}
