package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/perlence/guitarpro"
	"github.com/perlence/guitarpro/version"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, "Guitar Pro tablature transposer. Usage:\n")
	fmt.Fprintf(os.Stderr, "gp-transpose -t <semitones> [flags] [path ...]\n")
	flag.PrintDefaults()
}

func main() {
	semitones := flag.Int("t", 0, "Number of semitones to transpose by, negative for down.")
	retune := flag.Bool("r", false, "Shift the string tunings instead of the fret values.")
	outPath := flag.String("o", "", "Filename where to write the transposed file. By default, the original file is overwritten.")
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
		if err := process(param, *outPath, *semitones, *retune); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			retval = 1
		}
	}
	os.Exit(retval)
}

func process(filename, outPath string, semitones int, retune bool) error {
	song, err := guitarpro.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("could not parse %v: %v", filename, err)
	}
	if err := transpose(song, semitones, retune); err != nil {
		return fmt.Errorf("could not transpose %v: %v", filename, err)
	}
	out := outPath
	if out == "" {
		out = filename
	}
	if err := guitarpro.WriteFile(song, out, song.Version); err != nil {
		return fmt.Errorf("could not write %v: %v", out, err)
	}
	return nil
}

// transpose shifts every sounding note of the non-percussion tracks.
// With retune the tunings move and the frets stay put, otherwise each
// fret value is shifted and must stay on the fretboard.
func transpose(song *guitarpro.Song, semitones int, retune bool) error {
	for ti := range song.Tracks {
		track := &song.Tracks[ti]
		if track.IsPercussion {
			continue
		}
		if retune {
			for si := range track.Strings {
				track.Strings[si].Value += semitones
			}
			continue
		}
		for mi := range track.Measures {
			for vi := range track.Measures[mi].Voices {
				voice := &track.Measures[mi].Voices[vi]
				for bi := range voice.Beats {
					for ni := range voice.Beats[bi].Notes {
						note := &voice.Beats[bi].Notes[ni]
						if note.Type != guitarpro.NoteTypeNormal {
							continue
						}
						value := note.Value + semitones
						if value < 0 || value > track.FretCount {
							return fmt.Errorf("track %q measure %d: fret %d out of range",
								track.Name, mi+1, value)
						}
						note.Value = value
					}
				}
			}
		}
	}
	return nil
}
