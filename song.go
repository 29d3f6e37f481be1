package guitarpro

import "fmt"

// Song is the top level of the model. It owns the shared measure
// headers; tracks refer to them positionally, so the i-th measure of
// every track is described by MeasureHeaders[i].
type Song struct {
	Version        Version         `yaml:"-"`
	Clipboard      *Clipboard      `yaml:"clipboard,omitempty"`
	Title          string          `yaml:"title"`
	Subtitle       string          `yaml:"subtitle,omitempty"`
	Artist         string          `yaml:"artist"`
	Album          string          `yaml:"album,omitempty"`
	Words          string          `yaml:"words,omitempty"`
	Music          string          `yaml:"music,omitempty"`
	Copyright      string          `yaml:"copyright,omitempty"`
	Tab            string          `yaml:"tab,omitempty"`
	Instructions   string          `yaml:"instructions,omitempty"`
	Notice         []string        `yaml:"notice,omitempty"`
	Lyrics         Lyrics          `yaml:"lyrics,omitempty"`
	PageSetup      PageSetup       `yaml:"pageSetup,omitempty"`
	TempoName      string          `yaml:"tempoName,omitempty"`
	Tempo          int             `yaml:"tempo"`
	HideTempo      bool            `yaml:"hideTempo,omitempty"`
	Key            KeySignature    `yaml:"key,flow"`
	MeasureHeaders []MeasureHeader `yaml:"measureHeaders"`
	Tracks         []Track         `yaml:"tracks"`
	MasterEffect   RSEMasterEffect `yaml:"masterEffect,omitempty"`
}

// NewSong returns a song with one empty measure on one default track.
func NewSong() *Song {
	s := &Song{
		Lyrics:       NewLyrics(),
		PageSetup:    NewPageSetup(),
		TempoName:    "Moderate",
		Tempo:        120,
		Key:          CMajor,
		MasterEffect: NewRSEMasterEffect(),
	}
	s.MeasureHeaders = []MeasureHeader{NewMeasureHeader()}
	s.Tracks = []Track{NewTrackForSong(s, 1)}
	return s
}

// AddMeasureHeader appends a header to the song. Extending existing
// tracks with a matching measure is the caller's job; Validate checks
// the counts agree before the song is written.
func (s *Song) AddMeasureHeader(header MeasureHeader) {
	header.Number = len(s.MeasureHeaders) + 1
	s.MeasureHeaders = append(s.MeasureHeaders, header)
}

// NewMeasure appends an empty measure to every track.
func (s *Song) NewMeasure() {
	for i := range s.Tracks {
		s.Tracks[i].Measures = append(s.Tracks[i].Measures, NewMeasure())
	}
}

// Validate checks the structural invariants every writer relies on.
func (s *Song) Validate() error {
	if len(s.MeasureHeaders) == 0 {
		return fmt.Errorf("song has no measure headers")
	}
	if len(s.Tracks) == 0 {
		return fmt.Errorf("song has no tracks")
	}
	for ti := range s.Tracks {
		t := &s.Tracks[ti]
		if len(t.Measures) != len(s.MeasureHeaders) {
			return fmt.Errorf("track %d has %d measures for %d measure headers",
				ti+1, len(t.Measures), len(s.MeasureHeaders))
		}
		if len(t.Strings) == 0 {
			return fmt.Errorf("track %d has no strings", ti+1)
		}
		if len(t.Strings) > MaxStrings {
			return fmt.Errorf("track %d has %d strings, at most %d fit",
				ti+1, len(t.Strings), MaxStrings)
		}
		for mi := range t.Measures {
			measure := &t.Measures[mi]
			if n := len(measure.Voices); n != MaxVoices {
				return fmt.Errorf("track %d measure %d has %d voices, want %d",
					ti+1, mi+1, n, MaxVoices)
			}
			for vi := range measure.Voices {
				for bi := range measure.Voices[vi].Beats {
					beat := &measure.Voices[vi].Beats[bi]
					seen := 0
					for ni := range beat.Notes {
						number := beat.Notes[ni].String
						if number < 1 || number > len(t.Strings) {
							return fmt.Errorf("track %d measure %d beat %d: note on string %d of %d",
								ti+1, mi+1, bi+1, number, len(t.Strings))
						}
						if seen&(1<<number) != 0 {
							return fmt.Errorf("track %d measure %d beat %d: two notes on string %d",
								ti+1, mi+1, bi+1, number)
						}
						seen |= 1 << number
					}
				}
			}
		}
	}
	return nil
}

// Clipboard describes the selection stored in a clipboard file.
type Clipboard struct {
	StartMeasure int  `yaml:"startMeasure"`
	StopMeasure  int  `yaml:"stopMeasure"`
	StartTrack   int  `yaml:"startTrack"`
	StopTrack    int  `yaml:"stopTrack"`
	StartBeat    int  `yaml:"startBeat"`
	StopBeat     int  `yaml:"stopBeat"`
	SubBarCopy   bool `yaml:"subBarCopy"`
}

// NewClipboard returns a clipboard covering one measure of one track.
func NewClipboard() Clipboard {
	return Clipboard{
		StartMeasure: 1, StopMeasure: 1,
		StartTrack: 1, StopTrack: 1,
		StartBeat: 1, StopBeat: 1,
	}
}

// LyricLine is one line of lyrics anchored to a measure.
type LyricLine struct {
	StartingMeasure int    `yaml:"startingMeasure"`
	Lyrics          string `yaml:"lyrics"`
}

// MaxLyricLines is the number of lyric lines a track carries.
const MaxLyricLines = 5

// Lyrics is the set of lyric lines attached to one track.
type Lyrics struct {
	TrackChoice int         `yaml:"trackChoice"`
	Lines       []LyricLine `yaml:"lines"`
}

func NewLyrics() Lyrics {
	l := Lyrics{Lines: make([]LyricLine, MaxLyricLines)}
	for i := range l.Lines {
		l.Lines[i].StartingMeasure = 1
	}
	return l
}

// Point is a pair of page coordinates in millimeters.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Padding is a set of page margins.
type Padding struct {
	Right  int `yaml:"right"`
	Top    int `yaml:"top"`
	Left   int `yaml:"left"`
	Bottom int `yaml:"bottom"`
}

// HeaderFooterElements is a bit set of the song sheet header and footer
// elements.
type HeaderFooterElements int

const (
	HeaderFooterNone          HeaderFooterElements = 0x000
	HeaderFooterTitle         HeaderFooterElements = 0x001
	HeaderFooterSubtitle      HeaderFooterElements = 0x002
	HeaderFooterArtist        HeaderFooterElements = 0x004
	HeaderFooterAlbum         HeaderFooterElements = 0x008
	HeaderFooterWords         HeaderFooterElements = 0x010
	HeaderFooterMusic         HeaderFooterElements = 0x020
	HeaderFooterWordsAndMusic HeaderFooterElements = 0x040
	HeaderFooterCopyright     HeaderFooterElements = 0x080
	HeaderFooterPageNumber    HeaderFooterElements = 0x100
	HeaderFooterAll           HeaderFooterElements = 0x1ff
)

// PageSetup describes how the song sheet is laid out. The text fields
// are templates; %title%, %artist% and the like are substituted by the
// editor when rendering.
type PageSetup struct {
	PageSize            Point                `yaml:"pageSize,flow"`
	PageMargin          Padding              `yaml:"pageMargin,flow"`
	ScoreSizeProportion float64              `yaml:"scoreSizeProportion"`
	HeaderAndFooter     HeaderFooterElements `yaml:"headerAndFooter"`
	Title               string               `yaml:"title"`
	Subtitle            string               `yaml:"subtitle"`
	Artist              string               `yaml:"artist"`
	Album               string               `yaml:"album"`
	Words               string               `yaml:"words"`
	Music               string               `yaml:"music"`
	WordsAndMusic       string               `yaml:"wordsAndMusic"`
	Copyright           string               `yaml:"copyright"`
	PageNumber          string               `yaml:"pageNumber"`
}

func NewPageSetup() PageSetup {
	return PageSetup{
		PageSize:            Point{210, 297},
		PageMargin:          Padding{Right: 10, Top: 15, Left: 10, Bottom: 10},
		ScoreSizeProportion: 1.0,
		HeaderAndFooter:     HeaderFooterAll,
		Title:               "%title%",
		Subtitle:            "%subtitle%",
		Artist:              "%artist%",
		Album:               "%album%",
		Words:               "Words by %words%",
		Music:               "Music by %music%",
		WordsAndMusic:       "Words & Music by %WORDSMUSIC%",
		Copyright:           "Copyright %copyright%\nAll Rights Reserved - International Copyright Secured",
		PageNumber:          "Page %N%/%P%",
	}
}

// KeySignature is a circle-of-fifths root (-8..8, negative for flats)
// and a mode (0 major, 1 minor).
type KeySignature struct {
	Root int `yaml:"root"`
	Mode int `yaml:"mode"`
}

var (
	FMajorFlat  = KeySignature{-8, 0}
	CMajorFlat  = KeySignature{-7, 0}
	GMajorFlat  = KeySignature{-6, 0}
	DMajorFlat  = KeySignature{-5, 0}
	AMajorFlat  = KeySignature{-4, 0}
	EMajorFlat  = KeySignature{-3, 0}
	BMajorFlat  = KeySignature{-2, 0}
	FMajor      = KeySignature{-1, 0}
	CMajor      = KeySignature{0, 0}
	GMajor      = KeySignature{1, 0}
	DMajor      = KeySignature{2, 0}
	AMajor      = KeySignature{3, 0}
	EMajor      = KeySignature{4, 0}
	BMajor      = KeySignature{5, 0}
	FMajorSharp = KeySignature{6, 0}
	CMajorSharp = KeySignature{7, 0}
	GMajorSharp = KeySignature{8, 0}

	DMinorFlat  = KeySignature{-8, 1}
	AMinorFlat  = KeySignature{-7, 1}
	EMinorFlat  = KeySignature{-6, 1}
	BMinorFlat  = KeySignature{-5, 1}
	FMinor      = KeySignature{-4, 1}
	CMinor      = KeySignature{-3, 1}
	GMinor      = KeySignature{-2, 1}
	DMinor      = KeySignature{-1, 1}
	AMinor      = KeySignature{0, 1}
	EMinor      = KeySignature{1, 1}
	BMinor      = KeySignature{2, 1}
	FMinorSharp = KeySignature{3, 1}
	CMinorSharp = KeySignature{4, 1}
	GMinorSharp = KeySignature{5, 1}
	DMinorSharp = KeySignature{6, 1}
	AMinorSharp = KeySignature{7, 1}
	EMinorSharp = KeySignature{8, 1}
)

// DirectionSign is a navigation sign like Coda or Segno.
type DirectionSign struct {
	Name string `yaml:"name"`
}
