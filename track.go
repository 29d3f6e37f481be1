package guitarpro

// MidiChannel describes the playback channel assignment of a track.
type MidiChannel struct {
	Channel       int `yaml:"channel"`
	EffectChannel int `yaml:"effectChannel"`
	Instrument    int `yaml:"instrument"`
	Volume        int `yaml:"volume"`
	Balance       int `yaml:"balance"`
	Chorus        int `yaml:"chorus"`
	Reverb        int `yaml:"reverb"`
	Phaser        int `yaml:"phaser"`
	Tremolo       int `yaml:"tremolo"`
	Bank          int `yaml:"bank"`
}

// PercussionChannel is the MIDI channel reserved for percussion.
const PercussionChannel = 9

func NewMidiChannel() MidiChannel {
	return MidiChannel{
		EffectChannel: 1,
		Instrument:    25,
		Volume:        104,
		Balance:       64,
	}
}

// IsPercussion reports whether the channel is the percussion channel
// of its port.
func (c MidiChannel) IsPercussion() bool {
	return c.Channel%16 == PercussionChannel
}

// MaxStrings is the most strings a track can carry; the note records
// address strings through a seven-bit mask.
const MaxStrings = 7

// GuitarString is one string of a track with its tuning as a MIDI note
// value.
type GuitarString struct {
	Number int `yaml:"number"`
	Value  int `yaml:"value"`
}

// TrackSettings holds the notation options of a track.
type TrackSettings struct {
	Tablature        bool `yaml:"tablature"`
	Notation         bool `yaml:"notation"`
	DiagramsAreBelow bool `yaml:"diagramsAreBelow,omitempty"`
	ShowRhythm       bool `yaml:"showRhythm,omitempty"`
	ForceHorizontal  bool `yaml:"forceHorizontal,omitempty"`
	ForceChannels    bool `yaml:"forceChannels,omitempty"`
	DiagramList      bool `yaml:"diagramList"`
	DiagramsInScore  bool `yaml:"diagramsInScore,omitempty"`
	AutoLetRing      bool `yaml:"autoLetRing,omitempty"`
	AutoBrush        bool `yaml:"autoBrush,omitempty"`
	ExtendRhythmic   bool `yaml:"extendRhythmic,omitempty"`
}

func NewTrackSettings() TrackSettings {
	return TrackSettings{Tablature: true, Notation: true, DiagramList: true}
}

// Track is one instrument part. Its measures run parallel to the
// song's measure headers. Number is positional bookkeeping and does
// not take part in structural comparison.
type Track struct {
	Number         int            `yaml:"-"`
	FretCount      int            `yaml:"fretCount"`
	Offset         int            `yaml:"offset,omitempty"`
	IsPercussion   bool           `yaml:"isPercussion,omitempty"`
	Is12String     bool           `yaml:"is12String,omitempty"`
	IsBanjo        bool           `yaml:"isBanjo,omitempty"`
	IsVisible      bool           `yaml:"isVisible"`
	IsSolo         bool           `yaml:"isSolo,omitempty"`
	IsMute         bool           `yaml:"isMute,omitempty"`
	IndicateTuning bool           `yaml:"indicateTuning,omitempty"`
	Name           string         `yaml:"name"`
	Measures       []Measure      `yaml:"measures"`
	Strings        []GuitarString `yaml:"strings,flow"`
	Port           int            `yaml:"port"`
	Channel        MidiChannel    `yaml:"channel"`
	Color          Color          `yaml:"color,flow"`
	Settings       TrackSettings  `yaml:"settings"`
	UseRSE         bool           `yaml:"useRSE,omitempty"`
	RSE            TrackRSE       `yaml:"rse,omitempty"`
}

// NewTrackForSong returns a standard-tuned guitar track with one empty
// measure per measure header of the song.
func NewTrackForSong(song *Song, number int) Track {
	t := Track{
		Number:    number,
		FretCount: 24,
		IsVisible: true,
		Name:      "Track 1",
		Strings: []GuitarString{
			{1, 64}, {2, 59}, {3, 55}, {4, 50}, {5, 45}, {6, 40},
		},
		Port:     1,
		Channel:  NewMidiChannel(),
		Color:    ColorRed,
		Settings: NewTrackSettings(),
		RSE:      NewTrackRSE(),
	}
	for range song.MeasureHeaders {
		t.Measures = append(t.Measures, NewMeasure())
	}
	return t
}

// StringValue returns the tuning of the given 1-based string number.
func (t *Track) StringValue(number int) int {
	if number < 1 || number > len(t.Strings) {
		return 0
	}
	return t.Strings[number-1].Value
}
