package guitarpro

// TripletFeel is the swing feel applied from a measure onwards.
type TripletFeel int

const (
	TripletFeelNone TripletFeel = iota
	TripletFeelEighth
	TripletFeelSixteenth
)

// TimeSignature is a measure time signature. Beams gives the eighth
// note grouping used for beaming, four entries summing to twice the
// numerator in common signatures.
type TimeSignature struct {
	Numerator   int      `yaml:"numerator"`
	Denominator Duration `yaml:"denominator,flow"`
	Beams       []int    `yaml:"beams,flow,omitempty"`
}

func NewTimeSignature() TimeSignature {
	return TimeSignature{
		Numerator:   4,
		Denominator: NewDuration(),
		Beams:       []int{2, 2, 2, 2},
	}
}

// Color is an RGB color.
type Color struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

var (
	ColorBlack = Color{0, 0, 0}
	ColorRed   = Color{255, 0, 0}
)

// Marker is a named section mark on a measure.
type Marker struct {
	Title string `yaml:"title"`
	Color Color  `yaml:"color,flow"`
}

func NewMarker() Marker {
	return Marker{Title: "Section", Color: ColorRed}
}

// MeasureHeader carries the measure attributes shared by all tracks.
// Number and Start are positional bookkeeping and do not take part in
// structural comparison.
type MeasureHeader struct {
	Number            int            `yaml:"-"`
	Start             int            `yaml:"-"`
	HasDoubleBar      bool           `yaml:"hasDoubleBar,omitempty"`
	KeySignature      KeySignature   `yaml:"keySignature,flow"`
	TimeSignature     TimeSignature  `yaml:"timeSignature"`
	Tempo             int            `yaml:"tempo"`
	Marker            *Marker        `yaml:"marker,omitempty"`
	IsRepeatOpen      bool           `yaml:"isRepeatOpen,omitempty"`
	RepeatAlternative int            `yaml:"repeatAlternative,omitempty"`
	RepeatClose       int            `yaml:"repeatClose,omitempty"`
	TripletFeel       TripletFeel    `yaml:"tripletFeel,omitempty"`
	Direction         *DirectionSign `yaml:"direction,omitempty"`
	FromDirection     *DirectionSign `yaml:"fromDirection,omitempty"`
}

func NewMeasureHeader() MeasureHeader {
	return MeasureHeader{
		Number:        1,
		Start:         QuarterTime,
		KeySignature:  CMajor,
		TimeSignature: NewTimeSignature(),
		Tempo:         120,
		RepeatClose:   -1,
	}
}

// Length returns the measure length in ticks.
func (h *MeasureHeader) Length() int {
	return h.TimeSignature.Numerator * h.TimeSignature.Denominator.Time()
}

// End returns the tick just past the measure.
func (h *MeasureHeader) End() int {
	return h.Start + h.Length()
}

// MeasureClef is the clef drawn on a measure staff.
type MeasureClef int

const (
	ClefTreble MeasureClef = iota
	ClefBass
	ClefTenor
	ClefAlto
)

// LineBreak is a layout directive on a measure.
type LineBreak int

const (
	LineBreakNone LineBreak = iota
	LineBreakBreak
	LineBreakProtect
)

// MaxVoices is the number of voices every measure holds.
const MaxVoices = 2

// Measure holds the beats of one track within one measure. It stores
// no reference to its header; the header is found through the song by
// position.
type Measure struct {
	Clef      MeasureClef `yaml:"clef,omitempty"`
	Voices    []Voice     `yaml:"voices"`
	LineBreak LineBreak   `yaml:"lineBreak,omitempty"`
}

func NewMeasure() Measure {
	return Measure{Voices: make([]Voice, MaxVoices)}
}

// IsEmpty reports whether no voice has any beats.
func (m *Measure) IsEmpty() bool {
	for i := range m.Voices {
		if len(m.Voices[i].Beats) > 0 {
			return false
		}
	}
	return true
}

// VoiceDirection indicates the beam direction of a voice.
type VoiceDirection int

const (
	VoiceDirectionNone VoiceDirection = iota
	VoiceDirectionUp
	VoiceDirectionDown
)

// Voice is one stream of beats within a measure.
type Voice struct {
	Beats     []Beat         `yaml:"beats"`
	Direction VoiceDirection `yaml:"direction,omitempty"`
}

// IsEmpty reports whether the voice has no beats.
func (v *Voice) IsEmpty() bool {
	return len(v.Beats) == 0
}

// StartInMeasure returns the tick offset of the i-th beat from the
// start of the measure, the sum of the preceding beat durations.
func (v *Voice) StartInMeasure(i int) int {
	start := 0
	for j := 0; j < i && j < len(v.Beats); j++ {
		start += v.Beats[j].Duration.Time()
	}
	return start
}

// RealStart returns the same offset as StartInMeasure.
//
// Deprecated: use StartInMeasure.
func (v *Voice) RealStart(i int) int {
	return v.StartInMeasure(i)
}
