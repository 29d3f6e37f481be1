package guitarpro

// RSEEqualizer is a band equalizer from the RSE engine. The master
// effect has 10 knobs, track effects have 3; values range from -6.0 to
// 5.9, gain is the knob labeled "PRE" in the editor.
type RSEEqualizer struct {
	Knobs []float64 `yaml:"knobs,flow"`
	Gain  float64   `yaml:"gain"`
}

// RSEMasterEffect is the song-wide RSE mix.
type RSEMasterEffect struct {
	Volume    int          `yaml:"volume"`
	Reverb    int          `yaml:"reverb"`
	Equalizer RSEEqualizer `yaml:"equalizer,omitempty"`
}

func NewRSEMasterEffect() RSEMasterEffect {
	return RSEMasterEffect{Equalizer: RSEEqualizer{Knobs: make([]float64, 10)}}
}

// RSEInstrument selects the RSE sound of a track.
type RSEInstrument struct {
	Instrument     int    `yaml:"instrument"`
	Unknown        int    `yaml:"unknown"`
	SoundBank      int    `yaml:"soundBank"`
	EffectNumber   int    `yaml:"effectNumber"`
	EffectCategory string `yaml:"effectCategory,omitempty"`
	Effect         string `yaml:"effect,omitempty"`
}

func NewRSEInstrument() RSEInstrument {
	return RSEInstrument{Instrument: -1, Unknown: 1, SoundBank: -1, EffectNumber: -1}
}

// Accentuation is the automatic beat accentuation of a track.
type Accentuation int

const (
	AccentuationNone Accentuation = iota
	AccentuationVerySoft
	AccentuationSoft
	AccentuationMedium
	AccentuationStrong
	AccentuationVeryStrong
)

// TrackRSE holds the RSE settings of one track.
type TrackRSE struct {
	Instrument       RSEInstrument `yaml:"instrument,omitempty"`
	Equalizer        RSEEqualizer  `yaml:"equalizer,omitempty"`
	Humanize         int           `yaml:"humanize,omitempty"`
	AutoAccentuation Accentuation  `yaml:"autoAccentuation,omitempty"`
}

func NewTrackRSE() TrackRSE {
	return TrackRSE{
		Instrument: NewRSEInstrument(),
		Equalizer:  RSEEqualizer{Knobs: make([]float64, 3)},
	}
}
