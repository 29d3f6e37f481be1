package guitarpro

// BeatStatus tells whether a beat sounds, rests or is empty.
type BeatStatus int

const (
	BeatStatusEmpty BeatStatus = iota
	BeatStatusNormal
	BeatStatusRest
)

// BeatStrokeDirection is the direction of a brushed stroke or pick
// stroke.
type BeatStrokeDirection int

const (
	BeatStrokeNone BeatStrokeDirection = iota
	BeatStrokeUp
	BeatStrokeDown
)

// BeatStroke is a brushed stroke across the strings. Value is the
// stroke duration as a note value denominator.
type BeatStroke struct {
	Direction BeatStrokeDirection `yaml:"direction"`
	Value     int                 `yaml:"value"`
}

// SwapDirection returns the stroke mirrored between up and down. The
// 5.x dialect stores stroke directions inverted relative to 3.x/4.x.
func (s BeatStroke) SwapDirection() BeatStroke {
	switch s.Direction {
	case BeatStrokeUp:
		s.Direction = BeatStrokeDown
	case BeatStrokeDown:
		s.Direction = BeatStrokeUp
	}
	return s
}

// SlapEffect is a bass articulation on a beat.
type SlapEffect int

const (
	SlapEffectNone SlapEffect = iota
	SlapEffectTapping
	SlapEffectSlapping
	SlapEffectPopping
)

// BeatText is a text annotation on a beat.
type BeatText struct {
	Value string `yaml:"value"`
}

// BeatEffect gathers the effects that apply to a whole beat.
type BeatEffect struct {
	Stroke         BeatStroke          `yaml:"stroke,flow,omitempty"`
	HasRasgueado   bool                `yaml:"hasRasgueado,omitempty"`
	PickStroke     BeatStrokeDirection `yaml:"pickStroke,omitempty"`
	Chord          *Chord              `yaml:"chord,omitempty"`
	FadeIn         bool                `yaml:"fadeIn,omitempty"`
	TremoloBar     *BendEffect         `yaml:"tremoloBar,omitempty"`
	MixTableChange *MixTableChange     `yaml:"mixTableChange,omitempty"`
	SlapEffect     SlapEffect          `yaml:"slapEffect,omitempty"`
	Vibrato        bool                `yaml:"vibrato,omitempty"`
}

// IsChord reports whether the beat carries a chord diagram.
func (e *BeatEffect) IsChord() bool { return e.Chord != nil }

// IsTremoloBar reports whether the beat carries a tremolo bar effect.
func (e *BeatEffect) IsTremoloBar() bool { return e.TremoloBar != nil }

// IsSlapEffect reports whether any slap articulation is set.
func (e *BeatEffect) IsSlapEffect() bool { return e.SlapEffect != SlapEffectNone }

// HasPickStroke reports whether a pick stroke direction is set.
func (e *BeatEffect) HasPickStroke() bool { return e.PickStroke != BeatStrokeNone }

// IsDefault reports whether the effect would serialize to an all-zero
// effects record.
func (e *BeatEffect) IsDefault() bool {
	return e.Stroke == BeatStroke{} &&
		!e.HasRasgueado &&
		e.PickStroke == BeatStrokeNone &&
		!e.FadeIn &&
		!e.Vibrato &&
		e.TremoloBar == nil &&
		e.SlapEffect == SlapEffectNone
}

// TupletBracket marks the start or end of a drawn tuplet bracket.
type TupletBracket int

const (
	TupletBracketNone TupletBracket = iota
	TupletBracketStart
	TupletBracketEnd
)

// BeatDisplay holds the beaming and bracket layout of a beat.
type BeatDisplay struct {
	BreakBeam            bool           `yaml:"breakBeam,omitempty"`
	ForceBeam            bool           `yaml:"forceBeam,omitempty"`
	BeamDirection        VoiceDirection `yaml:"beamDirection,omitempty"`
	TupletBracket        TupletBracket  `yaml:"tupletBracket,omitempty"`
	BreakSecondary       int            `yaml:"breakSecondary,omitempty"`
	BreakSecondaryTuplet bool           `yaml:"breakSecondaryTuplet,omitempty"`
	ForceBracket         bool           `yaml:"forceBracket,omitempty"`
}

// Octave is an octave transposition sign.
type Octave int

const (
	OctaveNone Octave = iota
	OctaveOttava
	OctaveQuindicesima
	OctaveOttavaBassa
	OctaveQuindicesimaBassa
)

// Beat is one rhythmic position in a voice holding zero or more notes.
// Start is the absolute tick position filled during reading; it is
// bookkeeping and does not take part in structural comparison.
type Beat struct {
	Notes    []Note      `yaml:"notes"`
	Duration Duration    `yaml:"duration,flow"`
	Text     *BeatText   `yaml:"text,omitempty"`
	Start    int         `yaml:"-"`
	Effect   BeatEffect  `yaml:"effect,omitempty"`
	Octave   Octave      `yaml:"octave,omitempty"`
	Display  BeatDisplay `yaml:"display,omitempty"`
	Status   BeatStatus  `yaml:"status"`
}

func NewBeat() Beat {
	return Beat{Duration: NewDuration()}
}

// HasVibrato reports whether any note of the beat has vibrato.
func (b *Beat) HasVibrato() bool {
	for i := range b.Notes {
		if b.Notes[i].Effect.Vibrato {
			return true
		}
	}
	return false
}

// HasHarmonic returns the first harmonic effect among the beat's
// notes, or nil.
func (b *Beat) HasHarmonic() *HarmonicEffect {
	for i := range b.Notes {
		if b.Notes[i].Effect.Harmonic != nil {
			return b.Notes[i].Effect.Harmonic
		}
	}
	return nil
}

// MixTableItem is one changed mix parameter with the measure count the
// change ramps over.
type MixTableItem struct {
	Value     int  `yaml:"value"`
	Duration  int  `yaml:"duration,omitempty"`
	AllTracks bool `yaml:"allTracks,omitempty"`
}

// WahEffect is a wah pedal state: -2 off, -1 none, 0 to 100 the pedal
// position.
type WahEffect struct {
	Value   int  `yaml:"value"`
	Display bool `yaml:"display,omitempty"`
}

// IsOff reports whether the pedal is switched off.
func (w WahEffect) IsOff() bool { return w.Value == -2 }

// IsNone reports whether no wah state is stored.
func (w WahEffect) IsNone() bool { return w.Value == -1 }

// IsOn reports whether the pedal is engaged at some position.
func (w WahEffect) IsOn() bool { return w.Value >= 0 && w.Value <= 100 }

// MixTableChange is a change of mix parameters taking effect at a
// beat. Nil items mean the parameter keeps its value.
type MixTableChange struct {
	Instrument *MixTableItem `yaml:"instrument,omitempty"`
	RSE        RSEInstrument `yaml:"rse,omitempty"`
	Volume     *MixTableItem `yaml:"volume,omitempty"`
	Balance    *MixTableItem `yaml:"balance,omitempty"`
	Chorus     *MixTableItem `yaml:"chorus,omitempty"`
	Reverb     *MixTableItem `yaml:"reverb,omitempty"`
	Phaser     *MixTableItem `yaml:"phaser,omitempty"`
	Tremolo    *MixTableItem `yaml:"tremolo,omitempty"`
	TempoName  string        `yaml:"tempoName,omitempty"`
	Tempo      *MixTableItem `yaml:"tempo,omitempty"`
	HideTempo  bool          `yaml:"hideTempo,omitempty"`
	Wah        *WahEffect    `yaml:"wah,omitempty"`
	UseRSE     bool          `yaml:"useRSE,omitempty"`
}

func NewMixTableChange() MixTableChange {
	return MixTableChange{RSE: NewRSEInstrument(), HideTempo: true}
}

// IsJustWah reports whether the change sets only the wah pedal.
func (m *MixTableChange) IsJustWah() bool {
	return m.Instrument == nil && m.Volume == nil && m.Balance == nil &&
		m.Chorus == nil && m.Reverb == nil && m.Phaser == nil &&
		m.Tremolo == nil && m.Tempo == nil && m.Wah != nil
}
