package guitarpro

// Dynamics are stored as a small scale on top of a base velocity.
const (
	MinVelocity       = 15
	VelocityIncrement = 16

	PianoPianissimo = MinVelocity
	Pianissimo      = MinVelocity + VelocityIncrement
	Piano           = MinVelocity + VelocityIncrement*2
	MezzoPiano      = MinVelocity + VelocityIncrement*3
	MezzoForte      = MinVelocity + VelocityIncrement*4
	Forte           = MinVelocity + VelocityIncrement*5
	Fortissimo      = MinVelocity + VelocityIncrement*6
	ForteFortissimo = MinVelocity + VelocityIncrement*7

	DefaultVelocity = Forte
)

// NoteType tells how a note sounds.
type NoteType int

const (
	NoteTypeRest NoteType = iota
	NoteTypeNormal
	NoteTypeTie
	NoteTypeDead
)

// SlideType is a slide articulation into, out of or between notes.
type SlideType int

const (
	SlideIntoFromAbove SlideType = -2
	SlideIntoFromBelow SlideType = -1
	SlideNone          SlideType = 0
	SlideShiftTo       SlideType = 1
	SlideLegatoTo      SlideType = 2
	SlideOutDownwards  SlideType = 3
	SlideOutUpwards    SlideType = 4
)

// Fingering is a left or right hand finger assignment.
type Fingering int

const (
	FingeringUnknown Fingering = -2
	FingeringOpen    Fingering = -1
	FingeringThumb   Fingering = 0
	FingeringIndex   Fingering = 1
	FingeringMiddle  Fingering = 2
	FingeringAnnular Fingering = 3
	FingeringLittle  Fingering = 4
)

// BendType is a bend or tremolo bar preset.
type BendType int

const (
	BendNone BendType = iota
	BendBend
	BendBendRelease
	BendBendReleaseBend
	BendPrebend
	BendPrebendRelease
	BendDip
	BendDive
	BendReleaseUp
	BendInvertedDip
	BendReturn
	BendReleaseDown
)

// Bend point geometry: positions run 0..BendMaxPosition across the
// beat, values count in BendSemitoneLength per semitone.
const (
	BendSemitoneLength = 1
	BendMaxPosition    = 12
	BendMaxValue       = BendSemitoneLength * 12
)

// BendPoint is one vertex of a bend curve.
type BendPoint struct {
	Position int  `yaml:"position"`
	Value    int  `yaml:"value"`
	Vibrato  bool `yaml:"vibrato,omitempty"`
}

// Time returns the tick within a duration at which the point is
// reached.
func (p BendPoint) Time(duration int) int {
	return duration * p.Position / BendMaxPosition
}

// BendEffect describes a string bend or a tremolo bar gesture.
type BendEffect struct {
	Type   BendType    `yaml:"type"`
	Value  int         `yaml:"value"`
	Points []BendPoint `yaml:"points,flow,omitempty"`
}

// HarmonicType discriminates the harmonic variants.
type HarmonicType int

const (
	HarmonicNatural    HarmonicType = 1
	HarmonicArtificial HarmonicType = 2
	HarmonicTapped     HarmonicType = 3
	HarmonicPinch      HarmonicType = 4
	HarmonicSemi       HarmonicType = 5
)

// HarmonicEffect is a harmonic articulation. Pitch and HarmonicOctave
// are set for artificial harmonics, Fret for tapped harmonics.
type HarmonicEffect struct {
	Type           HarmonicType `yaml:"type"`
	Pitch          *PitchClass  `yaml:"pitch,omitempty"`
	HarmonicOctave Octave       `yaml:"octave,omitempty"`
	Fret           int          `yaml:"fret,omitempty"`
}

// GraceTransition tells how a grace note connects to the main note.
type GraceTransition int

const (
	GraceTransitionNone GraceTransition = iota
	GraceTransitionSlide
	GraceTransitionBend
	GraceTransitionHammer
)

// GraceEffect is a grace note before a beat. Duration is a divisor of
// a quarter of QuarterTime.
type GraceEffect struct {
	Duration   int             `yaml:"duration"`
	Fret       int             `yaml:"fret"`
	IsDead     bool            `yaml:"isDead,omitempty"`
	IsOnBeat   bool            `yaml:"isOnBeat,omitempty"`
	Transition GraceTransition `yaml:"transition,omitempty"`
	Velocity   int             `yaml:"velocity"`
}

func NewGraceEffect() GraceEffect {
	return GraceEffect{Duration: 1, Velocity: DefaultVelocity}
}

// DurationTime returns the grace note length in ticks.
func (g GraceEffect) DurationTime() int {
	return QuarterTime / 16 * g.Duration
}

// TrillEffect is a trill between the note and a second fret.
type TrillEffect struct {
	Fret     int      `yaml:"fret"`
	Duration Duration `yaml:"duration,flow"`
}

func NewTrillEffect() TrillEffect {
	return TrillEffect{Duration: NewDuration()}
}

// TremoloPickingEffect is a tremolo picking articulation.
type TremoloPickingEffect struct {
	Duration Duration `yaml:"duration,flow"`
}

// NoteEffect gathers the effects that apply to a single note.
type NoteEffect struct {
	AccentuatedNote      bool                  `yaml:"accentuatedNote,omitempty"`
	Bend                 *BendEffect           `yaml:"bend,omitempty"`
	GhostNote            bool                  `yaml:"ghostNote,omitempty"`
	Grace                *GraceEffect          `yaml:"grace,omitempty"`
	Hammer               bool                  `yaml:"hammer,omitempty"`
	Harmonic             *HarmonicEffect       `yaml:"harmonic,omitempty"`
	HeavyAccentuatedNote bool                  `yaml:"heavyAccentuatedNote,omitempty"`
	LeftHandFinger       Fingering             `yaml:"leftHandFinger,omitempty"`
	LetRing              bool                  `yaml:"letRing,omitempty"`
	PalmMute             bool                  `yaml:"palmMute,omitempty"`
	RightHandFinger      Fingering             `yaml:"rightHandFinger,omitempty"`
	Slides               []SlideType           `yaml:"slides,flow,omitempty"`
	Staccato             bool                  `yaml:"staccato,omitempty"`
	TremoloPicking       *TremoloPickingEffect `yaml:"tremoloPicking,omitempty"`
	Trill                *TrillEffect          `yaml:"trill,omitempty"`
	Vibrato              bool                  `yaml:"vibrato,omitempty"`
}

func NewNoteEffect() NoteEffect {
	return NoteEffect{LeftHandFinger: FingeringOpen, RightHandFinger: FingeringOpen}
}

// IsBend reports whether a bend with at least one point is present.
func (e *NoteEffect) IsBend() bool {
	return e.Bend != nil && len(e.Bend.Points) > 0
}

// IsFingering reports whether either hand has a finger assigned.
func (e *NoteEffect) IsFingering() bool {
	return e.LeftHandFinger > FingeringOpen || e.RightHandFinger > FingeringOpen
}

// IsDefault reports whether the effect would serialize to an all-zero
// effects record.
func (e *NoteEffect) IsDefault() bool {
	d := NewNoteEffect()
	return e.LeftHandFinger == d.LeftHandFinger &&
		e.RightHandFinger == d.RightHandFinger &&
		e.Bend == nil &&
		e.Harmonic == nil &&
		e.Grace == nil &&
		e.Trill == nil &&
		e.TremoloPicking == nil &&
		!e.Vibrato &&
		len(e.Slides) == 0 &&
		!e.Hammer &&
		!e.PalmMute &&
		!e.Staccato &&
		!e.LetRing
}

// NoteDuration is the time-independent duration some 3.x and 4.x
// files attach to a note, kept verbatim for round-tripping.
type NoteDuration struct {
	Value  int `yaml:"value"`
	Tuplet int `yaml:"tuplet"`
}

// Note is a single fretted (or rest, tied, dead) note on a string.
type Note struct {
	Value           int           `yaml:"value"`
	Velocity        int           `yaml:"velocity"`
	String          int           `yaml:"string"`
	Effect          NoteEffect    `yaml:"effect,omitempty"`
	DurationPercent float64       `yaml:"durationPercent"`
	SwapAccidentals bool          `yaml:"swapAccidentals,omitempty"`
	Type            NoteType      `yaml:"type"`
	Independent     *NoteDuration `yaml:"independentDuration,omitempty"`
}

func NewNote() Note {
	return Note{
		Velocity:        DefaultVelocity,
		Effect:          NewNoteEffect(),
		DurationPercent: 1.0,
	}
}

// RealValue returns the sounding MIDI note, the fret value plus the
// tuning of the note's string on the given track.
func (n *Note) RealValue(track *Track) int {
	return n.Value + track.StringValue(n.String)
}

// PitchClass is a note name as a whole tone plus an accidental.
type PitchClass struct {
	Just       int    `yaml:"just"`
	Accidental int    `yaml:"accidental"`
	Value      int    `yaml:"value"`
	Intonation string `yaml:"intonation,omitempty"`
}

var pitchNames = map[string][]string{
	"sharp": {"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"},
	"flat":  {"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"},
}

// NewPitchClass builds a pitch class from a semitone number.
func NewPitchClass(semitone int) PitchClass {
	value := ((semitone % 12) + 12) % 12
	name := pitchNames["sharp"][value]
	accidental := 0
	if len(name) > 1 && name[1] == '#' {
		accidental = 1
	}
	return PitchClass{
		Just:       ((value-accidental)%12 + 12) % 12,
		Accidental: accidental,
		Value:      value,
		Intonation: "sharp",
	}
}

// NewPitchClassAccidental builds a pitch class from a whole tone and
// an accidental: flat -1, none 0, sharp 1.
func NewPitchClassAccidental(just, accidental int) PitchClass {
	just = ((just % 12) + 12) % 12
	intonation := "sharp"
	if accidental == -1 {
		intonation = "flat"
	}
	return PitchClass{
		Just:       just,
		Accidental: accidental,
		Value:      just + accidental,
		Intonation: intonation,
	}
}

func (p PitchClass) String() string {
	intonation := p.Intonation
	if intonation == "" {
		intonation = "sharp"
	}
	return pitchNames[intonation][((p.Value%12)+12)%12]
}

// ChordType is the base quality of a chord.
type ChordType int

const (
	ChordMajor ChordType = iota
	ChordSeventh
	ChordMajorSeventh
	ChordSixth
	ChordMinor
	ChordMinorSeventh
	ChordMinorMajor
	ChordMinorSixth
	ChordSuspendedSecond
	ChordSuspendedFourth
	ChordSeventhSuspendedSecond
	ChordSeventhSuspendedFourth
	ChordDiminished
	ChordAugmented
	ChordPower
)

// ChordAlteration is the tonality of a chord degree.
type ChordAlteration int

const (
	ChordAlterationPerfect ChordAlteration = iota
	ChordAlterationDiminished
	ChordAlterationAugmented
)

// ChordExtension is the highest extension of a chord.
type ChordExtension int

const (
	ChordExtensionNone ChordExtension = iota
	ChordExtensionNinth
	ChordExtensionEleventh
	ChordExtensionThirteenth
)

// Barre is a barre over a range of strings.
type Barre struct {
	Fret  int `yaml:"fret"`
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Chord is a chord diagram attached to a beat. Strings holds one fret
// per track string, -1 for unplayed. NewFormat distinguishes the
// detailed diagram introduced in the 4.x dialect from the older
// name-and-frets form.
type Chord struct {
	Sharp      bool            `yaml:"sharp,omitempty"`
	Root       PitchClass      `yaml:"root,flow,omitempty"`
	Type       ChordType       `yaml:"type,omitempty"`
	Extension  ChordExtension  `yaml:"extension,omitempty"`
	Bass       PitchClass      `yaml:"bass,flow,omitempty"`
	Tonality   ChordAlteration `yaml:"tonality,omitempty"`
	Add        bool            `yaml:"add,omitempty"`
	Name       string          `yaml:"name"`
	Fifth      ChordAlteration `yaml:"fifth,omitempty"`
	Ninth      ChordAlteration `yaml:"ninth,omitempty"`
	Eleventh   ChordAlteration `yaml:"eleventh,omitempty"`
	FirstFret  int             `yaml:"firstFret"`
	Strings    []int           `yaml:"strings,flow"`
	Barres     []Barre         `yaml:"barres,omitempty"`
	Omissions  []bool          `yaml:"omissions,flow,omitempty"`
	Fingerings []Fingering     `yaml:"fingerings,flow,omitempty"`
	Show       bool            `yaml:"show,omitempty"`
	NewFormat  bool            `yaml:"newFormat,omitempty"`
}

// NewChord returns a chord diagram with length unplayed strings.
func NewChord(length int) Chord {
	c := Chord{Strings: make([]int, length)}
	for i := range c.Strings {
		c.Strings[i] = -1
	}
	return c
}

// Notes returns the fret values of the played strings.
func (c *Chord) Notes() []int {
	var notes []int
	for _, s := range c.Strings {
		if s >= 0 {
			notes = append(notes, s)
		}
	}
	return notes
}
