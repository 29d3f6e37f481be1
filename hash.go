package guitarpro

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Structural hashing, consistent with Equal: entities that compare
// equal hash equal, and the excluded bookkeeping fields are excluded
// here too. Used to bucket measures and beats when diffing songs.

type hasher struct {
	sum uint64
}

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

func newHasher() *hasher {
	return &hasher{sum: fnvOffset}
}

func (h *hasher) bytes(b []byte) {
	for _, c := range b {
		h.sum ^= uint64(c)
		h.sum *= fnvPrime
	}
}

func (h *hasher) int(v int) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	h.bytes(b[:])
}

func (h *hasher) bool(v bool) {
	if v {
		h.bytes([]byte{1})
	} else {
		h.bytes([]byte{0})
	}
}

func (h *hasher) float(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	h.bytes(b[:])
}

func (h *hasher) str(s string) {
	f := fnv.New64a()
	f.Write([]byte(s))
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], f.Sum64())
	h.bytes(b[:])
	h.int(len(s))
}

func (d Duration) hash(h *hasher) {
	h.int(d.Value)
	h.bool(d.IsDotted)
	h.bool(d.IsDoubleDotted)
	h.int(d.Tuplet.Enters)
	h.int(d.Tuplet.Times)
}

// Hash returns a structural hash of the duration.
func (d Duration) Hash() uint64 {
	h := newHasher()
	d.hash(h)
	return h.sum
}

func (b *BendEffect) hash(h *hasher) {
	h.int(int(b.Type))
	h.int(b.Value)
	h.int(len(b.Points))
	for _, p := range b.Points {
		h.int(p.Position)
		h.int(p.Value)
		h.bool(p.Vibrato)
	}
}

func (e *HarmonicEffect) hash(h *hasher) {
	h.int(int(e.Type))
	if e.Pitch != nil {
		h.int(e.Pitch.Just)
		h.int(e.Pitch.Accidental)
	}
	h.int(int(e.HarmonicOctave))
	h.int(e.Fret)
}

func (e *NoteEffect) hash(h *hasher) {
	h.bool(e.AccentuatedNote)
	if e.Bend != nil {
		e.Bend.hash(h)
	}
	h.bool(e.GhostNote)
	if e.Grace != nil {
		h.int(e.Grace.Duration)
		h.int(e.Grace.Fret)
		h.bool(e.Grace.IsDead)
		h.bool(e.Grace.IsOnBeat)
		h.int(int(e.Grace.Transition))
		h.int(e.Grace.Velocity)
	}
	h.bool(e.Hammer)
	if e.Harmonic != nil {
		e.Harmonic.hash(h)
	}
	h.bool(e.HeavyAccentuatedNote)
	h.int(int(e.LeftHandFinger))
	h.bool(e.LetRing)
	h.bool(e.PalmMute)
	h.int(int(e.RightHandFinger))
	h.int(len(e.Slides))
	for _, s := range e.Slides {
		h.int(int(s))
	}
	h.bool(e.Staccato)
	if e.TremoloPicking != nil {
		e.TremoloPicking.Duration.hash(h)
	}
	if e.Trill != nil {
		h.int(e.Trill.Fret)
		e.Trill.Duration.hash(h)
	}
	h.bool(e.Vibrato)
}

func (n *Note) hash(h *hasher) {
	h.int(n.Value)
	h.int(n.Velocity)
	h.int(n.String)
	n.Effect.hash(h)
	h.float(n.DurationPercent)
	h.bool(n.SwapAccidentals)
	h.int(int(n.Type))
	if n.Independent != nil {
		h.int(n.Independent.Value)
		h.int(n.Independent.Tuplet)
	}
}

// Hash returns a structural hash of the note.
func (n *Note) Hash() uint64 {
	h := newHasher()
	n.hash(h)
	return h.sum
}

func (c *Chord) hash(h *hasher) {
	h.bool(c.Sharp)
	h.int(c.Root.Value)
	h.int(int(c.Type))
	h.int(int(c.Extension))
	h.int(c.Bass.Value)
	h.int(int(c.Tonality))
	h.bool(c.Add)
	h.str(c.Name)
	h.int(int(c.Fifth))
	h.int(int(c.Ninth))
	h.int(int(c.Eleventh))
	h.int(c.FirstFret)
	h.int(len(c.Strings))
	for _, s := range c.Strings {
		h.int(s)
	}
	h.int(len(c.Barres))
	for _, b := range c.Barres {
		h.int(b.Fret)
		h.int(b.Start)
		h.int(b.End)
	}
	h.int(len(c.Omissions))
	for _, o := range c.Omissions {
		h.bool(o)
	}
	h.int(len(c.Fingerings))
	for _, f := range c.Fingerings {
		h.int(int(f))
	}
	h.bool(c.Show)
	h.bool(c.NewFormat)
}

// Hash returns a structural hash of the chord.
func (c *Chord) Hash() uint64 {
	h := newHasher()
	c.hash(h)
	return h.sum
}

func (e *BeatEffect) hash(h *hasher) {
	h.int(int(e.Stroke.Direction))
	h.int(e.Stroke.Value)
	h.bool(e.HasRasgueado)
	h.int(int(e.PickStroke))
	if e.Chord != nil {
		e.Chord.hash(h)
	}
	h.bool(e.FadeIn)
	if e.TremoloBar != nil {
		e.TremoloBar.hash(h)
	}
	if e.MixTableChange != nil {
		e.MixTableChange.hash(h)
	}
	h.int(int(e.SlapEffect))
	h.bool(e.Vibrato)
}

func (m *MixTableChange) hash(h *hasher) {
	item := func(it *MixTableItem) {
		if it == nil {
			h.bool(false)
			return
		}
		h.bool(true)
		h.int(it.Value)
		h.int(it.Duration)
		h.bool(it.AllTracks)
	}
	item(m.Instrument)
	h.int(m.RSE.Instrument)
	h.int(m.RSE.SoundBank)
	h.int(m.RSE.EffectNumber)
	h.str(m.RSE.Effect)
	h.str(m.RSE.EffectCategory)
	item(m.Volume)
	item(m.Balance)
	item(m.Chorus)
	item(m.Reverb)
	item(m.Phaser)
	item(m.Tremolo)
	h.str(m.TempoName)
	item(m.Tempo)
	h.bool(m.HideTempo)
	if m.Wah != nil {
		h.int(m.Wah.Value)
		h.bool(m.Wah.Display)
	}
	h.bool(m.UseRSE)
}

func (b *Beat) hash(h *hasher) {
	h.int(len(b.Notes))
	for i := range b.Notes {
		b.Notes[i].hash(h)
	}
	b.Duration.hash(h)
	if b.Text != nil {
		h.str(b.Text.Value)
	}
	b.Effect.hash(h)
	h.int(int(b.Octave))
	h.bool(b.Display.BreakBeam)
	h.bool(b.Display.ForceBeam)
	h.int(int(b.Display.BeamDirection))
	h.int(int(b.Display.TupletBracket))
	h.int(b.Display.BreakSecondary)
	h.bool(b.Display.BreakSecondaryTuplet)
	h.bool(b.Display.ForceBracket)
	h.int(int(b.Status))
}

// Hash returns a structural hash of the beat.
func (b *Beat) Hash() uint64 {
	h := newHasher()
	b.hash(h)
	return h.sum
}

func (v *Voice) hash(h *hasher) {
	h.int(len(v.Beats))
	for i := range v.Beats {
		v.Beats[i].hash(h)
	}
	h.int(int(v.Direction))
}

// Hash returns a structural hash of the voice.
func (v *Voice) Hash() uint64 {
	h := newHasher()
	v.hash(h)
	return h.sum
}

func (m *Measure) hash(h *hasher) {
	h.int(int(m.Clef))
	h.int(len(m.Voices))
	for i := range m.Voices {
		m.Voices[i].hash(h)
	}
	h.int(int(m.LineBreak))
}

// Hash returns a structural hash of the measure, independent of its
// header and position in the song.
func (m *Measure) Hash() uint64 {
	h := newHasher()
	m.hash(h)
	return h.sum
}

func (mh *MeasureHeader) hash(h *hasher) {
	h.bool(mh.HasDoubleBar)
	h.int(mh.KeySignature.Root)
	h.int(mh.KeySignature.Mode)
	h.int(mh.TimeSignature.Numerator)
	mh.TimeSignature.Denominator.hash(h)
	for _, b := range mh.TimeSignature.Beams {
		h.int(b)
	}
	h.int(mh.Tempo)
	if mh.Marker != nil {
		h.str(mh.Marker.Title)
		h.int(mh.Marker.Color.R)
		h.int(mh.Marker.Color.G)
		h.int(mh.Marker.Color.B)
	}
	h.bool(mh.IsRepeatOpen)
	h.int(mh.RepeatAlternative)
	h.int(mh.RepeatClose)
	h.int(int(mh.TripletFeel))
	if mh.Direction != nil {
		h.str(mh.Direction.Name)
	}
	if mh.FromDirection != nil {
		h.str(mh.FromDirection.Name)
	}
}

// Hash returns a structural hash of the header, independent of its
// number and start tick.
func (mh *MeasureHeader) Hash() uint64 {
	h := newHasher()
	mh.hash(h)
	return h.sum
}
