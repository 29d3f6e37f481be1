package guitarpro

// Structural comparison of the model. Positional bookkeeping fields
// (Song.Version, MeasureHeader.Number and Start, Track.Number,
// Beat.Start) are excluded, so two songs that contain the same music
// compare equal regardless of how they were produced.

func equalSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalFunc[T any](a, b []T, eq func(*T, *T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(&a[i], &b[i]) {
			return false
		}
	}
	return true
}

func equalPtr[T comparable](a, b *T) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func equalPtrFunc[T any](a, b *T, eq func(*T, *T) bool) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || eq(a, b)
}

// Equal reports whether two songs contain the same music and metadata.
func (s *Song) Equal(o *Song) bool {
	return equalPtr(s.Clipboard, o.Clipboard) &&
		s.Title == o.Title &&
		s.Subtitle == o.Subtitle &&
		s.Artist == o.Artist &&
		s.Album == o.Album &&
		s.Words == o.Words &&
		s.Music == o.Music &&
		s.Copyright == o.Copyright &&
		s.Tab == o.Tab &&
		s.Instructions == o.Instructions &&
		equalSlices(s.Notice, o.Notice) &&
		s.Lyrics.Equal(&o.Lyrics) &&
		s.PageSetup == o.PageSetup &&
		s.TempoName == o.TempoName &&
		s.Tempo == o.Tempo &&
		s.HideTempo == o.HideTempo &&
		s.Key == o.Key &&
		equalFunc(s.MeasureHeaders, o.MeasureHeaders, (*MeasureHeader).Equal) &&
		equalFunc(s.Tracks, o.Tracks, (*Track).Equal) &&
		s.MasterEffect.Equal(&o.MasterEffect)
}

func (l *Lyrics) Equal(o *Lyrics) bool {
	return l.TrackChoice == o.TrackChoice && equalSlices(l.Lines, o.Lines)
}

func (t *TimeSignature) Equal(o *TimeSignature) bool {
	return t.Numerator == o.Numerator &&
		t.Denominator == o.Denominator &&
		equalSlices(t.Beams, o.Beams)
}

func (h *MeasureHeader) Equal(o *MeasureHeader) bool {
	return h.HasDoubleBar == o.HasDoubleBar &&
		h.KeySignature == o.KeySignature &&
		h.TimeSignature.Equal(&o.TimeSignature) &&
		h.Tempo == o.Tempo &&
		equalPtr(h.Marker, o.Marker) &&
		h.IsRepeatOpen == o.IsRepeatOpen &&
		h.RepeatAlternative == o.RepeatAlternative &&
		h.RepeatClose == o.RepeatClose &&
		h.TripletFeel == o.TripletFeel &&
		equalPtr(h.Direction, o.Direction) &&
		equalPtr(h.FromDirection, o.FromDirection)
}

func (t *Track) Equal(o *Track) bool {
	return t.FretCount == o.FretCount &&
		t.Offset == o.Offset &&
		t.IsPercussion == o.IsPercussion &&
		t.Is12String == o.Is12String &&
		t.IsBanjo == o.IsBanjo &&
		t.IsVisible == o.IsVisible &&
		t.IsSolo == o.IsSolo &&
		t.IsMute == o.IsMute &&
		t.IndicateTuning == o.IndicateTuning &&
		t.Name == o.Name &&
		equalFunc(t.Measures, o.Measures, (*Measure).Equal) &&
		equalSlices(t.Strings, o.Strings) &&
		t.Port == o.Port &&
		t.Channel == o.Channel &&
		t.Color == o.Color &&
		t.Settings == o.Settings &&
		t.UseRSE == o.UseRSE &&
		t.RSE.Equal(&o.RSE)
}

func (m *Measure) Equal(o *Measure) bool {
	return m.Clef == o.Clef &&
		equalFunc(m.Voices, o.Voices, (*Voice).Equal) &&
		m.LineBreak == o.LineBreak
}

func (v *Voice) Equal(o *Voice) bool {
	return equalFunc(v.Beats, o.Beats, (*Beat).Equal) &&
		v.Direction == o.Direction
}

func (b *Beat) Equal(o *Beat) bool {
	return equalFunc(b.Notes, o.Notes, (*Note).Equal) &&
		b.Duration == o.Duration &&
		equalPtr(b.Text, o.Text) &&
		b.Effect.Equal(&o.Effect) &&
		b.Octave == o.Octave &&
		b.Display == o.Display &&
		b.Status == o.Status
}

func (e *BeatEffect) Equal(o *BeatEffect) bool {
	return e.Stroke == o.Stroke &&
		e.HasRasgueado == o.HasRasgueado &&
		e.PickStroke == o.PickStroke &&
		equalPtrFunc(e.Chord, o.Chord, (*Chord).Equal) &&
		e.FadeIn == o.FadeIn &&
		equalPtrFunc(e.TremoloBar, o.TremoloBar, (*BendEffect).Equal) &&
		equalPtrFunc(e.MixTableChange, o.MixTableChange, (*MixTableChange).Equal) &&
		e.SlapEffect == o.SlapEffect &&
		e.Vibrato == o.Vibrato
}

func (n *Note) Equal(o *Note) bool {
	return n.Value == o.Value &&
		n.Velocity == o.Velocity &&
		n.String == o.String &&
		n.Effect.Equal(&o.Effect) &&
		n.DurationPercent == o.DurationPercent &&
		n.SwapAccidentals == o.SwapAccidentals &&
		n.Type == o.Type &&
		equalPtr(n.Independent, o.Independent)
}

func (e *NoteEffect) Equal(o *NoteEffect) bool {
	return e.AccentuatedNote == o.AccentuatedNote &&
		equalPtrFunc(e.Bend, o.Bend, (*BendEffect).Equal) &&
		e.GhostNote == o.GhostNote &&
		equalPtr(e.Grace, o.Grace) &&
		e.Hammer == o.Hammer &&
		equalPtrFunc(e.Harmonic, o.Harmonic, (*HarmonicEffect).Equal) &&
		e.HeavyAccentuatedNote == o.HeavyAccentuatedNote &&
		e.LeftHandFinger == o.LeftHandFinger &&
		e.LetRing == o.LetRing &&
		e.PalmMute == o.PalmMute &&
		e.RightHandFinger == o.RightHandFinger &&
		equalSlices(e.Slides, o.Slides) &&
		e.Staccato == o.Staccato &&
		equalPtr(e.TremoloPicking, o.TremoloPicking) &&
		equalPtr(e.Trill, o.Trill) &&
		e.Vibrato == o.Vibrato
}

func (b *BendEffect) Equal(o *BendEffect) bool {
	return b.Type == o.Type &&
		b.Value == o.Value &&
		equalSlices(b.Points, o.Points)
}

func (h *HarmonicEffect) Equal(o *HarmonicEffect) bool {
	return h.Type == o.Type &&
		equalPtr(h.Pitch, o.Pitch) &&
		h.HarmonicOctave == o.HarmonicOctave &&
		h.Fret == o.Fret
}

func (c *Chord) Equal(o *Chord) bool {
	return c.Sharp == o.Sharp &&
		c.Root == o.Root &&
		c.Type == o.Type &&
		c.Extension == o.Extension &&
		c.Bass == o.Bass &&
		c.Tonality == o.Tonality &&
		c.Add == o.Add &&
		c.Name == o.Name &&
		c.Fifth == o.Fifth &&
		c.Ninth == o.Ninth &&
		c.Eleventh == o.Eleventh &&
		c.FirstFret == o.FirstFret &&
		equalSlices(c.Strings, o.Strings) &&
		equalSlices(c.Barres, o.Barres) &&
		equalSlices(c.Omissions, o.Omissions) &&
		equalSlices(c.Fingerings, o.Fingerings) &&
		c.Show == o.Show &&
		c.NewFormat == o.NewFormat
}

func (m *MixTableChange) Equal(o *MixTableChange) bool {
	return equalPtr(m.Instrument, o.Instrument) &&
		m.RSE == o.RSE &&
		equalPtr(m.Volume, o.Volume) &&
		equalPtr(m.Balance, o.Balance) &&
		equalPtr(m.Chorus, o.Chorus) &&
		equalPtr(m.Reverb, o.Reverb) &&
		equalPtr(m.Phaser, o.Phaser) &&
		equalPtr(m.Tremolo, o.Tremolo) &&
		m.TempoName == o.TempoName &&
		equalPtr(m.Tempo, o.Tempo) &&
		m.HideTempo == o.HideTempo &&
		equalPtr(m.Wah, o.Wah) &&
		m.UseRSE == o.UseRSE
}

func (e *RSEEqualizer) Equal(o *RSEEqualizer) bool {
	return equalSlices(e.Knobs, o.Knobs) && e.Gain == o.Gain
}

func (e *RSEMasterEffect) Equal(o *RSEMasterEffect) bool {
	return e.Volume == o.Volume &&
		e.Reverb == o.Reverb &&
		e.Equalizer.Equal(&o.Equalizer)
}

func (r *TrackRSE) Equal(o *TrackRSE) bool {
	return r.Instrument == o.Instrument &&
		r.Equalizer.Equal(&o.Equalizer) &&
		r.Humanize == o.Humanize &&
		r.AutoAccentuation == o.AutoAccentuation
}
