package guitarpro

// The 4.x dialect adds clipboard snippets, lyrics, a richer chord
// diagram and two-byte effect flags on beats and notes. The shared
// grammar drivers live in gp3.go.

func (sr *songReader) readSongV4(song *Song) {
	if sr.version.Clipboard {
		clipboard := sr.readClipboard()
		song.Clipboard = &clipboard
	}
	sr.readInfo(song)
	sr.tripletFeel = TripletFeelNone
	if sr.readBool() {
		sr.tripletFeel = TripletFeelEighth
	}
	song.Lyrics = sr.readLyrics()
	song.Tempo = sr.readInt()
	song.Key = KeySignature{Root: sr.readInt()}
	sr.readSignedByte() // octave
	channels := sr.readMidiChannels()
	measureCount := sr.readInt()
	trackCount := sr.readInt()
	sr.readMeasureHeaders(song, measureCount)
	sr.readTracks(song, trackCount, channels)
	sr.readMeasures(song)
}

func (sr *songReader) readClipboard() Clipboard {
	clipboard := NewClipboard()
	clipboard.StartMeasure = sr.readInt()
	clipboard.StopMeasure = sr.readInt()
	clipboard.StartTrack = sr.readInt()
	clipboard.StopTrack = sr.readInt()
	return clipboard
}

func (sr *songReader) readLyrics() Lyrics {
	lyrics := Lyrics{TrackChoice: sr.readInt()}
	for i := 0; i < MaxLyricLines; i++ {
		line := LyricLine{StartingMeasure: sr.readInt(), Lyrics: sr.readIntSizeString()}
		lyrics.Lines = append(lyrics.Lines, line)
	}
	return lyrics
}

func (sr *songReader) readNewChordV4(chord *Chord) {
	chord.Sharp = sr.readBool()
	sr.skip(3)
	chord.Root = pitchClassOf(sr.readByte(), chord.Sharp)
	chord.Type = ChordType(sr.readByte())
	chord.Extension = ChordExtension(sr.readByte())
	chord.Bass = pitchClassOf(sr.readInt(), chord.Sharp)
	chord.Tonality = ChordAlteration(sr.readInt())
	chord.Add = sr.readBool()
	chord.Name = sr.readByteSizeString(22)
	chord.Fifth = ChordAlteration(sr.readByte())
	chord.Ninth = ChordAlteration(sr.readByte())
	chord.Eleventh = ChordAlteration(sr.readByte())
	chord.FirstFret = sr.readInt()
	for i := 0; i < 7; i++ {
		fret := sr.readInt()
		if i < len(chord.Strings) {
			chord.Strings[i] = fret
		}
	}
	barresCount := sr.readByte()
	var frets, starts, ends [5]int
	for i := range frets {
		frets[i] = sr.readByte()
	}
	for i := range starts {
		starts[i] = sr.readByte()
	}
	for i := range ends {
		ends[i] = sr.readByte()
	}
	for i := 0; i < barresCount && i < 5; i++ {
		chord.Barres = append(chord.Barres, Barre{Fret: frets[i], Start: starts[i], End: ends[i]})
	}
	for i := 0; i < 7; i++ {
		chord.Omissions = append(chord.Omissions, sr.readBool())
	}
	sr.skip(1)
	for i := 0; i < 7; i++ {
		chord.Fingerings = append(chord.Fingerings, Fingering(sr.readSignedByte()))
	}
	chord.Show = sr.readBool()
}

func (sr *songReader) readBeatEffectsV4() BeatEffect {
	var effect BeatEffect
	flags1 := sr.readSignedByte()
	flags2 := sr.readSignedByte()
	effect.Vibrato = flags1&0x02 != 0 || effect.Vibrato
	effect.FadeIn = flags1&0x10 != 0
	if flags1&0x20 != 0 {
		effect.SlapEffect = SlapEffect(sr.readSignedByte())
	}
	if flags2&0x04 != 0 {
		effect.TremoloBar = sr.readBend()
	}
	if flags1&0x40 != 0 {
		stroke := sr.readBeatStroke()
		if sr.version.Major == 5 {
			stroke = stroke.SwapDirection()
		}
		effect.Stroke = stroke
	}
	effect.HasRasgueado = flags2&0x01 != 0
	if flags2&0x02 != 0 {
		effect.PickStroke = BeatStrokeDirection(sr.readSignedByte())
	}
	return effect
}

// readMixTableChangeFlags reads the per-value all-tracks bits and
// returns the raw flags for the 5.x extras.
func (sr *songReader) readMixTableChangeFlags(change *MixTableChange) int {
	flags := sr.readSignedByte()
	if change.Volume != nil {
		change.Volume.AllTracks = flags&0x01 != 0
	}
	if change.Balance != nil {
		change.Balance.AllTracks = flags&0x02 != 0
	}
	if change.Chorus != nil {
		change.Chorus.AllTracks = flags&0x04 != 0
	}
	if change.Reverb != nil {
		change.Reverb.AllTracks = flags&0x08 != 0
	}
	if change.Phaser != nil {
		change.Phaser.AllTracks = flags&0x10 != 0
	}
	if change.Tremolo != nil {
		change.Tremolo.AllTracks = flags&0x20 != 0
	}
	return flags
}

func (sr *songReader) readNoteEffectsV4(note *Note, track *Track) {
	effect := &note.Effect
	flags1 := sr.readSignedByte()
	flags2 := sr.readSignedByte()
	effect.Hammer = flags1&0x02 != 0
	effect.LetRing = flags1&0x08 != 0
	effect.Staccato = flags2&0x01 != 0
	effect.PalmMute = flags2&0x02 != 0
	effect.Vibrato = flags2&0x40 != 0 || effect.Vibrato
	if flags1&0x01 != 0 {
		effect.Bend = sr.readBend()
	}
	if flags1&0x10 != 0 {
		var grace GraceEffect
		if sr.version.Major == 5 {
			grace = sr.readGraceV5()
		} else {
			grace = sr.readGrace()
		}
		effect.Grace = &grace
	}
	if flags2&0x04 != 0 {
		effect.TremoloPicking = &TremoloPickingEffect{Duration: Duration{Value: tremoloPickingValue(sr.readSignedByte()), Tuplet: Tuplet{1, 1}}}
	}
	if flags2&0x08 != 0 {
		if sr.version.Major == 5 {
			effect.Slides = sr.readSlidesV5()
		} else {
			effect.Slides = []SlideType{SlideType(sr.readSignedByte())}
		}
	}
	if flags2&0x10 != 0 {
		var harmonic HarmonicEffect
		if sr.version.Major == 5 {
			harmonic = sr.readHarmonicV5(note)
		} else {
			harmonic = sr.readHarmonicV4(note, track)
		}
		effect.Harmonic = &harmonic
	}
	if flags2&0x20 != 0 {
		trill := sr.readTrill()
		effect.Trill = &trill
	}
}

func tremoloPickingValue(value int) int {
	switch value {
	case 1:
		return EighthNote
	case 2:
		return SixteenthNote
	case 3:
		return ThirtySecondNote
	default:
		return EighthNote
	}
}

func fromTremoloPickingValue(value int) int {
	switch value {
	case EighthNote:
		return 1
	case SixteenthNote:
		return 2
	case ThirtySecondNote:
		return 3
	default:
		return 1
	}
}

// readHarmonicV4 maps the single stored byte onto the harmonic kinds.
// Artificial harmonics are stored as the sounding interval, so the
// pitch is derived from the note's real value.
func (sr *songReader) readHarmonicV4(note *Note, track *Track) HarmonicEffect {
	realValue := note.RealValue(track)
	switch sr.readSignedByte() {
	case 1:
		return HarmonicEffect{Type: HarmonicNatural}
	case 3:
		return HarmonicEffect{Type: HarmonicTapped}
	case 4:
		return HarmonicEffect{Type: HarmonicPinch}
	case 5:
		return HarmonicEffect{Type: HarmonicSemi}
	case 15:
		pitch := NewPitchClass((realValue + 7) % 12)
		return HarmonicEffect{Type: HarmonicArtificial, Pitch: &pitch, HarmonicOctave: OctaveOttava}
	case 17:
		pitch := NewPitchClass(realValue)
		return HarmonicEffect{Type: HarmonicArtificial, Pitch: &pitch, HarmonicOctave: OctaveQuindicesima}
	case 22:
		pitch := NewPitchClass(realValue)
		return HarmonicEffect{Type: HarmonicArtificial, Pitch: &pitch, HarmonicOctave: OctaveOttava}
	default:
		sr.malformed("harmonic", "unknown harmonic kind")
		return HarmonicEffect{Type: HarmonicNatural}
	}
}

func (sr *songReader) readTrill() TrillEffect {
	trill := NewTrillEffect()
	trill.Fret = sr.readSignedByte()
	trill.Duration.Value = trillPeriodValue(sr.readSignedByte())
	return trill
}

func trillPeriodValue(value int) int {
	switch value {
	case 1:
		return SixteenthNote
	case 2:
		return ThirtySecondNote
	case 3:
		return SixtyFourthNote
	default:
		return SixteenthNote
	}
}

func fromTrillPeriodValue(value int) int {
	switch value {
	case SixteenthNote:
		return 1
	case ThirtySecondNote:
		return 2
	case SixtyFourthNote:
		return 3
	default:
		return 1
	}
}

func (sw *songWriter) writeSongV4(song *Song) {
	sw.writeVersion(versionSignature(sw.version))
	if sw.version.Clipboard {
		sw.writeClipboard(song.Clipboard)
	}
	sw.writeInfo(song)
	sw.writeBool(song.MeasureHeaders[0].TripletFeel != TripletFeelNone)
	sw.writeLyrics(&song.Lyrics)
	sw.writeInt(song.Tempo)
	sw.writeInt(song.Key.Root)
	sw.writeSignedByte(0)
	sw.writeMidiChannels(song.Tracks)
	sw.writeInt(len(song.MeasureHeaders))
	sw.writeInt(len(song.Tracks))
	sw.writeMeasureHeaders(song)
	sw.writeTracks(song.Tracks)
	sw.writeMeasures(song)
}

func (sw *songWriter) writeClipboard(clipboard *Clipboard) {
	if clipboard == nil {
		c := NewClipboard()
		clipboard = &c
	}
	sw.writeInt(clipboard.StartMeasure)
	sw.writeInt(clipboard.StopMeasure)
	sw.writeInt(clipboard.StartTrack)
	sw.writeInt(clipboard.StopTrack)
	if sw.version.Major == 5 {
		sw.writeInt(clipboard.StartBeat)
		sw.writeInt(clipboard.StopBeat)
		if clipboard.SubBarCopy {
			sw.writeInt(1)
		} else {
			sw.writeInt(0)
		}
	}
}

func (sw *songWriter) writeLyrics(lyrics *Lyrics) {
	sw.writeInt(lyrics.TrackChoice)
	for i := 0; i < MaxLyricLines; i++ {
		var line LyricLine
		if i < len(lyrics.Lines) {
			line = lyrics.Lines[i]
		} else {
			line = LyricLine{StartingMeasure: 1}
		}
		sw.writeInt(line.StartingMeasure)
		sw.writeIntSizeString(line.Lyrics)
	}
}

func (sw *songWriter) writeNewChordV4(chord *Chord) {
	sw.writeBool(chord.Sharp)
	sw.placeholder(3)
	sw.writeByte(chord.Root.Value)
	sw.writeByte(int(chord.Type))
	sw.writeByte(int(chord.Extension))
	sw.writeInt(chord.Bass.Value)
	sw.writeInt(int(chord.Tonality))
	sw.writeBool(chord.Add)
	sw.writeByteSizeString(chord.Name, 22)
	sw.writeByte(int(chord.Fifth))
	sw.writeByte(int(chord.Ninth))
	sw.writeByte(int(chord.Eleventh))
	sw.writeInt(chord.FirstFret)
	for i := 0; i < 7; i++ {
		fret := -1
		if i < len(chord.Strings) {
			fret = chord.Strings[i]
		}
		sw.writeInt(fret)
	}
	barres := chord.Barres
	if len(barres) > 5 {
		barres = barres[:5]
	}
	sw.writeByte(len(barres))
	for i := 0; i < 5; i++ {
		if i < len(barres) {
			sw.writeByte(barres[i].Fret)
		} else {
			sw.writeByte(0)
		}
	}
	for i := 0; i < 5; i++ {
		if i < len(barres) {
			sw.writeByte(barres[i].Start)
		} else {
			sw.writeByte(0)
		}
	}
	for i := 0; i < 5; i++ {
		if i < len(barres) {
			sw.writeByte(barres[i].End)
		} else {
			sw.writeByte(0)
		}
	}
	for i := 0; i < 7; i++ {
		omission := true
		if i < len(chord.Omissions) {
			omission = chord.Omissions[i]
		}
		sw.writeBool(omission)
	}
	sw.placeholder(1)
	for i := 0; i < 7; i++ {
		fingering := int(FingeringUnknown)
		if i < len(chord.Fingerings) {
			fingering = int(chord.Fingerings[i])
		}
		sw.writeSignedByte(fingering)
	}
	sw.writeBool(chord.Show)
}

func (sw *songWriter) writeBeatEffectsV4(beat *Beat) {
	effect := &beat.Effect
	flags1 := 0
	if effect.Vibrato {
		flags1 |= 0x02
	}
	if effect.FadeIn {
		flags1 |= 0x10
	}
	if effect.IsSlapEffect() {
		flags1 |= 0x20
	}
	if effect.Stroke != (BeatStroke{}) {
		flags1 |= 0x40
	}
	flags2 := 0
	if effect.HasRasgueado {
		flags2 |= 0x01
	}
	if effect.HasPickStroke() {
		flags2 |= 0x02
	}
	if effect.IsTremoloBar() {
		flags2 |= 0x04
	}
	sw.writeSignedByte(flags1)
	sw.writeSignedByte(flags2)
	if flags1&0x20 != 0 {
		sw.writeSignedByte(int(effect.SlapEffect))
	}
	if flags2&0x04 != 0 {
		sw.writeBend(effect.TremoloBar)
	}
	if flags1&0x40 != 0 {
		sw.writeBeatStroke(effect.Stroke)
	}
	if flags2&0x02 != 0 {
		sw.writeSignedByte(int(effect.PickStroke))
	}
}

func (sw *songWriter) writeMixTableChangeFlags(change *MixTableChange) {
	flags := sw.packMixTableChangeFlags(change)
	sw.writeSignedByte(flags)
}

func (sw *songWriter) packMixTableChangeFlags(change *MixTableChange) int {
	flags := 0
	if change.Volume != nil && change.Volume.AllTracks {
		flags |= 0x01
	}
	if change.Balance != nil && change.Balance.AllTracks {
		flags |= 0x02
	}
	if change.Chorus != nil && change.Chorus.AllTracks {
		flags |= 0x04
	}
	if change.Reverb != nil && change.Reverb.AllTracks {
		flags |= 0x08
	}
	if change.Phaser != nil && change.Phaser.AllTracks {
		flags |= 0x10
	}
	if change.Tremolo != nil && change.Tremolo.AllTracks {
		flags |= 0x20
	}
	return flags
}

func (sw *songWriter) writeNoteEffectsV4(track *Track, note *Note) {
	effect := &note.Effect
	flags1 := 0
	if effect.IsBend() {
		flags1 |= 0x01
	}
	if effect.Hammer {
		flags1 |= 0x02
	}
	if effect.LetRing {
		flags1 |= 0x08
	}
	if effect.Grace != nil {
		flags1 |= 0x10
	}
	flags2 := 0
	if effect.Staccato {
		flags2 |= 0x01
	}
	if effect.PalmMute {
		flags2 |= 0x02
	}
	if effect.TremoloPicking != nil {
		flags2 |= 0x04
	}
	if len(effect.Slides) > 0 {
		flags2 |= 0x08
	}
	if effect.Harmonic != nil {
		flags2 |= 0x10
	}
	if effect.Trill != nil {
		flags2 |= 0x20
	}
	if effect.Vibrato {
		flags2 |= 0x40
	}
	sw.writeSignedByte(flags1)
	sw.writeSignedByte(flags2)
	if flags1&0x01 != 0 {
		sw.writeBend(effect.Bend)
	}
	if flags1&0x10 != 0 {
		if sw.version.Major == 5 {
			sw.writeGraceV5(effect.Grace)
		} else {
			sw.writeGrace(effect.Grace)
		}
	}
	if flags2&0x04 != 0 {
		sw.writeSignedByte(fromTremoloPickingValue(effect.TremoloPicking.Duration.Value))
	}
	if flags2&0x08 != 0 {
		if sw.version.Major == 5 {
			sw.writeSlidesV5(effect.Slides)
		} else {
			sw.writeSignedByte(int(effect.Slides[0]))
		}
	}
	if flags2&0x10 != 0 {
		if sw.version.Major == 5 {
			sw.writeHarmonicV5(track, note)
		} else {
			sw.writeHarmonicV4(track, note)
		}
	}
	if flags2&0x20 != 0 {
		sw.writeSignedByte(effect.Trill.Fret)
		sw.writeSignedByte(fromTrillPeriodValue(effect.Trill.Duration.Value))
	}
}

func (sw *songWriter) writeHarmonicV4(track *Track, note *Note) {
	harmonic := note.Effect.Harmonic
	value := 0
	switch harmonic.Type {
	case HarmonicNatural:
		value = 1
	case HarmonicTapped:
		value = 3
	case HarmonicPinch:
		value = 4
	case HarmonicSemi:
		value = 5
	case HarmonicArtificial:
		realValue := note.RealValue(track)
		switch {
		case harmonic.Pitch != nil && harmonic.Pitch.Value == (realValue+7)%12 && harmonic.HarmonicOctave == OctaveOttava:
			value = 15
		case harmonic.Pitch != nil && harmonic.Pitch.Value == realValue%12 && harmonic.HarmonicOctave == OctaveQuindicesima:
			value = 17
		default:
			value = 22
		}
	}
	sw.writeSignedByte(value)
}
