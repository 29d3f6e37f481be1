package guitarpro

import (
	"math"
	"math/bits"
)

// The 5.x dialect splits the author credit into words and music, adds
// page setup, navigation signs, RSE settings and a second voice per
// measure. 5.0.0 and the later 5.1/5.2 files differ in a handful of
// records, branched on after500.

// directionSignNames is the fixed order navigation signs are stored in.
var directionSignNames = []string{
	"Coda",
	"Double Coda",
	"Segno",
	"Segno Segno",
	"Fine",
	"Da Capo",
	"Da Capo al Coda",
	"Da Capo al Double Coda",
	"Da Capo al Fine",
	"Da Segno",
	"Da Segno al Coda",
	"Da Segno al Double Coda",
	"Da Segno al Fine",
	"Da Segno Segno",
	"Da Segno Segno al Coda",
	"Da Segno Segno al Double Coda",
	"Da Segno Segno al Fine",
	"Da Coda",
	"Da Double Coda",
}

func (sr *songReader) readSongV5(song *Song) {
	if sr.version.Clipboard {
		clipboard := sr.readClipboard()
		clipboard.StartBeat = sr.readInt()
		clipboard.StopBeat = sr.readInt()
		clipboard.SubBarCopy = sr.readInt() != 0
		song.Clipboard = &clipboard
	}
	sr.readInfoV5(song)
	song.Lyrics = sr.readLyrics()
	song.MasterEffect = sr.readRSEMasterEffect()
	song.PageSetup = sr.readPageSetup()
	song.TempoName = sr.readIntByteSizeString()
	song.Tempo = sr.readInt()
	if sr.version.after500() {
		song.HideTempo = sr.readBool()
	}
	song.Key = KeySignature{Root: sr.readSignedByte()}
	sr.readInt() // octave
	channels := sr.readMidiChannels()
	directions := sr.readDirections()
	song.MasterEffect.Reverb = sr.readInt()
	measureCount := sr.readInt()
	trackCount := sr.readInt()
	sr.readMeasureHeaders(song, measureCount)
	applyDirections(song, directions)
	sr.readTracks(song, trackCount, channels)
	sr.readMeasures(song)
}

// readInfoV5 reads the score information with separate words and music
// credits.
func (sr *songReader) readInfoV5(song *Song) {
	song.Title = sr.readIntByteSizeString()
	song.Subtitle = sr.readIntByteSizeString()
	song.Artist = sr.readIntByteSizeString()
	song.Album = sr.readIntByteSizeString()
	song.Words = sr.readIntByteSizeString()
	song.Music = sr.readIntByteSizeString()
	song.Copyright = sr.readIntByteSizeString()
	song.Tab = sr.readIntByteSizeString()
	song.Instructions = sr.readIntByteSizeString()
	count := sr.readInt()
	for i := 0; i < count && sr.err == nil; i++ {
		song.Notice = append(song.Notice, sr.readIntByteSizeString())
	}
}

func (sr *songReader) readRSEMasterEffect() RSEMasterEffect {
	effect := NewRSEMasterEffect()
	if sr.version.after500() {
		effect.Volume = sr.readInt()
		sr.readInt()
		effect.Equalizer = sr.readEqualizer(11)
	}
	return effect
}

// An equalizer knob byte stores tenths of a decibel of attenuation.
func unpackVolumeValue(value int) float64 {
	return -float64(value) / 10
}

func packVolumeValue(value float64) int {
	return -int(math.Round(value * 10))
}

func (sr *songReader) readEqualizer(knobCount int) RSEEqualizer {
	knobs := make([]float64, knobCount)
	for i := range knobs {
		knobs[i] = unpackVolumeValue(sr.readSignedByte())
	}
	return RSEEqualizer{Knobs: knobs[:knobCount-1], Gain: knobs[knobCount-1]}
}

func (sr *songReader) readPageSetup() PageSetup {
	setup := NewPageSetup()
	setup.PageSize = Point{X: sr.readInt(), Y: sr.readInt()}
	setup.PageMargin.Left = sr.readInt()
	setup.PageMargin.Right = sr.readInt()
	setup.PageMargin.Top = sr.readInt()
	setup.PageMargin.Bottom = sr.readInt()
	setup.ScoreSizeProportion = float64(sr.readInt()) / 100
	setup.HeaderAndFooter = HeaderFooterElements(sr.readShort())
	setup.Title = sr.readIntByteSizeString()
	setup.Subtitle = sr.readIntByteSizeString()
	setup.Artist = sr.readIntByteSizeString()
	setup.Album = sr.readIntByteSizeString()
	setup.Words = sr.readIntByteSizeString()
	setup.Music = sr.readIntByteSizeString()
	setup.WordsAndMusic = sr.readIntByteSizeString()
	setup.Copyright = sr.readIntByteSizeString() + "\n" + sr.readIntByteSizeString()
	setup.PageNumber = sr.readIntByteSizeString()
	return setup
}

func (sr *songReader) readDirections() map[string]int {
	directions := make(map[string]int, len(directionSignNames))
	for _, name := range directionSignNames {
		directions[name] = sr.readShort()
	}
	return directions
}

// applyDirections attaches the navigation signs to their measure
// headers. The first five names are targets, the rest are jumps.
func applyDirections(song *Song, directions map[string]int) {
	for i, name := range directionSignNames {
		number := directions[name]
		if number < 1 || number > len(song.MeasureHeaders) {
			continue
		}
		header := &song.MeasureHeaders[number-1]
		if i < 5 {
			header.Direction = &DirectionSign{Name: name}
		} else {
			header.FromDirection = &DirectionSign{Name: name}
		}
	}
}

func (sr *songReader) readMeasureHeaderV5(number int, song *Song, previous *MeasureHeader) MeasureHeader {
	if previous != nil {
		sr.skip(1)
	}
	flags := sr.readByte()
	header := NewMeasureHeader()
	header.Number = number
	header.Start = 0
	header.Tempo = song.Tempo
	if flags&0x01 != 0 {
		header.TimeSignature.Numerator = sr.readSignedByte()
	} else if previous != nil {
		header.TimeSignature.Numerator = previous.TimeSignature.Numerator
	}
	if flags&0x02 != 0 {
		header.TimeSignature.Denominator.Value = sr.readSignedByte()
	} else if previous != nil {
		header.TimeSignature.Denominator = previous.TimeSignature.Denominator
	}
	header.IsRepeatOpen = flags&0x04 != 0
	if flags&0x08 != 0 {
		header.RepeatClose = sr.readSignedByte()
	}
	if flags&0x20 != 0 {
		marker := sr.readMarker()
		header.Marker = &marker
	}
	if flags&0x40 != 0 {
		header.KeySignature = KeySignature{Root: sr.readSignedByte(), Mode: sr.readSignedByte()}
	} else if number > 1 && previous != nil {
		header.KeySignature = previous.KeySignature
	}
	if flags&0x10 != 0 {
		header.RepeatAlternative = sr.readByte()
	}
	header.HasDoubleBar = flags&0x80 != 0
	if header.RepeatClose > -1 {
		header.RepeatClose--
	}
	if flags&0x03 != 0 {
		beams := make([]int, 4)
		for i := range beams {
			beams[i] = sr.readByte()
		}
		header.TimeSignature.Beams = beams
	} else if previous != nil {
		header.TimeSignature.Beams = previous.TimeSignature.Beams
	}
	if flags&0x10 == 0 {
		sr.skip(1)
	}
	header.TripletFeel = TripletFeel(sr.readByte())
	return header
}

func (sr *songReader) readTrackV5(track *Track, number int, channels []MidiChannel) {
	if number == 1 || sr.version.is500() {
		sr.skip(1)
	}
	flags1 := sr.readByte()
	track.IsPercussion = flags1&0x01 != 0
	track.Is12String = flags1&0x02 != 0
	track.IsBanjo = flags1&0x04 != 0
	track.IsVisible = flags1&0x08 != 0
	track.IsSolo = flags1&0x10 != 0
	track.IsMute = flags1&0x20 != 0
	track.UseRSE = flags1&0x40 != 0
	track.IndicateTuning = flags1&0x80 != 0
	track.Name = sr.readByteSizeString(40)
	stringCount := sr.readInt()
	for i := 0; i < 7; i++ {
		tuning := sr.readInt()
		if i < stringCount {
			track.Strings = append(track.Strings, GuitarString{Number: i + 1, Value: tuning})
		}
	}
	track.Port = sr.readInt()
	sr.readChannel(&track.Channel, channels)
	if track.Channel.Channel == PercussionChannel {
		track.IsPercussion = true
	}
	track.FretCount = sr.readInt()
	track.Offset = sr.readInt()
	track.Color = sr.readColor()
	flags2 := sr.readShort()
	track.Settings = TrackSettings{
		Tablature:        flags2&0x0001 != 0,
		Notation:         flags2&0x0002 != 0,
		DiagramsAreBelow: flags2&0x0004 != 0,
		ShowRhythm:       flags2&0x0008 != 0,
		ForceHorizontal:  flags2&0x0010 != 0,
		ForceChannels:    flags2&0x0020 != 0,
		DiagramList:      flags2&0x0040 != 0,
		DiagramsInScore:  flags2&0x0080 != 0,
		AutoLetRing:      flags2&0x0200 != 0,
		AutoBrush:        flags2&0x0400 != 0,
		ExtendRhythmic:   flags2&0x0800 != 0,
	}
	track.RSE = NewTrackRSE()
	track.RSE.AutoAccentuation = Accentuation(sr.readByte())
	track.Channel.Bank = sr.readByte()
	sr.readTrackRSE(&track.RSE)
}

func (sr *songReader) readTrackRSE(rse *TrackRSE) {
	rse.Humanize = sr.readByte()
	sr.readInt()
	sr.readInt()
	sr.readInt()
	sr.skip(12)
	rse.Instrument = sr.readRSEInstrument()
	if sr.version.after500() {
		rse.Equalizer = sr.readEqualizer(4)
		sr.readRSEInstrumentEffect(&rse.Instrument)
	}
}

func (sr *songReader) readRSEInstrument() RSEInstrument {
	instrument := NewRSEInstrument()
	instrument.Instrument = sr.readInt()
	instrument.Unknown = sr.readInt()
	instrument.SoundBank = sr.readInt()
	if sr.version.is500() {
		instrument.EffectNumber = sr.readShort()
		sr.skip(1)
	} else {
		instrument.EffectNumber = sr.readInt()
	}
	return instrument
}

func (sr *songReader) readRSEInstrumentEffect(instrument *RSEInstrument) {
	if sr.version.after500() {
		instrument.Effect = sr.readIntByteSizeString()
		instrument.EffectCategory = sr.readIntByteSizeString()
	}
}

func (sr *songReader) readMeasureV5(track *Track, measure *Measure, header *MeasureHeader) {
	for voiceIndex := 0; voiceIndex < MaxVoices; voiceIndex++ {
		sr.readVoice(track, &measure.Voices[voiceIndex], header.Start, voiceIndex)
	}
	measure.LineBreak = LineBreak(sr.readByteOr(0))
}

func (sr *songReader) readBeatDisplay(beat *Beat) {
	flags2 := sr.readShort()
	switch {
	case flags2&0x0010 != 0:
		beat.Octave = OctaveOttava
	case flags2&0x0020 != 0:
		beat.Octave = OctaveOttavaBassa
	case flags2&0x0040 != 0:
		beat.Octave = OctaveQuindicesima
	case flags2&0x0100 != 0:
		beat.Octave = OctaveQuindicesimaBassa
	}
	display := BeatDisplay{
		BreakBeam:            flags2&0x0001 != 0,
		ForceBeam:            flags2&0x0004 != 0,
		BreakSecondaryTuplet: flags2&0x1000 != 0,
		ForceBracket:         flags2&0x2000 != 0,
	}
	if flags2&0x0002 != 0 {
		display.BeamDirection = VoiceDirectionDown
	}
	if flags2&0x0008 != 0 {
		display.BeamDirection = VoiceDirectionUp
	}
	if flags2&0x0200 != 0 {
		display.TupletBracket = TupletBracketStart
	}
	if flags2&0x0400 != 0 {
		display.TupletBracket = TupletBracketEnd
	}
	if flags2&0x0800 != 0 {
		display.BreakSecondary = sr.readByte()
	}
	beat.Display = display
}

func (sr *songReader) readMixTableChangeValuesV5(change *MixTableChange) {
	instrument := sr.readSignedByte()
	rse := sr.readRSEInstrument()
	if sr.version.is500() {
		sr.skip(1)
	}
	volume := sr.readSignedByte()
	balance := sr.readSignedByte()
	chorus := sr.readSignedByte()
	reverb := sr.readSignedByte()
	phaser := sr.readSignedByte()
	tremolo := sr.readSignedByte()
	tempoName := sr.readIntByteSizeString()
	tempo := sr.readInt()
	if instrument >= 0 {
		change.Instrument = &MixTableItem{Value: instrument}
		change.RSE = rse
	}
	if volume >= 0 {
		change.Volume = &MixTableItem{Value: volume}
	}
	if balance >= 0 {
		change.Balance = &MixTableItem{Value: balance}
	}
	if chorus >= 0 {
		change.Chorus = &MixTableItem{Value: chorus}
	}
	if reverb >= 0 {
		change.Reverb = &MixTableItem{Value: reverb}
	}
	if phaser >= 0 {
		change.Phaser = &MixTableItem{Value: phaser}
	}
	if tremolo >= 0 {
		change.Tremolo = &MixTableItem{Value: tremolo}
	}
	if tempo >= 0 {
		change.Tempo = &MixTableItem{Value: tempo}
		change.TempoName = tempoName
	}
}

func (sr *songReader) readMixTableChangeDurationsV5(change *MixTableChange) {
	if change.Volume != nil {
		change.Volume.Duration = sr.readSignedByte()
	}
	if change.Balance != nil {
		change.Balance.Duration = sr.readSignedByte()
	}
	if change.Chorus != nil {
		change.Chorus.Duration = sr.readSignedByte()
	}
	if change.Reverb != nil {
		change.Reverb.Duration = sr.readSignedByte()
	}
	if change.Phaser != nil {
		change.Phaser.Duration = sr.readSignedByte()
	}
	if change.Tremolo != nil {
		change.Tremolo.Duration = sr.readSignedByte()
	}
	if change.Tempo != nil {
		change.Tempo.Duration = sr.readSignedByte()
		change.HideTempo = false
		if sr.version.after500() {
			change.HideTempo = sr.readBool()
		}
	}
}

func (sr *songReader) readNoteV5(note *Note, gs GuitarString, track *Track, beat *Beat, voiceIndex int) {
	flags := sr.readByte()
	note.String = gs.Number
	note.Effect.HeavyAccentuatedNote = flags&0x02 != 0
	note.Effect.GhostNote = flags&0x04 != 0
	note.Effect.AccentuatedNote = flags&0x40 != 0
	if flags&0x20 != 0 {
		note.Type = NoteType(sr.readByte())
	}
	if flags&0x10 != 0 {
		note.Velocity = unpackVelocity(sr.readSignedByte())
	}
	if flags&0x20 != 0 {
		fret := sr.readSignedByte()
		value := fret
		if note.Type == NoteTypeTie {
			value = tiedNoteValue(track, voiceIndex, beat, note.String)
		}
		if value < 0 || value >= 100 {
			value = 0
		}
		note.Value = value
	}
	if flags&0x80 != 0 {
		note.Effect.LeftHandFinger = Fingering(sr.readSignedByte())
		note.Effect.RightHandFinger = Fingering(sr.readSignedByte())
	}
	if flags&0x01 != 0 {
		note.DurationPercent = sr.readDouble()
	}
	flags2 := sr.readByte()
	note.SwapAccidentals = flags2&0x02 != 0
	if flags&0x08 != 0 {
		sr.readNoteEffectsV4(note, track)
	}
}

func (sr *songReader) readGraceV5() GraceEffect {
	grace := NewGraceEffect()
	grace.Fret = sr.readByte()
	grace.Velocity = unpackVelocity(sr.readByte())
	grace.Transition = GraceTransition(sr.readByte())
	grace.Duration = 1 << (7 - sr.readByte()&7)
	flags := sr.readByte()
	grace.IsDead = flags&0x01 != 0
	grace.IsOnBeat = flags&0x02 != 0
	return grace
}

func (sr *songReader) readSlidesV5() []SlideType {
	var slides []SlideType
	flags := sr.readByte()
	if flags&0x01 != 0 {
		slides = append(slides, SlideShiftTo)
	}
	if flags&0x02 != 0 {
		slides = append(slides, SlideLegatoTo)
	}
	if flags&0x04 != 0 {
		slides = append(slides, SlideOutDownwards)
	}
	if flags&0x08 != 0 {
		slides = append(slides, SlideOutUpwards)
	}
	if flags&0x10 != 0 {
		slides = append(slides, SlideIntoFromBelow)
	}
	if flags&0x20 != 0 {
		slides = append(slides, SlideIntoFromAbove)
	}
	return slides
}

func (sr *songReader) readHarmonicV5(note *Note) HarmonicEffect {
	switch sr.readSignedByte() {
	case 1:
		return HarmonicEffect{Type: HarmonicNatural}
	case 2:
		semitone := sr.readByte()
		accidental := sr.readSignedByte()
		pitch := NewPitchClassAccidental(semitone, accidental)
		return HarmonicEffect{Type: HarmonicArtificial, Pitch: &pitch, HarmonicOctave: Octave(sr.readByte())}
	case 3:
		return HarmonicEffect{Type: HarmonicTapped, Fret: sr.readByte()}
	case 4:
		return HarmonicEffect{Type: HarmonicPinch}
	case 5:
		return HarmonicEffect{Type: HarmonicSemi}
	default:
		sr.malformed("harmonic", "unknown harmonic kind")
		return HarmonicEffect{Type: HarmonicNatural}
	}
}

func (sw *songWriter) writeSongV5(song *Song) {
	sw.writeVersion(versionSignature(sw.version))
	if sw.version.Clipboard {
		sw.writeClipboard(song.Clipboard)
	}
	sw.writeInfoV5(song)
	sw.writeLyrics(&song.Lyrics)
	sw.writeRSEMasterEffect(&song.MasterEffect)
	sw.writePageSetup(&song.PageSetup)
	sw.writeIntByteSizeString(song.TempoName)
	sw.writeInt(song.Tempo)
	if sw.version.after500() {
		sw.writeBool(song.HideTempo)
	}
	sw.writeSignedByte(song.Key.Root)
	sw.writeInt(0)
	sw.writeMidiChannels(song.Tracks)
	sw.writeDirections(song.MeasureHeaders)
	sw.writeInt(song.MasterEffect.Reverb)
	sw.writeInt(len(song.MeasureHeaders))
	sw.writeInt(len(song.Tracks))
	sw.writeMeasureHeaders(song)
	sw.writeTracks(song.Tracks)
	sw.writeMeasures(song)
}

func (sw *songWriter) writeInfoV5(song *Song) {
	sw.writeIntByteSizeString(song.Title)
	sw.writeIntByteSizeString(song.Subtitle)
	sw.writeIntByteSizeString(song.Artist)
	sw.writeIntByteSizeString(song.Album)
	sw.writeIntByteSizeString(song.Words)
	sw.writeIntByteSizeString(song.Music)
	sw.writeIntByteSizeString(song.Copyright)
	sw.writeIntByteSizeString(song.Tab)
	sw.writeIntByteSizeString(song.Instructions)
	sw.writeNotice(song.Notice)
}

func (sw *songWriter) writeRSEMasterEffect(effect *RSEMasterEffect) {
	if !sw.version.after500() {
		return
	}
	volume := effect.Volume
	if volume == 0 {
		volume = 100
	}
	sw.writeInt(volume)
	sw.writeInt(0)
	sw.writeEqualizer(effect.Equalizer, 11)
}

func (sw *songWriter) writeEqualizer(equalizer RSEEqualizer, knobCount int) {
	for i := 0; i < knobCount-1; i++ {
		knob := 0.0
		if i < len(equalizer.Knobs) {
			knob = equalizer.Knobs[i]
		}
		sw.writeSignedByte(packVolumeValue(knob))
	}
	sw.writeSignedByte(packVolumeValue(equalizer.Gain))
}

func (sw *songWriter) writePageSetup(setup *PageSetup) {
	sw.writeInt(setup.PageSize.X)
	sw.writeInt(setup.PageSize.Y)
	sw.writeInt(setup.PageMargin.Left)
	sw.writeInt(setup.PageMargin.Right)
	sw.writeInt(setup.PageMargin.Top)
	sw.writeInt(setup.PageMargin.Bottom)
	sw.writeInt(int(math.Round(setup.ScoreSizeProportion * 100)))
	sw.writeByte(int(setup.HeaderAndFooter) & 0xff)
	flags2 := 0
	if setup.HeaderAndFooter&HeaderFooterPageNumber != 0 {
		flags2 |= 0x01
	}
	sw.writeByte(flags2)
	sw.writeIntByteSizeString(setup.Title)
	sw.writeIntByteSizeString(setup.Subtitle)
	sw.writeIntByteSizeString(setup.Artist)
	sw.writeIntByteSizeString(setup.Album)
	sw.writeIntByteSizeString(setup.Words)
	sw.writeIntByteSizeString(setup.Music)
	sw.writeIntByteSizeString(setup.WordsAndMusic)
	copyright1, copyright2 := setup.Copyright, ""
	for i := 0; i < len(setup.Copyright); i++ {
		if setup.Copyright[i] == '\n' {
			copyright1, copyright2 = setup.Copyright[:i], setup.Copyright[i+1:]
			break
		}
	}
	sw.writeIntByteSizeString(copyright1)
	sw.writeIntByteSizeString(copyright2)
	sw.writeIntByteSizeString(setup.PageNumber)
}

func (sw *songWriter) writeDirections(headers []MeasureHeader) {
	signs := make(map[string]int, len(directionSignNames))
	for i := range headers {
		if headers[i].Direction != nil {
			signs[headers[i].Direction.Name] = i + 1
		}
		if headers[i].FromDirection != nil {
			signs[headers[i].FromDirection.Name] = i + 1
		}
	}
	for _, name := range directionSignNames {
		number, ok := signs[name]
		if !ok {
			number = -1
		}
		sw.writeShort(number)
	}
}

func (sw *songWriter) writeMeasureHeaderValuesV5(header *MeasureHeader, flags int) {
	sw.writeByte(flags)
	if flags&0x01 != 0 {
		sw.writeSignedByte(header.TimeSignature.Numerator)
	}
	if flags&0x02 != 0 {
		sw.writeSignedByte(header.TimeSignature.Denominator.Value)
	}
	if flags&0x08 != 0 {
		sw.writeSignedByte(header.RepeatClose + 1)
	}
	if flags&0x20 != 0 {
		sw.writeMarker(*header.Marker)
	}
	if flags&0x40 != 0 {
		sw.writeSignedByte(header.KeySignature.Root)
		sw.writeSignedByte(header.KeySignature.Mode)
	}
	if flags&0x10 != 0 {
		sw.writeByte(header.RepeatAlternative & 0xff)
	}
	if flags&0x03 != 0 {
		for i := 0; i < 4; i++ {
			beam := 0
			if i < len(header.TimeSignature.Beams) {
				beam = header.TimeSignature.Beams[i]
			}
			sw.writeByte(beam)
		}
	}
	if flags&0x10 == 0 {
		sw.placeholder(1)
	}
	sw.writeByte(int(header.TripletFeel))
}

func (sw *songWriter) writeTrackV5(track *Track, number int) {
	if number == 1 || sw.version.is500() {
		sw.placeholder(1)
	}
	flags1 := 0
	if track.IsPercussion {
		flags1 |= 0x01
	}
	if track.Is12String {
		flags1 |= 0x02
	}
	if track.IsBanjo {
		flags1 |= 0x04
	}
	if track.IsVisible {
		flags1 |= 0x08
	}
	if track.IsSolo {
		flags1 |= 0x10
	}
	if track.IsMute {
		flags1 |= 0x20
	}
	if track.UseRSE {
		flags1 |= 0x40
	}
	if track.IndicateTuning {
		flags1 |= 0x80
	}
	sw.writeByte(flags1)
	sw.writeByteSizeString(track.Name, 40)
	sw.writeInt(len(track.Strings))
	for i := 0; i < 7; i++ {
		tuning := 0
		if i < len(track.Strings) {
			tuning = track.Strings[i].Value
		}
		sw.writeInt(tuning)
	}
	sw.writeInt(track.Port)
	sw.writeChannel(track)
	sw.writeInt(track.FretCount)
	sw.writeInt(track.Offset)
	sw.writeColor(track.Color)
	flags2 := 0
	if track.Settings.Tablature {
		flags2 |= 0x0001
	}
	if track.Settings.Notation {
		flags2 |= 0x0002
	}
	if track.Settings.DiagramsAreBelow {
		flags2 |= 0x0004
	}
	if track.Settings.ShowRhythm {
		flags2 |= 0x0008
	}
	if track.Settings.ForceHorizontal {
		flags2 |= 0x0010
	}
	if track.Settings.ForceChannels {
		flags2 |= 0x0020
	}
	if track.Settings.DiagramList {
		flags2 |= 0x0040
	}
	if track.Settings.DiagramsInScore {
		flags2 |= 0x0080
	}
	if track.Settings.AutoLetRing {
		flags2 |= 0x0200
	}
	if track.Settings.AutoBrush {
		flags2 |= 0x0400
	}
	if track.Settings.ExtendRhythmic {
		flags2 |= 0x0800
	}
	sw.writeShort(flags2)
	sw.writeByte(int(track.RSE.AutoAccentuation))
	sw.writeByte(track.Channel.Bank)
	sw.writeTrackRSE(&track.RSE)
}

func (sw *songWriter) writeTrackRSE(rse *TrackRSE) {
	sw.writeByte(rse.Humanize)
	sw.writeInt(0)
	sw.writeInt(0)
	sw.writeInt(100)
	sw.placeholder(12)
	sw.writeRSEInstrument(&rse.Instrument)
	if sw.version.after500() {
		sw.writeEqualizer(rse.Equalizer, 4)
		sw.writeRSEInstrumentEffect(&rse.Instrument)
	}
}

func (sw *songWriter) writeRSEInstrument(instrument *RSEInstrument) {
	sw.writeInt(instrument.Instrument)
	sw.writeInt(instrument.Unknown)
	sw.writeInt(instrument.SoundBank)
	if sw.version.is500() {
		sw.writeShort(instrument.EffectNumber)
		sw.placeholder(1)
	} else {
		sw.writeInt(instrument.EffectNumber)
	}
}

func (sw *songWriter) writeRSEInstrumentEffect(instrument *RSEInstrument) {
	if sw.version.after500() {
		sw.writeIntByteSizeString(instrument.Effect)
		sw.writeIntByteSizeString(instrument.EffectCategory)
	}
}

func (sw *songWriter) writeMeasureV5(track *Track, measure *Measure) {
	for voiceIndex := 0; voiceIndex < MaxVoices; voiceIndex++ {
		sw.writeVoice(track, &measure.Voices[voiceIndex])
	}
	sw.writeByte(int(measure.LineBreak))
}

func (sw *songWriter) writeBeatDisplay(beat *Beat) {
	flags2 := 0
	if beat.Display.BreakBeam {
		flags2 |= 0x0001
	}
	if beat.Display.BeamDirection == VoiceDirectionDown {
		flags2 |= 0x0002
	}
	if beat.Display.ForceBeam {
		flags2 |= 0x0004
	}
	if beat.Display.BeamDirection == VoiceDirectionUp {
		flags2 |= 0x0008
	}
	switch beat.Octave {
	case OctaveOttava:
		flags2 |= 0x0010
	case OctaveOttavaBassa:
		flags2 |= 0x0020
	case OctaveQuindicesima:
		flags2 |= 0x0040
	case OctaveQuindicesimaBassa:
		flags2 |= 0x0100
	}
	switch beat.Display.TupletBracket {
	case TupletBracketStart:
		flags2 |= 0x0200
	case TupletBracketEnd:
		flags2 |= 0x0400
	}
	if beat.Display.BreakSecondary != 0 {
		flags2 |= 0x0800
	}
	if beat.Display.BreakSecondaryTuplet {
		flags2 |= 0x1000
	}
	if beat.Display.ForceBracket {
		flags2 |= 0x2000
	}
	sw.writeShort(flags2)
	if flags2&0x0800 != 0 {
		sw.writeByte(beat.Display.BreakSecondary)
	}
}

func (sw *songWriter) writeMixTableChangeValuesV5(change *MixTableChange) {
	sw.writeSignedByte(mixTableItemValue(change.Instrument))
	rse := change.RSE
	sw.writeRSEInstrument(&rse)
	if sw.version.is500() {
		sw.placeholder(1)
	}
	sw.writeSignedByte(mixTableItemValue(change.Volume))
	sw.writeSignedByte(mixTableItemValue(change.Balance))
	sw.writeSignedByte(mixTableItemValue(change.Chorus))
	sw.writeSignedByte(mixTableItemValue(change.Reverb))
	sw.writeSignedByte(mixTableItemValue(change.Phaser))
	sw.writeSignedByte(mixTableItemValue(change.Tremolo))
	sw.writeIntByteSizeString(change.TempoName)
	sw.writeInt(mixTableItemValue(change.Tempo))
}

func (sw *songWriter) writeMixTableChangeDurationsV5(change *MixTableChange) {
	sw.writeMixTableChangeDurations(change)
}

func (sw *songWriter) writeMixTableChangeFlagsV5(change *MixTableChange) {
	flags := sw.packMixTableChangeFlags(change)
	if change.UseRSE {
		flags |= 0x40
	}
	if change.Wah != nil && change.Wah.Display {
		flags |= 0x80
	}
	sw.writeByte(flags)
}

func (sw *songWriter) writeWahEffect(wah *WahEffect) {
	if wah != nil {
		sw.writeSignedByte(wah.Value)
	} else {
		sw.writeSignedByte(-1)
	}
}

func (sw *songWriter) writeNoteV5(track *Track, note *Note) {
	flags := sw.packNoteFlags(note)
	sw.writeByte(flags)
	if flags&0x20 != 0 {
		sw.writeByte(int(note.Type))
	}
	if flags&0x10 != 0 {
		sw.writeSignedByte(packVelocity(note.Velocity))
	}
	if flags&0x20 != 0 {
		fret := note.Value
		if note.Type == NoteTypeTie {
			fret = 0
		}
		sw.writeSignedByte(fret)
	}
	if flags&0x80 != 0 {
		sw.writeSignedByte(int(note.Effect.LeftHandFinger))
		sw.writeSignedByte(int(note.Effect.RightHandFinger))
	}
	if flags&0x01 != 0 {
		sw.writeDouble(note.DurationPercent)
	}
	flags2 := 0
	if note.SwapAccidentals {
		flags2 |= 0x02
	}
	sw.writeByte(flags2)
	if flags&0x08 != 0 {
		sw.writeNoteEffectsV4(track, note)
	}
}

func (sw *songWriter) writeGraceV5(grace *GraceEffect) {
	sw.writeByte(grace.Fret)
	sw.writeByte(packVelocity(grace.Velocity))
	sw.writeByte(int(grace.Transition))
	sw.writeByte(8 - bits.Len(uint(grace.Duration)))
	flags := 0
	if grace.IsDead {
		flags |= 0x01
	}
	if grace.IsOnBeat {
		flags |= 0x02
	}
	sw.writeByte(flags)
}

func (sw *songWriter) writeSlidesV5(slides []SlideType) {
	flags := 0
	for _, slide := range slides {
		switch slide {
		case SlideShiftTo:
			flags |= 0x01
		case SlideLegatoTo:
			flags |= 0x02
		case SlideOutDownwards:
			flags |= 0x04
		case SlideOutUpwards:
			flags |= 0x08
		case SlideIntoFromBelow:
			flags |= 0x10
		case SlideIntoFromAbove:
			flags |= 0x20
		}
	}
	sw.writeByte(flags)
}

func (sw *songWriter) writeHarmonicV5(track *Track, note *Note) {
	harmonic := note.Effect.Harmonic
	switch harmonic.Type {
	case HarmonicArtificial:
		sw.writeSignedByte(2)
		pitch := harmonic.Pitch
		octave := harmonic.HarmonicOctave
		if pitch == nil || octave == OctaveNone {
			p := NewPitchClass(note.RealValue(track) % 12)
			pitch = &p
			octave = OctaveOttava
		}
		sw.writeByte(pitch.Just)
		sw.writeSignedByte(pitch.Accidental)
		sw.writeByte(int(octave))
	case HarmonicTapped:
		sw.writeSignedByte(3)
		sw.writeByte(harmonic.Fret)
	default:
		sw.writeSignedByte(int(harmonic.Type))
	}
}
