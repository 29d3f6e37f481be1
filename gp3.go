package guitarpro

import (
	"math"
	"math/bits"
	"sort"
)

// songReader decodes one song from the primitive reader. The shared
// grammar lives here; the spots where the 4.x and 5.x dialects diverge
// branch on version and live in gp4.go and gp5.go.
type songReader struct {
	*reader
	version     Version
	tripletFeel TripletFeel
}

// songWriter is the writing counterpart of songReader.
type songWriter struct {
	*writer
	version Version
}

func (sr *songReader) readSongV3(song *Song) {
	sr.readInfo(song)
	sr.tripletFeel = TripletFeelNone
	if sr.readBool() {
		sr.tripletFeel = TripletFeelEighth
	}
	song.Tempo = sr.readInt()
	song.Key = KeySignature{Root: sr.readInt()}
	channels := sr.readMidiChannels()
	measureCount := sr.readInt()
	trackCount := sr.readInt()
	sr.readMeasureHeaders(song, measureCount)
	sr.readTracks(song, trackCount, channels)
	sr.readMeasures(song)
}

// readInfo reads the score information. The 3.x and 4.x dialects store
// a single author field that fills both Words and Music.
func (sr *songReader) readInfo(song *Song) {
	song.Title = sr.readIntByteSizeString()
	song.Subtitle = sr.readIntByteSizeString()
	song.Artist = sr.readIntByteSizeString()
	song.Album = sr.readIntByteSizeString()
	author := sr.readIntByteSizeString()
	song.Words = author
	song.Music = author
	song.Copyright = sr.readIntByteSizeString()
	song.Tab = sr.readIntByteSizeString()
	song.Instructions = sr.readIntByteSizeString()
	count := sr.readInt()
	for i := 0; i < count && sr.err == nil; i++ {
		song.Notice = append(song.Notice, sr.readIntByteSizeString())
	}
}

// A MIDI channel short is stored as one byte holding the upper bits of
// the controller value.
func toChannelShort(data int) int {
	value := max(-32768, min(32767, data<<3-1))
	return max(value, -1) + 1
}

func fromChannelShort(data int) int {
	return min(max(data>>3-1, -128), 127) + 1
}

// readMidiChannels reads the table of 64 channels, 4 ports of 16.
func (sr *songReader) readMidiChannels() []MidiChannel {
	channels := make([]MidiChannel, 64)
	for i := range channels {
		channel := NewMidiChannel()
		channel.Channel = i
		channel.EffectChannel = i
		instrument := sr.readInt()
		if channel.IsPercussion() && instrument == -1 {
			instrument = 0
		}
		channel.Instrument = instrument
		channel.Volume = toChannelShort(sr.readSignedByte())
		channel.Balance = toChannelShort(sr.readSignedByte())
		channel.Chorus = toChannelShort(sr.readSignedByte())
		channel.Reverb = toChannelShort(sr.readSignedByte())
		channel.Phaser = toChannelShort(sr.readSignedByte())
		channel.Tremolo = toChannelShort(sr.readSignedByte())
		channels[i] = channel
		sr.skip(2)
	}
	return channels
}

func (sr *songReader) readMeasureHeaders(song *Song, count int) {
	if count < 0 {
		sr.malformed("song", "negative measure count")
		return
	}
	var previous *MeasureHeader
	for number := 1; number <= count && sr.err == nil; number++ {
		var header MeasureHeader
		if sr.version.Major == 5 {
			header = sr.readMeasureHeaderV5(number, song, previous)
		} else {
			header = sr.readMeasureHeader(number, song, previous)
		}
		song.MeasureHeaders = append(song.MeasureHeaders, header)
		previous = &song.MeasureHeaders[len(song.MeasureHeaders)-1]
	}
}

func (sr *songReader) readMeasureHeader(number int, song *Song, previous *MeasureHeader) MeasureHeader {
	flags := sr.readByte()
	header := NewMeasureHeader()
	header.Number = number
	header.Start = 0
	header.Tempo = song.Tempo
	header.TripletFeel = sr.tripletFeel
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
	if flags&0x10 != 0 {
		header.RepeatAlternative = sr.readRepeatAlternative(song.MeasureHeaders)
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
	header.HasDoubleBar = flags&0x80 != 0
	return header
}

// readRepeatAlternative turns the stored ending number into a bit set
// of endings, excluding the endings already claimed since the last
// repeat open.
func (sr *songReader) readRepeatAlternative(headers []MeasureHeader) int {
	value := sr.readByte()
	existing := 0
	for i := len(headers) - 1; i >= 0; i-- {
		if headers[i].IsRepeatOpen {
			break
		}
		existing |= headers[i].RepeatAlternative
	}
	return (1<<value - 1) ^ existing
}

func (sr *songReader) readMarker() Marker {
	return Marker{Title: sr.readIntByteSizeString(), Color: sr.readColor()}
}

func (sr *songReader) readColor() Color {
	color := Color{R: sr.readByte(), G: sr.readByte(), B: sr.readByte()}
	sr.skip(1)
	return color
}

func (sr *songReader) readTracks(song *Song, count int, channels []MidiChannel) {
	if count < 0 {
		sr.malformed("song", "negative track count")
		return
	}
	for number := 1; number <= count && sr.err == nil; number++ {
		track := Track{
			Number:    number,
			IsVisible: true,
			Channel:   NewMidiChannel(),
			Settings:  NewTrackSettings(),
			RSE:       NewTrackRSE(),
		}
		if sr.version.Major == 5 {
			sr.readTrackV5(&track, number, channels)
		} else {
			sr.readTrack(&track, channels)
		}
		song.Tracks = append(song.Tracks, track)
	}
	if sr.version.Major == 5 {
		if sr.version.is500() {
			sr.skip(2)
		} else {
			sr.skip(1)
		}
	}
}

func (sr *songReader) readTrack(track *Track, channels []MidiChannel) {
	flags := sr.readByte()
	track.IsPercussion = flags&0x01 != 0
	track.Is12String = flags&0x02 != 0
	track.IsBanjo = flags&0x04 != 0
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
}

func (sr *songReader) readChannel(channel *MidiChannel, channels []MidiChannel) {
	index := sr.readInt() - 1
	effectChannel := sr.readInt() - 1
	if index >= 0 && index < len(channels) {
		*channel = channels[index]
		if channel.Instrument < 0 {
			channel.Instrument = 0
		}
		if !channel.IsPercussion() {
			channel.EffectChannel = effectChannel
		}
	}
}

func (sr *songReader) readMeasures(song *Song) {
	start := QuarterTime
	for hi := range song.MeasureHeaders {
		if sr.err != nil {
			return
		}
		header := &song.MeasureHeaders[hi]
		header.Start = start
		for ti := range song.Tracks {
			track := &song.Tracks[ti]
			track.Measures = append(track.Measures, NewMeasure())
			measure := &track.Measures[len(track.Measures)-1]
			if sr.version.Major == 5 {
				sr.readMeasureV5(track, measure, header)
			} else {
				sr.readVoice(track, &measure.Voices[0], header.Start, 0)
			}
		}
		start += header.Length()
	}
}

func (sr *songReader) readVoice(track *Track, voice *Voice, start, voiceIndex int) {
	beats := sr.readInt()
	for i := 0; i < beats && sr.err == nil; i++ {
		start += sr.readBeat(track, voice, start, voiceIndex)
	}
}

// getBeat returns the beat at the given start tick, appending a new one
// when no beat occupies it yet.
func (sr *songReader) getBeat(voice *Voice, start int) *Beat {
	for i := len(voice.Beats) - 1; i >= 0; i-- {
		if voice.Beats[i].Start == start {
			return &voice.Beats[i]
		}
	}
	voice.Beats = append(voice.Beats, NewBeat())
	beat := &voice.Beats[len(voice.Beats)-1]
	beat.Start = start
	return beat
}

// readBeat reads one beat and returns its tick length, zero for an
// empty beat.
func (sr *songReader) readBeat(track *Track, voice *Voice, start, voiceIndex int) int {
	flags := sr.readByte()
	beat := sr.getBeat(voice, start)
	if flags&0x40 != 0 {
		beat.Status = BeatStatus(sr.readByte())
	} else {
		beat.Status = BeatStatusNormal
	}
	duration := sr.readDuration(flags)
	noteEffect := NewNoteEffect()
	if flags&0x02 != 0 {
		chord := sr.readChord(len(track.Strings))
		beat.Effect.Chord = &chord
	}
	if flags&0x04 != 0 {
		beat.Text = &BeatText{Value: sr.readIntByteSizeString()}
	}
	if flags&0x08 != 0 {
		chord := beat.Effect.Chord
		if sr.version.Major == 3 {
			beat.Effect = sr.readBeatEffects(&noteEffect)
		} else {
			beat.Effect = sr.readBeatEffectsV4()
		}
		beat.Effect.Chord = chord
	}
	if flags&0x10 != 0 {
		change := sr.readMixTableChange()
		beat.Effect.MixTableChange = &change
	}
	sr.readNotes(track, beat, duration, noteEffect, voiceIndex)
	if sr.version.Major == 5 {
		sr.readBeatDisplay(beat)
	}
	if beat.Status == BeatStatusEmpty {
		return 0
	}
	return duration.Time()
}

func (sr *songReader) readDuration(flags int) Duration {
	duration := NewDuration()
	shift := sr.readSignedByte() + 2
	if shift < 0 || shift > 7 {
		sr.malformed("duration", "note value out of range")
		shift = 2
	}
	duration.Value = 1 << shift
	duration.IsDotted = flags&0x01 != 0
	if flags&0x20 != 0 {
		switch enters := sr.readInt(); enters {
		case 3:
			duration.Tuplet = Tuplet{3, 2}
		case 5:
			duration.Tuplet = Tuplet{5, 4}
		case 6:
			duration.Tuplet = Tuplet{6, 4}
		case 7:
			duration.Tuplet = Tuplet{7, 4}
		case 9, 10, 11, 12, 13:
			duration.Tuplet = Tuplet{enters, 8}
		default:
			sr.malformed("duration", "unsupported tuplet")
		}
	}
	return duration
}

func (sr *songReader) readChord(stringCount int) Chord {
	chord := NewChord(stringCount)
	chord.NewFormat = sr.readBool()
	switch {
	case !chord.NewFormat:
		sr.readOldChord(&chord)
	case sr.version.Major == 3:
		sr.readNewChord(&chord)
	default:
		sr.readNewChordV4(&chord)
	}
	return chord
}

func (sr *songReader) readOldChord(chord *Chord) {
	chord.Name = sr.readIntByteSizeString()
	chord.FirstFret = sr.readInt()
	if chord.FirstFret != 0 {
		for i := 0; i < 6; i++ {
			fret := sr.readInt()
			if i < len(chord.Strings) {
				chord.Strings[i] = fret
			}
		}
	}
}

// pitchClassOf builds a pitch class from a semitone number, spelled
// with sharps or flats according to the chord's accidental preference.
func pitchClassOf(semitone int, sharp bool) PitchClass {
	value := ((semitone % 12) + 12) % 12
	intonation := "sharp"
	name := pitchNames["sharp"][value]
	if !sharp {
		intonation = "flat"
		name = pitchNames["flat"][value]
	}
	accidental := 0
	if len(name) > 1 {
		if name[1] == '#' {
			accidental = 1
		} else {
			accidental = -1
		}
	}
	return PitchClass{
		Just:       ((value-accidental)%12 + 12) % 12,
		Accidental: accidental,
		Value:      value,
		Intonation: intonation,
	}
}

func (sr *songReader) readNewChord(chord *Chord) {
	chord.Sharp = sr.readBool()
	sr.skip(3)
	chord.Root = pitchClassOf(sr.readInt(), chord.Sharp)
	chord.Type = ChordType(sr.readInt())
	chord.Extension = ChordExtension(sr.readInt())
	chord.Bass = pitchClassOf(sr.readInt(), chord.Sharp)
	chord.Tonality = ChordAlteration(sr.readInt())
	chord.Add = sr.readBool()
	chord.Name = sr.readByteSizeString(22)
	chord.Fifth = ChordAlteration(sr.readInt())
	chord.Ninth = ChordAlteration(sr.readInt())
	chord.Eleventh = ChordAlteration(sr.readInt())
	chord.FirstFret = sr.readInt()
	for i := 0; i < 6; i++ {
		fret := sr.readInt()
		if i < len(chord.Strings) {
			chord.Strings[i] = fret
		}
	}
	barresCount := sr.readInt()
	var frets, starts, ends [2]int
	for i := range frets {
		frets[i] = sr.readInt()
	}
	for i := range starts {
		starts[i] = sr.readInt()
	}
	for i := range ends {
		ends[i] = sr.readInt()
	}
	for i := 0; i < barresCount && i < 2; i++ {
		chord.Barres = append(chord.Barres, Barre{Fret: frets[i], Start: starts[i], End: ends[i]})
	}
	for i := 0; i < 7; i++ {
		chord.Omissions = append(chord.Omissions, sr.readBool())
	}
	sr.skip(1)
}

func (sr *songReader) readBeatEffects(noteEffect *NoteEffect) BeatEffect {
	var effect BeatEffect
	flags := sr.readByte()
	noteEffect.Vibrato = flags&0x01 != 0 || noteEffect.Vibrato
	effect.Vibrato = flags&0x02 != 0 || effect.Vibrato
	effect.FadeIn = flags&0x10 != 0
	if flags&0x20 != 0 {
		effect.SlapEffect = SlapEffect(sr.readByte())
		if effect.SlapEffect == SlapEffectNone {
			bar := sr.readTremoloBar()
			effect.TremoloBar = &bar
		} else {
			sr.readInt()
		}
	}
	if flags&0x40 != 0 {
		effect.Stroke = sr.readBeatStroke()
	}
	if flags&0x04 != 0 {
		noteEffect.Harmonic = &HarmonicEffect{Type: HarmonicNatural}
	}
	if flags&0x08 != 0 {
		noteEffect.Harmonic = &HarmonicEffect{Type: HarmonicArtificial}
	}
	return effect
}

// readTremoloBar reads the 3.x tremolo bar, a single dip depth expanded
// into a three-point curve.
func (sr *songReader) readTremoloBar() BendEffect {
	bar := BendEffect{Type: BendDip, Value: sr.readInt()}
	bar.Points = []BendPoint{
		{Position: 0, Value: 0},
		{Position: BendMaxPosition / 2, Value: int(math.Round(float64(-bar.Value) / bendSemitone))},
		{Position: BendMaxPosition, Value: 0},
	}
	return bar
}

func (sr *songReader) readBeatStroke() BeatStroke {
	down := sr.readSignedByte()
	up := sr.readSignedByte()
	if up > 0 {
		return BeatStroke{Direction: BeatStrokeUp, Value: toStrokeValue(up)}
	}
	if down > 0 {
		return BeatStroke{Direction: BeatStrokeDown, Value: toStrokeValue(down)}
	}
	return BeatStroke{}
}

func toStrokeValue(value int) int {
	switch value {
	case 1:
		return HundredTwentyEighthNote
	case 2:
		return SixtyFourthNote
	case 3:
		return ThirtySecondNote
	case 4:
		return SixteenthNote
	case 5:
		return EighthNote
	case 6:
		return QuarterNote
	default:
		return SixtyFourthNote
	}
}

func fromStrokeValue(value int) int {
	switch value {
	case HundredTwentyEighthNote:
		return 1
	case SixtyFourthNote:
		return 2
	case ThirtySecondNote:
		return 3
	case SixteenthNote:
		return 4
	case EighthNote:
		return 5
	case QuarterNote:
		return 6
	default:
		return 1
	}
}

func (sr *songReader) readMixTableChange() MixTableChange {
	change := NewMixTableChange()
	switch sr.version.Major {
	case 5:
		sr.readMixTableChangeValuesV5(&change)
		sr.readMixTableChangeDurationsV5(&change)
		flags := sr.readMixTableChangeFlags(&change)
		change.UseRSE = flags&0x40 != 0
		change.Wah = &WahEffect{Value: sr.readSignedByte(), Display: flags&0x80 != 0}
		sr.readRSEInstrumentEffect(&change.RSE)
	case 4:
		sr.readMixTableChangeValues(&change)
		sr.readMixTableChangeDurations(&change)
		sr.readMixTableChangeFlags(&change)
	default:
		sr.readMixTableChangeValues(&change)
		sr.readMixTableChangeDurations(&change)
	}
	return change
}

func (sr *songReader) readMixTableChangeValues(change *MixTableChange) {
	instrument := sr.readSignedByte()
	volume := sr.readSignedByte()
	balance := sr.readSignedByte()
	chorus := sr.readSignedByte()
	reverb := sr.readSignedByte()
	phaser := sr.readSignedByte()
	tremolo := sr.readSignedByte()
	tempo := sr.readInt()
	if instrument >= 0 {
		change.Instrument = &MixTableItem{Value: instrument}
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
	}
}

func (sr *songReader) readMixTableChangeDurations(change *MixTableChange) {
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
	}
}

func (sr *songReader) readNotes(track *Track, beat *Beat, duration Duration, noteEffect NoteEffect, voiceIndex int) {
	stringFlags := sr.readByte()
	for _, gs := range track.Strings {
		if stringFlags&(1<<(7-gs.Number)) != 0 {
			note := NewNote()
			note.Effect = cloneNoteEffect(noteEffect)
			beat.Notes = append(beat.Notes, note)
			if sr.version.Major == 5 {
				sr.readNoteV5(&beat.Notes[len(beat.Notes)-1], gs, track, beat, voiceIndex)
			} else {
				sr.readNote(&beat.Notes[len(beat.Notes)-1], gs, track, beat, voiceIndex)
			}
		}
	}
	beat.Duration = duration
}

// cloneNoteEffect copies the per-beat effect prototype so notes do not
// share the harmonic allocation.
func cloneNoteEffect(effect NoteEffect) NoteEffect {
	if effect.Harmonic != nil {
		harmonic := *effect.Harmonic
		effect.Harmonic = &harmonic
	}
	return effect
}

func (sr *songReader) readNote(note *Note, gs GuitarString, track *Track, beat *Beat, voiceIndex int) {
	flags := sr.readByte()
	note.String = gs.Number
	note.Effect.HeavyAccentuatedNote = flags&0x02 != 0
	note.Effect.GhostNote = flags&0x04 != 0
	if flags&0x20 != 0 {
		note.Type = NoteType(sr.readByte())
	}
	if flags&0x01 != 0 {
		note.Independent = &NoteDuration{Value: sr.readSignedByte(), Tuplet: sr.readSignedByte()}
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
		note.Value = min(max(value, 0), 99)
	}
	if flags&0x80 != 0 {
		note.Effect.LeftHandFinger = Fingering(sr.readSignedByte())
		note.Effect.RightHandFinger = Fingering(sr.readSignedByte())
	}
	if flags&0x08 != 0 {
		if sr.version.Major == 3 {
			sr.readNoteEffects(note)
		} else {
			sr.readNoteEffectsV4(note, track)
		}
		if note.Effect.Harmonic != nil && note.Effect.Harmonic.Type == HarmonicTapped {
			note.Effect.Harmonic.Fret = note.Value + 12
		}
	}
}

func unpackVelocity(dyn int) int {
	return MinVelocity + VelocityIncrement*dyn - VelocityIncrement
}

func packVelocity(velocity int) int {
	return (velocity + VelocityIncrement - MinVelocity) / VelocityIncrement
}

// tiedNoteValue finds the fret of the note a tie continues: the nearest
// preceding note on the same string, searching the current voice
// backwards through the measures read so far.
func tiedNoteValue(track *Track, voiceIndex int, current *Beat, stringNumber int) int {
	for mi := len(track.Measures) - 1; mi >= 0; mi-- {
		voice := &track.Measures[mi].Voices[voiceIndex]
		beats := voice.Beats
		if mi == len(track.Measures)-1 {
			cut := len(beats)
			for i := range beats {
				if &beats[i] == current {
					cut = i
					break
				}
			}
			beats = beats[:cut]
		}
		for bi := len(beats) - 1; bi >= 0; bi-- {
			if beats[bi].Status == BeatStatusEmpty {
				continue
			}
			for ni := range beats[bi].Notes {
				if beats[bi].Notes[ni].String == stringNumber {
					return beats[bi].Notes[ni].Value
				}
			}
		}
	}
	return -1
}

func (sr *songReader) readNoteEffects(note *Note) {
	flags := sr.readByte()
	note.Effect.Hammer = flags&0x02 != 0
	note.Effect.LetRing = flags&0x08 != 0
	if flags&0x01 != 0 {
		note.Effect.Bend = sr.readBend()
	}
	if flags&0x10 != 0 {
		grace := sr.readGrace()
		note.Effect.Grace = &grace
	}
	if flags&0x04 != 0 {
		note.Effect.Slides = []SlideType{SlideShiftTo}
	}
}

func (sr *songReader) readBend() *BendEffect {
	bend := BendEffect{Type: BendType(sr.readSignedByte()), Value: sr.readInt()}
	pointCount := sr.readInt()
	for i := 0; i < pointCount && sr.err == nil; i++ {
		position := int(math.Round(float64(sr.readInt()) * BendMaxPosition / bendPosition))
		value := int(math.Round(float64(sr.readInt()) * BendSemitoneLength / bendSemitone))
		bend.Points = append(bend.Points, BendPoint{Position: position, Value: value, Vibrato: sr.readBool()})
	}
	if pointCount <= 0 {
		return nil
	}
	return &bend
}

func (sr *songReader) readGrace() GraceEffect {
	grace := NewGraceEffect()
	grace.Fret = sr.readSignedByte()
	grace.Velocity = unpackVelocity(sr.readByte())
	grace.Duration = 1 << (7 - sr.readByte()&7)
	grace.IsDead = grace.Fret == -1
	grace.Transition = GraceTransition(sr.readSignedByte())
	return grace
}

func (sw *songWriter) writeSongV3(song *Song) {
	sw.writeVersion(versionSignature(sw.version))
	sw.writeInfo(song)
	sw.writeBool(song.MeasureHeaders[0].TripletFeel != TripletFeelNone)
	sw.writeInt(song.Tempo)
	sw.writeInt(song.Key.Root)
	sw.writeMidiChannels(song.Tracks)
	sw.writeInt(len(song.MeasureHeaders))
	sw.writeInt(len(song.Tracks))
	sw.writeMeasureHeaders(song)
	sw.writeTracks(song.Tracks)
	sw.writeMeasures(song)
	sw.writeInt(0)
}

func (sw *songWriter) writeInfo(song *Song) {
	sw.writeIntByteSizeString(song.Title)
	sw.writeIntByteSizeString(song.Subtitle)
	sw.writeIntByteSizeString(song.Artist)
	sw.writeIntByteSizeString(song.Album)
	sw.writeIntByteSizeString(packAuthor(song))
	sw.writeIntByteSizeString(song.Copyright)
	sw.writeIntByteSizeString(song.Tab)
	sw.writeIntByteSizeString(song.Instructions)
	sw.writeNotice(song.Notice)
}

// packAuthor folds the separate words and music credits into the single
// author field of the 3.x and 4.x dialects.
func packAuthor(song *Song) string {
	if song.Words != "" && song.Music != "" {
		if song.Words != song.Music {
			return song.Words + ", " + song.Music
		}
		return song.Words
	}
	return song.Words + song.Music
}

func (sw *songWriter) writeNotice(notice []string) {
	var lines []string
	for _, line := range notice {
		runes := []rune(line)
		for len(runes) > 255 {
			lines = append(lines, string(runes[:255]))
			runes = runes[255:]
		}
		lines = append(lines, string(runes))
	}
	sw.writeInt(len(lines))
	for _, line := range lines {
		sw.writeIntByteSizeString(line)
	}
}

func (sw *songWriter) writeMidiChannels(tracks []Track) {
	for number := 0; number < 64; number++ {
		channel := channelForNumber(tracks, number)
		if channel.IsPercussion() && channel.Instrument == 0 {
			sw.writeInt(-1)
		} else {
			sw.writeInt(channel.Instrument)
		}
		sw.writeSignedByte(fromChannelShort(channel.Volume))
		sw.writeSignedByte(fromChannelShort(channel.Balance))
		sw.writeSignedByte(fromChannelShort(channel.Chorus))
		sw.writeSignedByte(fromChannelShort(channel.Reverb))
		sw.writeSignedByte(fromChannelShort(channel.Phaser))
		sw.writeSignedByte(fromChannelShort(channel.Tremolo))
		sw.placeholder(2)
	}
}

func channelForNumber(tracks []Track, number int) MidiChannel {
	for i := range tracks {
		channel := tracks[i].Channel
		if number == channel.Channel || number == channel.EffectChannel {
			return channel
		}
	}
	channel := NewMidiChannel()
	channel.Channel = number
	channel.EffectChannel = number
	if channel.IsPercussion() {
		channel.Instrument = 0
	}
	return channel
}

func (sw *songWriter) writeMeasureHeaders(song *Song) {
	var previous *MeasureHeader
	for i := range song.MeasureHeaders {
		header := &song.MeasureHeaders[i]
		flags := sw.packMeasureHeaderFlags(header, previous)
		if sw.version.Major == 5 {
			if previous != nil {
				sw.placeholder(1)
			}
			sw.writeMeasureHeaderValuesV5(header, flags)
		} else {
			sw.writeMeasureHeaderValues(header, flags)
		}
		previous = header
	}
}

func (sw *songWriter) packMeasureHeaderFlags(header, previous *MeasureHeader) int {
	flags := 0
	if previous == nil {
		flags |= 0x01 | 0x02
	} else {
		if header.TimeSignature.Numerator != previous.TimeSignature.Numerator {
			flags |= 0x01
		}
		if header.TimeSignature.Denominator.Value != previous.TimeSignature.Denominator.Value {
			flags |= 0x02
		}
	}
	if header.IsRepeatOpen {
		flags |= 0x04
	}
	if header.RepeatClose > -1 {
		flags |= 0x08
	}
	if header.RepeatAlternative != 0 {
		flags |= 0x10
	}
	if header.Marker != nil {
		flags |= 0x20
	}
	if sw.version.Major >= 4 {
		if previous == nil || header.KeySignature != previous.KeySignature {
			flags |= 0x40
		}
		if header.HasDoubleBar {
			flags |= 0x80
		}
	}
	if sw.version.Major == 5 && previous != nil {
		if !equalSlices(header.TimeSignature.Beams, previous.TimeSignature.Beams) {
			flags |= 0x03
		}
	}
	return flags
}

func (sw *songWriter) writeMeasureHeaderValues(header *MeasureHeader, flags int) {
	sw.writeByte(flags)
	if flags&0x01 != 0 {
		sw.writeSignedByte(header.TimeSignature.Numerator)
	}
	if flags&0x02 != 0 {
		sw.writeSignedByte(header.TimeSignature.Denominator.Value)
	}
	if flags&0x08 != 0 {
		sw.writeSignedByte(header.RepeatClose)
	}
	if flags&0x10 != 0 {
		sw.writeRepeatAlternative(header.RepeatAlternative)
	}
	if flags&0x20 != 0 {
		sw.writeMarker(*header.Marker)
	}
	if flags&0x40 != 0 {
		sw.writeSignedByte(header.KeySignature.Root)
		sw.writeSignedByte(header.KeySignature.Mode)
	}
}

// writeRepeatAlternative stores the highest ending of the contiguous
// run of endings starting at the lowest set bit.
func (sw *songWriter) writeRepeatAlternative(value int) {
	length := bits.Len(uint(value))
	firstOne := false
	i := 0
	for ; i <= length; i++ {
		if value&(1<<i) != 0 {
			firstOne = true
		} else if firstOne {
			break
		}
	}
	if i > length {
		i = length
	}
	sw.writeByte(i)
}

func (sw *songWriter) writeMarker(marker Marker) {
	sw.writeIntByteSizeString(marker.Title)
	sw.writeColor(marker.Color)
}

func (sw *songWriter) writeColor(color Color) {
	sw.writeByte(color.R)
	sw.writeByte(color.G)
	sw.writeByte(color.B)
	sw.placeholder(1)
}

func (sw *songWriter) writeTracks(tracks []Track) {
	for i := range tracks {
		if sw.version.Major == 5 {
			sw.writeTrackV5(&tracks[i], i+1)
		} else {
			sw.writeTrack(&tracks[i])
		}
	}
	if sw.version.Major == 5 {
		if sw.version.is500() {
			sw.placeholder(2)
		} else {
			sw.placeholder(1)
		}
	}
}

func (sw *songWriter) writeTrack(track *Track) {
	flags := 0
	if track.IsPercussion {
		flags |= 0x01
	}
	if track.Is12String {
		flags |= 0x02
	}
	if track.IsBanjo {
		flags |= 0x04
	}
	sw.writeByte(flags)
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
}

func (sw *songWriter) writeChannel(track *Track) {
	sw.writeInt(track.Channel.Channel + 1)
	sw.writeInt(track.Channel.EffectChannel + 1)
}

func (sw *songWriter) writeMeasures(song *Song) {
	for mi := range song.MeasureHeaders {
		for ti := range song.Tracks {
			track := &song.Tracks[ti]
			measure := &track.Measures[mi]
			if sw.version.Major == 5 {
				sw.writeMeasureV5(track, measure)
			} else {
				sw.writeVoice(track, &measure.Voices[0])
			}
		}
	}
}

func (sw *songWriter) writeVoice(track *Track, voice *Voice) {
	sw.writeInt(len(voice.Beats))
	for i := range voice.Beats {
		sw.writeBeat(track, &voice.Beats[i])
	}
}

func (sw *songWriter) writeBeat(track *Track, beat *Beat) {
	flags := 0
	if beat.Duration.IsDotted {
		flags |= 0x01
	}
	if beat.Effect.IsChord() {
		flags |= 0x02
	}
	if beat.Text != nil {
		flags |= 0x04
	}
	if sw.version.Major == 3 {
		if !beat.Effect.IsDefault() || beat.HasVibrato() || beat.HasHarmonic() != nil {
			flags |= 0x08
		}
		if beat.Effect.MixTableChange != nil && !beat.Effect.MixTableChange.IsJustWah() {
			flags |= 0x10
		}
	} else {
		if !beat.Effect.IsDefault() {
			flags |= 0x08
		}
		if change := beat.Effect.MixTableChange; change != nil && (!change.IsJustWah() || sw.version.Major > 4) {
			flags |= 0x10
		}
	}
	if beat.Duration.Tuplet != (Tuplet{1, 1}) {
		flags |= 0x20
	}
	if beat.Status != BeatStatusNormal {
		flags |= 0x40
	}
	sw.writeByte(flags)
	if flags&0x40 != 0 {
		sw.writeByte(int(beat.Status))
	}
	sw.writeDuration(beat.Duration, flags)
	if flags&0x02 != 0 {
		sw.writeChord(beat.Effect.Chord)
	}
	if flags&0x04 != 0 {
		sw.writeIntByteSizeString(beat.Text.Value)
	}
	if flags&0x08 != 0 {
		if sw.version.Major == 3 {
			sw.writeBeatEffects(beat)
		} else {
			sw.writeBeatEffectsV4(beat)
		}
	}
	if flags&0x10 != 0 {
		sw.writeMixTableChange(beat.Effect.MixTableChange)
	}
	sw.writeNotes(track, beat)
	if sw.version.Major == 5 {
		sw.writeBeatDisplay(beat)
	}
}

func (sw *songWriter) writeDuration(duration Duration, flags int) {
	sw.writeSignedByte(bits.Len(uint(duration.Value)) - 3)
	if flags&0x20 != 0 && duration.Tuplet.IsSupported() {
		sw.writeInt(duration.Tuplet.Enters)
	}
}

func (sw *songWriter) writeChord(chord *Chord) {
	if sw.version.Major >= 4 {
		sw.writeSignedByte(1)
		sw.writeNewChordV4(chord)
		return
	}
	sw.writeBool(chord.NewFormat)
	if chord.NewFormat {
		sw.writeNewChord(chord)
	} else {
		sw.writeOldChord(chord)
	}
}

func (sw *songWriter) writeOldChord(chord *Chord) {
	sw.writeIntByteSizeString(chord.Name)
	sw.writeInt(chord.FirstFret)
	for i := 0; i < 6; i++ {
		fret := -1
		if i < len(chord.Strings) {
			fret = chord.Strings[i]
		}
		sw.writeInt(fret)
	}
}

func (sw *songWriter) writeNewChord(chord *Chord) {
	sw.writeBool(chord.Sharp)
	sw.placeholder(3)
	sw.writeInt(chord.Root.Value)
	sw.writeInt(int(chord.Type))
	sw.writeInt(int(chord.Extension))
	sw.writeInt(chord.Bass.Value)
	sw.writeInt(int(chord.Tonality))
	sw.writeBool(chord.Add)
	sw.writeByteSizeString(chord.Name, 22)
	sw.writeInt(int(chord.Fifth))
	sw.writeInt(int(chord.Ninth))
	sw.writeInt(int(chord.Eleventh))
	sw.writeInt(chord.FirstFret)
	for i := 0; i < 6; i++ {
		fret := -1
		if i < len(chord.Strings) {
			fret = chord.Strings[i]
		}
		sw.writeInt(fret)
	}
	barres := chord.Barres
	if len(barres) > 2 {
		barres = barres[:2]
	}
	sw.writeInt(len(barres))
	for i := 0; i < 2; i++ {
		if i < len(barres) {
			sw.writeInt(barres[i].Fret)
		} else {
			sw.writeInt(0)
		}
	}
	for i := 0; i < 2; i++ {
		if i < len(barres) {
			sw.writeInt(barres[i].Start)
		} else {
			sw.writeInt(0)
		}
	}
	for i := 0; i < 2; i++ {
		if i < len(barres) {
			sw.writeInt(barres[i].End)
		} else {
			sw.writeInt(0)
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
}

func (sw *songWriter) writeBeatEffects(beat *Beat) {
	flags := 0
	if beat.HasVibrato() {
		flags |= 0x01
	}
	if beat.Effect.Vibrato {
		flags |= 0x02
	}
	if harmonic := beat.HasHarmonic(); harmonic != nil {
		switch harmonic.Type {
		case HarmonicNatural:
			flags |= 0x04
		case HarmonicArtificial:
			flags |= 0x08
		}
	}
	if beat.Effect.FadeIn {
		flags |= 0x10
	}
	if beat.Effect.IsTremoloBar() || beat.Effect.IsSlapEffect() {
		flags |= 0x20
	}
	if beat.Effect.Stroke != (BeatStroke{}) {
		flags |= 0x40
	}
	sw.writeByte(flags)
	if flags&0x20 != 0 {
		sw.writeByte(int(beat.Effect.SlapEffect))
		if beat.Effect.SlapEffect == SlapEffectNone {
			sw.writeTremoloBar(beat.Effect.TremoloBar)
		} else {
			sw.writeInt(0)
		}
	}
	if flags&0x40 != 0 {
		sw.writeBeatStroke(beat.Effect.Stroke)
	}
}

func (sw *songWriter) writeTremoloBar(bar *BendEffect) {
	if bar != nil {
		sw.writeInt(bar.Value)
	} else {
		sw.writeInt(0)
	}
}

func (sw *songWriter) writeBeatStroke(stroke BeatStroke) {
	if sw.version.Major == 5 {
		stroke = stroke.SwapDirection()
	}
	down, up := 0, 0
	switch stroke.Direction {
	case BeatStrokeUp:
		up = fromStrokeValue(stroke.Value)
	case BeatStrokeDown:
		down = fromStrokeValue(stroke.Value)
	}
	sw.writeSignedByte(down)
	sw.writeSignedByte(up)
}

func (sw *songWriter) writeMixTableChange(change *MixTableChange) {
	switch sw.version.Major {
	case 5:
		sw.writeMixTableChangeValuesV5(change)
		sw.writeMixTableChangeDurationsV5(change)
		sw.writeMixTableChangeFlagsV5(change)
		sw.writeWahEffect(change.Wah)
		sw.writeRSEInstrumentEffect(&change.RSE)
	case 4:
		sw.writeMixTableChangeValues(change)
		sw.writeMixTableChangeDurations(change)
		sw.writeMixTableChangeFlags(change)
	default:
		sw.writeMixTableChangeValues(change)
		sw.writeMixTableChangeDurations(change)
	}
}

func mixTableItemValue(item *MixTableItem) int {
	if item == nil {
		return -1
	}
	return item.Value
}

func (sw *songWriter) writeMixTableChangeValues(change *MixTableChange) {
	sw.writeSignedByte(mixTableItemValue(change.Instrument))
	sw.writeSignedByte(mixTableItemValue(change.Volume))
	sw.writeSignedByte(mixTableItemValue(change.Balance))
	sw.writeSignedByte(mixTableItemValue(change.Chorus))
	sw.writeSignedByte(mixTableItemValue(change.Reverb))
	sw.writeSignedByte(mixTableItemValue(change.Phaser))
	sw.writeSignedByte(mixTableItemValue(change.Tremolo))
	sw.writeInt(mixTableItemValue(change.Tempo))
}

func (sw *songWriter) writeMixTableChangeDurations(change *MixTableChange) {
	if change.Volume != nil {
		sw.writeSignedByte(change.Volume.Duration)
	}
	if change.Balance != nil {
		sw.writeSignedByte(change.Balance.Duration)
	}
	if change.Chorus != nil {
		sw.writeSignedByte(change.Chorus.Duration)
	}
	if change.Reverb != nil {
		sw.writeSignedByte(change.Reverb.Duration)
	}
	if change.Phaser != nil {
		sw.writeSignedByte(change.Phaser.Duration)
	}
	if change.Tremolo != nil {
		sw.writeSignedByte(change.Tremolo.Duration)
	}
	if change.Tempo != nil {
		sw.writeSignedByte(change.Tempo.Duration)
		if sw.version.Major == 5 && sw.version.after500() {
			sw.writeBool(change.HideTempo)
		}
	}
}

func (sw *songWriter) writeNotes(track *Track, beat *Beat) {
	stringFlags := 0
	for i := range beat.Notes {
		stringFlags |= 1 << (7 - beat.Notes[i].String)
	}
	sw.writeByte(stringFlags)
	order := make([]*Note, len(beat.Notes))
	for i := range beat.Notes {
		order[i] = &beat.Notes[i]
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].String < order[j].String })
	for _, note := range order {
		if sw.version.Major == 5 {
			sw.writeNoteV5(track, note)
		} else {
			sw.writeNote(track, note)
		}
	}
}

func (sw *songWriter) writeNote(track *Track, note *Note) {
	flags := sw.packNoteFlags(note)
	sw.writeByte(flags)
	if flags&0x20 != 0 {
		sw.writeByte(int(note.Type))
	}
	if flags&0x01 != 0 {
		sw.writeSignedByte(note.Independent.Value)
		sw.writeSignedByte(note.Independent.Tuplet)
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
	if flags&0x08 != 0 {
		if sw.version.Major == 3 {
			sw.writeNoteEffects(note)
		} else {
			sw.writeNoteEffectsV4(track, note)
		}
	}
}

func (sw *songWriter) packNoteFlags(note *Note) int {
	flags := 0x20
	if note.Independent != nil && sw.version.Major < 5 {
		flags |= 0x01
	}
	if note.Effect.HeavyAccentuatedNote {
		flags |= 0x02
	}
	if note.Effect.GhostNote {
		flags |= 0x04
	}
	if !note.Effect.IsDefault() {
		flags |= 0x08
	}
	if note.Velocity != DefaultVelocity {
		flags |= 0x10
	}
	if sw.version.Major >= 4 {
		if note.Effect.AccentuatedNote {
			flags |= 0x40
		}
		if note.Effect.IsFingering() {
			flags |= 0x80
		}
	}
	if sw.version.Major == 5 && math.Abs(note.DurationPercent-1.0) >= 1e-3 {
		flags |= 0x01
	}
	return flags
}

func (sw *songWriter) writeNoteEffects(note *Note) {
	effect := &note.Effect
	flags := 0
	if effect.IsBend() {
		flags |= 0x01
	}
	if effect.Hammer {
		flags |= 0x02
	}
	for _, slide := range effect.Slides {
		if slide == SlideShiftTo || slide == SlideLegatoTo {
			flags |= 0x04
		}
	}
	if effect.LetRing {
		flags |= 0x08
	}
	if effect.Grace != nil {
		flags |= 0x10
	}
	sw.writeByte(flags)
	if flags&0x01 != 0 {
		sw.writeBend(effect.Bend)
	}
	if flags&0x10 != 0 {
		sw.writeGrace(effect.Grace)
	}
}

func (sw *songWriter) writeBend(bend *BendEffect) {
	sw.writeSignedByte(int(bend.Type))
	sw.writeInt(bend.Value)
	sw.writeInt(len(bend.Points))
	for _, point := range bend.Points {
		sw.writeInt(int(math.Round(float64(point.Position) * bendPosition / BendMaxPosition)))
		sw.writeInt(int(math.Round(float64(point.Value) * bendSemitone / BendSemitoneLength)))
		sw.writeBool(point.Vibrato)
	}
}

func (sw *songWriter) writeGrace(grace *GraceEffect) {
	sw.writeSignedByte(grace.Fret)
	sw.writeByte(packVelocity(grace.Velocity))
	sw.writeByte(8 - bits.Len(uint(grace.Duration)))
	sw.writeSignedByte(int(grace.Transition))
}
