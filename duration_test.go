package guitarpro_test

import (
	"errors"
	"testing"

	"github.com/perlence/guitarpro"
)

func TestDurationTime(t *testing.T) {
	tests := []struct {
		duration guitarpro.Duration
		time     int
	}{
		{guitarpro.Duration{Value: guitarpro.WholeNote, Tuplet: guitarpro.Tuplet{1, 1}}, 3840},
		{guitarpro.Duration{Value: guitarpro.QuarterNote, Tuplet: guitarpro.Tuplet{1, 1}}, 960},
		{guitarpro.Duration{Value: guitarpro.QuarterNote, IsDotted: true, Tuplet: guitarpro.Tuplet{1, 1}}, 1440},
		{guitarpro.Duration{Value: guitarpro.QuarterNote, IsDoubleDotted: true, Tuplet: guitarpro.Tuplet{1, 1}}, 1680},
		{guitarpro.Duration{Value: guitarpro.EighthNote, Tuplet: guitarpro.Tuplet{3, 2}}, 320},
		{guitarpro.Duration{Value: guitarpro.SixteenthNote, Tuplet: guitarpro.Tuplet{5, 4}}, 192},
	}
	for _, test := range tests {
		if got := test.duration.Time(); got != test.time {
			t.Fatalf("%+v Time got %v, expected %v", test.duration, got, test.time)
		}
	}
}

func TestDurationFromTime(t *testing.T) {
	for _, duration := range []guitarpro.Duration{
		{Value: guitarpro.WholeNote, Tuplet: guitarpro.Tuplet{1, 1}},
		{Value: guitarpro.QuarterNote, Tuplet: guitarpro.Tuplet{1, 1}},
		{Value: guitarpro.QuarterNote, IsDotted: true, Tuplet: guitarpro.Tuplet{1, 1}},
		{Value: guitarpro.EighthNote, Tuplet: guitarpro.Tuplet{3, 2}},
		{Value: guitarpro.ThirtySecondNote, Tuplet: guitarpro.Tuplet{7, 4}},
	} {
		got, err := guitarpro.DurationFromTime(duration.Time())
		if err != nil {
			t.Fatalf("DurationFromTime(%v) failed: %v", duration.Time(), err)
		}
		if got != duration {
			t.Fatalf("DurationFromTime(%v) got %+v, expected %+v", duration.Time(), got, duration)
		}
	}
}

func TestDurationFromTimeAmbiguity(t *testing.T) {
	// 6:4 sixteenths and 3:2 sixteenths both last 160 ticks; the
	// canonical 3:2 spelling wins.
	got, err := guitarpro.DurationFromTime(160)
	if err != nil {
		t.Fatalf("DurationFromTime failed: %v", err)
	}
	expected := guitarpro.Duration{Value: guitarpro.SixteenthNote, Tuplet: guitarpro.Tuplet{3, 2}}
	if got != expected {
		t.Fatalf("got %+v, expected %+v", got, expected)
	}
}

func TestDurationFromTimeUnrepresentable(t *testing.T) {
	_, err := guitarpro.DurationFromTime(7)
	var unrep guitarpro.UnrepresentableDurationError
	if !errors.As(err, &unrep) {
		t.Fatalf("got %v, expected UnrepresentableDurationError", err)
	}
	if unrep.Time != 7 {
		t.Fatalf("got time %v, expected 7", unrep.Time)
	}
}

func TestTripletCompression(t *testing.T) {
	eighth := guitarpro.Duration{Value: guitarpro.EighthNote, Tuplet: guitarpro.Tuplet{3, 2}}
	// Three triplet eighths fill one quarter, not one and a half.
	if got := 3 * eighth.Time(); got != guitarpro.QuarterTime {
		t.Fatalf("three triplet eighths got %v ticks, expected %v", got, guitarpro.QuarterTime)
	}
	header := guitarpro.NewMeasureHeader()
	if got := 12 * eighth.Time(); got != header.Length() {
		t.Fatalf("twelve triplet eighths got %v ticks, expected the 4/4 measure length %v",
			got, header.Length())
	}
}

func TestVoiceStartInMeasure(t *testing.T) {
	var voice guitarpro.Voice
	for i := 0; i < 3; i++ {
		beat := guitarpro.NewBeat()
		beat.Duration = guitarpro.Duration{Value: guitarpro.EighthNote, Tuplet: guitarpro.Tuplet{3, 2}}
		voice.Beats = append(voice.Beats, beat)
	}
	if got := voice.StartInMeasure(0); got != 0 {
		t.Fatalf("first beat starts at %v, expected 0", got)
	}
	if got := voice.StartInMeasure(2); got != 640 {
		t.Fatalf("third triplet eighth starts at %v, expected 640", got)
	}
	if got := voice.RealStart(2); got != voice.StartInMeasure(2) {
		t.Fatalf("RealStart got %v, expected %v", got, voice.StartInMeasure(2))
	}
}

func TestMeasureHeaderLength(t *testing.T) {
	header := guitarpro.NewMeasureHeader()
	if got := header.Length(); got != 4*guitarpro.QuarterTime {
		t.Fatalf("4/4 measure length got %v, expected %v", got, 4*guitarpro.QuarterTime)
	}
	header.TimeSignature.Numerator = 6
	header.TimeSignature.Denominator.Value = guitarpro.EighthNote
	if got := header.Length(); got != 6*guitarpro.QuarterTime/2 {
		t.Fatalf("6/8 measure length got %v, expected %v", got, 6*guitarpro.QuarterTime/2)
	}
}
