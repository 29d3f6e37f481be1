package guitarpro

// QuarterTime is the number of timeline ticks in a quarter note.
const QuarterTime = 960

// Note duration values, expressed as the denominator of the note
// fraction: a quarter note is 4, a half note 2 and so on.
const (
	WholeNote               = 1
	HalfNote                = 2
	QuarterNote             = 4
	EighthNote              = 8
	SixteenthNote           = 16
	ThirtySecondNote        = 32
	SixtyFourthNote         = 64
	HundredTwentyEighthNote = 128
)

var durationValues = []int{
	WholeNote, HalfNote, QuarterNote, EighthNote, SixteenthNote,
	ThirtySecondNote, SixtyFourthNote, HundredTwentyEighthNote,
}

// Tuplet is an irregular grouping: Enters notes played in the time of
// Times regular ones.
type Tuplet struct {
	Enters int `yaml:"enters"`
	Times  int `yaml:"times"`
}

// supportedTuplets lists the groupings the file format can express.
// 3:2 precedes 6:4 and 12:8, and 5:4 precedes 10:8, so the canonical
// ratio wins when DurationFromTime searches for a match.
var supportedTuplets = []Tuplet{
	{1, 1}, {3, 2}, {5, 4}, {6, 4}, {7, 4}, {9, 8}, {10, 8}, {11, 8}, {12, 8}, {13, 8},
}

// IsSupported reports whether the grouping has a wire representation.
func (t Tuplet) IsSupported() bool {
	for _, s := range supportedTuplets {
		if t == s {
			return true
		}
	}
	return false
}

// ConvertTime scales a tick count by the tuplet ratio, truncating
// toward zero.
func (t Tuplet) ConvertTime(time int) int {
	return time * t.Times / t.Enters
}

// Duration is the length of a beat: a base note value, optional dots
// and an optional tuplet.
//
// IsDoubleDotted survives decoding for round-tripping old files but is
// never produced by DurationFromTime.
type Duration struct {
	Value          int    `yaml:"value"`
	IsDotted       bool   `yaml:"isDotted,omitempty"`
	IsDoubleDotted bool   `yaml:"isDoubleDotted,omitempty"`
	Tuplet         Tuplet `yaml:"tuplet,flow"`
}

// NewDuration returns a quarter note duration.
func NewDuration() Duration {
	return Duration{Value: QuarterNote, Tuplet: Tuplet{1, 1}}
}

// Time returns the total tick count of the duration.
func (d Duration) Time() int {
	result := QuarterTime * 4 / d.Value
	if d.IsDotted {
		result += result / 2
	}
	if d.IsDoubleDotted {
		result += result / 4 * 3
	}
	return d.Tuplet.ConvertTime(result)
}

// DurationFromTime finds the duration whose Time equals the given tick
// count. The search runs from longer to shorter values, plain before
// dotted, regular before tuplets, so ambiguous tick counts resolve to
// the simplest spelling. Double-dotted durations are never returned.
func DurationFromTime(time int) (Duration, error) {
	for _, value := range durationValues {
		for _, dotted := range []bool{false, true} {
			for _, tuplet := range supportedTuplets {
				d := Duration{Value: value, IsDotted: dotted, Tuplet: tuplet}
				if d.Time() == time {
					return d, nil
				}
			}
		}
	}
	return Duration{}, UnrepresentableDurationError{Time: time}
}
