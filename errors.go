package guitarpro

import "fmt"

type (
	// TruncatedInputError is returned when the input ends in the middle of
	// a record or primitive value.
	TruncatedInputError struct {
		Offset int64 // byte offset where the read started
		Want   int   // bytes needed
		Got    int   // bytes available
	}

	// EncodingError is returned when a string cannot be represented in the
	// 8-bit tablature charset.
	EncodingError struct {
		Str string
	}

	// UnrecognizedFormatError is returned when the version signature at the
	// start of the input does not match any known Guitar Pro signature.
	UnrecognizedFormatError struct {
		Signature string
	}

	// UnsupportedVersionError is returned when the version signature is
	// recognized but the revision is not handled by this package.
	UnsupportedVersionError struct {
		Signature string
	}

	// MalformedRecordError is returned when a record violates the format
	// grammar, for example an out-of-range enum value or an inconsistent
	// count.
	MalformedRecordError struct {
		Offset int64
		Record string
		Reason string
	}

	// UnrepresentableDurationError is returned by DurationFromTime when no
	// combination of base duration, dot and supported tuplet produces the
	// given tick count.
	UnrepresentableDurationError struct {
		Time int
	}

	// UnsupportedFeatureError is returned by writers when the song uses a
	// construct the target dialect has no wire representation for.
	UnsupportedFeatureError struct {
		Feature string
		Version string
	}
)

func (e TruncatedInputError) Error() string {
	return fmt.Sprintf("truncated input at offset %d: want %d bytes, got %d", e.Offset, e.Want, e.Got)
}

func (e EncodingError) Error() string {
	return fmt.Sprintf("string %q is not representable in the tablature charset", e.Str)
}

func (e UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("unrecognized format signature %q", e.Signature)
}

func (e UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported version %q", e.Signature)
}

func (e MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s at offset %d: %s", e.Record, e.Offset, e.Reason)
}

func (e UnrepresentableDurationError) Error() string {
	return fmt.Sprintf("no duration has a time of %d ticks", e.Time)
}

func (e UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("%s cannot be written to %s", e.Feature, e.Version)
}
