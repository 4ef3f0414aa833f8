package codec

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type (
	decimalType  = decimal.Decimal
	timeType     = time.Time
	durationType = time.Duration
)

// Codecs for every supported type.
var (
	// String rejects invalid UTF-8, which the settings file cannot hold.
	String = Codec[string]{
		name:   "string",
		parse:  func(s string) (string, bool) { return s, utf8.ValidString(s) },
		format: func(v string) string { return v },
	}

	Bool = Codec[bool]{
		name:   "bool",
		parse:  ParseBool,
		format: strconv.FormatBool,
	}

	Int     = signed[int]("int", strconv.IntSize)
	Int8    = signed[int8]("int8", 8)
	Int16   = signed[int16]("int16", 16)
	Int32   = signed[int32]("int32", 32)
	Int64   = signed[int64]("int64", 64)
	Uint    = unsigned[uint]("uint", strconv.IntSize)
	Uint8   = unsigned[uint8]("uint8", 8)
	Uint16  = unsigned[uint16]("uint16", 16)
	Uint32  = unsigned[uint32]("uint32", 32)
	Uint64  = unsigned[uint64]("uint64", 64)
	Float32 = float[float32]("float32", 32)
	Float64 = float[float64]("float64", 64)

	Decimal = Codec[decimal.Decimal]{
		name: "github.com/shopspring/decimal.Decimal",
		parse: func(s string) (decimal.Decimal, bool) {
			d, err := decimal.NewFromString(strings.TrimSpace(s))
			if err != nil {
				return decimal.Decimal{}, false
			}
			return d, true
		},
		format: func(v decimal.Decimal) string { return v.String() },
	}

	Time = Codec[time.Time]{
		name:   "time.Time",
		parse:  parseTime,
		format: func(v time.Time) string { return v.Format(time.RFC3339Nano) },
	}

	Duration = Codec[time.Duration]{
		name: "time.Duration",
		parse: func(s string) (time.Duration, bool) {
			d, err := time.ParseDuration(strings.TrimSpace(s))
			if err != nil {
				return 0, false
			}
			return d, true
		},
		format: func(v time.Duration) string { return v.String() },
	}
)

var all = []Dynamic{
	String, Bool,
	Int, Int8, Int16, Int32, Int64,
	Uint, Uint8, Uint16, Uint32, Uint64,
	Float32, Float64,
	Decimal, Time, Duration,
}

func signed[T int | int8 | int16 | int32 | int64](name string, bits int) Codec[T] {
	return Codec[T]{
		name: name,
		parse: func(s string) (T, bool) {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, bits)
			if err != nil {
				return 0, false
			}
			return T(n), true
		},
		format: func(v T) string { return strconv.FormatInt(int64(v), 10) },
	}
}

func unsigned[T uint | uint8 | uint16 | uint32 | uint64](name string, bits int) Codec[T] {
	return Codec[T]{
		name: name,
		parse: func(s string) (T, bool) {
			n, err := strconv.ParseUint(strings.TrimSpace(s), 10, bits)
			if err != nil {
				return 0, false
			}
			return T(n), true
		},
		format: func(v T) string { return strconv.FormatUint(uint64(v), 10) },
	}
}

func float[T float32 | float64](name string, bits int) Codec[T] {
	return Codec[T]{
		name: name,
		parse: func(s string) (T, bool) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), bits)
			if err != nil {
				return 0, false
			}
			return T(f), true
		},
		format: func(v T) string { return strconv.FormatFloat(float64(v), 'g', -1, bits) },
	}
}

// timeLayouts are tried in order when parsing a timestamp.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.DateTime,
	time.DateOnly,
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseBool parses s leniently, ignoring case:
//
//	"0..." or "false..."        false
//	"1..." or "true..."         true
//	"no..." or "n"              false
//	"yes...", "yea..." or "y"   true
//
// Matching is by prefix, so "0wxyz" is false and "truest" is true.
// Anything else, including the empty string, is rejected.
func ParseBool(s string) (bool, bool) {
	s = strings.ToLower(s)
	if s == "" {
		return false, false
	}
	if s[0] == '0' || strings.HasPrefix(s, "false") {
		return false, true
	}
	if s[0] == '1' || strings.HasPrefix(s, "true") {
		return true, true
	}
	if strings.HasPrefix(s, "no") || s == "n" {
		return false, true
	}
	if strings.HasPrefix(s, "yes") || strings.HasPrefix(s, "yea") || s == "y" {
		return true, true
	}
	return false, false
}
