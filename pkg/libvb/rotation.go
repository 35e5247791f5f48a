package libvb

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	arbitraryRotation = regexp.MustCompile(`rotate-\[(-?\d+(?:\.\d+)?)(?:deg)?\]`)
	presetRotation    = regexp.MustCompile(`^(-?)rotate-(\d+)$`)
)

// A Rotation is a signed angle in degrees.
//
// Boards written by older clients store the rotation as a presentation class
// (`rotate-3`, `-rotate-2`, `rotate-[7deg]`). Those are decoded to their angle.
// Malformed and non-finite values decode to 0 and never fail the document decoding.
type Rotation float64

func finite(f float64) Rotation {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Rotation(f)
}

// Finite returns r, or 0 when r is NaN or infinite.
func (r Rotation) Finite() Rotation {
	return finite(float64(r))
}

// ParseRotation returns the angle of the given rotation representation.
func ParseRotation(s string) Rotation {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if f, err := strconv.ParseFloat(strings.TrimSuffix(s, "deg"), 64); err == nil {
		return finite(f)
	}

	if m := arbitraryRotation.FindStringSubmatch(s); m != nil {
		f, _ := strconv.ParseFloat(m[1], 64)
		return finite(f)
	}

	if m := presetRotation.FindStringSubmatch(s); m != nil {
		f, _ := strconv.ParseFloat(m[2], 64)
		if m[1] == "-" {
			f = -f
		}
		return finite(f)
	}

	return 0
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rotation) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*r = 0
		return nil
	}

	switch v := v.(type) {
	case float64:
		*r = finite(v)
	case string:
		*r = ParseRotation(v)
	default:
		*r = 0
	}
	return nil
}
