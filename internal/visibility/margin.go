package visibility

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidMargin is returned when a root margin cannot be parsed.
var ErrInvalidMargin = errors.New("invalid root margin")

// Bounds on a single margin length. Anything larger cannot describe a
// terminal and would overflow Rect arithmetic.
const (
	MaxLength  = 1 << 16 // Cells
	MaxPercent = 1000
)

// Length is a single margin component in cells or percent of the root.
type Length struct {
	Value   int
	Percent bool
}

func (l Length) resolve(extent int) int {
	if l.Percent {
		return extent * l.Value / 100
	}
	return l.Value
}

func (l Length) String() string {
	if l.Percent {
		return strconv.Itoa(l.Value) + "%"
	}
	return strconv.Itoa(l.Value) + "px"
}

// Margin grows (or shrinks) the root box before intersection is computed.
type Margin struct {
	Top    Length
	Right  Length
	Bottom Length
	Left   Length
}

// ParseMargin parses a CSS-style margin: one to four space-separated lengths,
// each "Npx", "N%" or a bare "0". The usual shorthand expansion applies
// ("10px 0px" is vertical then horizontal).
func ParseMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Margin{}, nil
	}
	if len(fields) > 4 {
		return Margin{}, fmt.Errorf("%w: %q has more than four lengths", ErrInvalidMargin, s)
	}

	lengths := make([]Length, len(fields))
	for i, f := range fields {
		l, err := parseLength(f)
		if err != nil {
			return Margin{}, fmt.Errorf("%w: %q: %v", ErrInvalidMargin, s, err)
		}
		lengths[i] = l
	}

	switch len(lengths) {
	case 1:
		return Margin{lengths[0], lengths[0], lengths[0], lengths[0]}, nil
	case 2:
		return Margin{lengths[0], lengths[1], lengths[0], lengths[1]}, nil
	case 3:
		return Margin{lengths[0], lengths[1], lengths[2], lengths[1]}, nil
	default:
		return Margin{lengths[0], lengths[1], lengths[2], lengths[3]}, nil
	}
}

func parseLength(s string) (Length, error) {
	var percent bool
	num := s
	switch {
	case strings.HasSuffix(s, "px"):
		num = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "%"):
		num = strings.TrimSuffix(s, "%")
		percent = true
	case s == "0":
	default:
		return Length{}, fmt.Errorf("length %q must end in px or %%", s)
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Length{}, fmt.Errorf("length %q is not a number", s)
	}
	limit := float64(MaxLength)
	if percent {
		limit = MaxPercent
	}
	if math.Abs(v) > limit {
		return Length{}, fmt.Errorf("length %q is out of range (±%v)", s, limit)
	}
	return Length{Value: int(v), Percent: percent}, nil
}
