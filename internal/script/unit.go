package script

import (
	"strconv"
	"strings"
)

// Unit is the measure of a position or count.
type Unit int

const (
	UnitInherit Unit = iota
	UnitPixel
	UnitPercent
	UnitInch
	UnitCentimeter
	UnitMeter
	UnitUnset
)

func (u Unit) String() string {
	switch u {
	case UnitPixel:
		return "px"
	case UnitPercent:
		return "%"
	case UnitInch:
		return "in"
	case UnitCentimeter:
		return "cm"
	case UnitMeter:
		return "m"
	case UnitUnset:
		return "unset"
	}
	return "inherit"
}

// ParseUnit reads unit text, returning ok=false when the text names no unit.
func ParseUnit(text string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "px", "pixel":
		return UnitPixel, true
	case "%", "percent":
		return UnitPercent, true
	case "in", "inch":
		return UnitInch, true
	case "cm", "centimeter":
		return UnitCentimeter, true
	case "m", "meter":
		return UnitMeter, true
	case "inherit":
		return UnitInherit, true
	}
	return UnitUnset, false
}

// UnitValue is a number with its unit.
type UnitValue struct {
	Value float64
	Unit  Unit
}

// leadingNumber splits text into its numeric prefix and the rest.
func leadingNumber(text string) (float64, string, bool) {
	text = strings.TrimSpace(text)
	end := 0
	digits := false
	if end < len(text) && (text[end] == '-' || text[end] == '+') {
		end++
	}
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
		digits = true
	}
	if end < len(text) && text[end] == '.' {
		end++
		for end < len(text) && text[end] >= '0' && text[end] <= '9' {
			end++
			digits = true
		}
	}
	if !digits {
		return 0, text, false
	}
	f, err := strconv.ParseFloat(text[:end], 64)
	if err != nil {
		return 0, text, false
	}
	return f, text[end:], true
}

// ParseUnitValue reads text like "10%" or "2.5cm". Missing parts take the
// defaults.
func ParseUnitValue(text string, def float64, defUnit Unit) UnitValue {
	f, rest, ok := leadingNumber(text)
	if !ok {
		return UnitValue{def, defUnit}
	}
	u, ok := ParseUnit(rest)
	if !ok {
		u = defUnit
	}
	return UnitValue{f, u}
}
