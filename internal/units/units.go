package units

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	MB  = "MB"
	GB  = "GB"
	TB  = "TB"
	MHz = "MHz"
	GHz = "GHz"
)

var (
	leadingIntPattern = regexp.MustCompile(`(\d+)\s*([kmgt]i?b)?`)
	sizeUnitPattern   = regexp.MustCompile(`\b([mgt]i?b)\b`)
)

type UnitParseError struct {
	Input string
	Unit  string
}

func (e *UnitParseError) Error() string {
	if e.Unit != "" {
		return fmt.Sprintf("unrecognized unit %q in %q", e.Unit, e.Input)
	}
	return fmt.Sprintf("no magnitude found in %q", e.Input)
}

// StorageOrRAMToGB converts an amount expressed in MB, GB or TB to gigabytes.
func StorageOrRAMToGB(amount float64, unit string) (float64, error) {
	switch strings.ToUpper(strings.TrimSpace(unit)) {
	case MB:
		return amount / 1024, nil
	case GB:
		return amount, nil
	case TB:
		return amount * 1024, nil
	default:
		return 0, &UnitParseError{Input: fmt.Sprintf("%v %s", amount, unit), Unit: unit}
	}
}

// RoundGB rounds half away from zero, so 512 MB reports as 1 GB.
func RoundGB(v float64) int {
	return int(math.Round(v))
}

// ParseAmount reads the leading integer of text and the size unit that goes
// with it. When no unit follows the number the first unit mentioned anywhere
// in text is used, and GB is assumed when there is none. Binary suffixes
// (MiB, GiB, TiB) count as their decimal names.
func ParseAmount(text string) (int, string, error) {
	lower := strings.ToLower(text)

	m := leadingIntPattern.FindStringSubmatch(lower)
	if m == nil {
		return 0, "", &UnitParseError{Input: text}
	}

	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", &UnitParseError{Input: text}
	}

	unit := m[2]
	if unit == "" {
		if u := sizeUnitPattern.FindStringSubmatch(lower); u != nil {
			unit = u[1]
		} else {
			unit = "gb"
		}
	}
	unit = strings.Replace(unit, "ib", "b", 1)
	if unit == "kb" {
		return 0, "", &UnitParseError{Input: text, Unit: unit}
	}

	return amount, strings.ToUpper(unit), nil
}

// ParseGB is ParseAmount followed by conversion and rounding to whole GB.
func ParseGB(text string) (int, error) {
	amount, unit, err := ParseAmount(text)
	if err != nil {
		return 0, err
	}
	gb, err := StorageOrRAMToGB(float64(amount), unit)
	if err != nil {
		return 0, err
	}
	return RoundGB(gb), nil
}

func FrequencyToGHz(amount float64, unit string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "mhz":
		return amount / 1000, nil
	case "ghz":
		return amount, nil
	default:
		return 0, &UnitParseError{Input: fmt.Sprintf("%v %s", amount, unit), Unit: unit}
	}
}
