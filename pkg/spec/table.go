/*
Copyright © 2024 - 2025 diskplan authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package spec

import (
	"fmt"
	"strconv"
	"strings"
)

// SizeKind tags the partition sizing policy.
type SizeKind int

const (
	// SizeBytes is an absolute size in bytes.
	SizeBytes SizeKind = iota
	// SizeFraction is a fraction (0..1] of the whole device.
	SizeFraction
	// SizeAuto marks the filler partition occupying all remaining space.
	SizeAuto
)

// Size is a parsed partition size expression.
type Size struct {
	Kind     SizeKind
	Bytes    uint64
	Fraction float64
}

func (s Size) String() string {
	switch s.Kind {
	case SizeAuto:
		return "auto"
	case SizeFraction:
		return fmt.Sprintf("%g%%", s.Fraction*100)
	default:
		return fmt.Sprintf("%dB", s.Bytes)
	}
}

// Table is the partition-table entry of a partition: a gptfdisk type code and
// a sizing policy.
type Table struct {
	// Type maps directly to the gptfdisk interface, either a short type such
	// as ef00 or a raw GUID such as C12A7328-F81F-11D2-BA4B-00A0C93EC93B.
	Type string
	Size Size
}

// typeAliases maps friendly names to gptfdisk short codes.
var typeAliases = map[string]string{
	"efi":         "ef00",
	"esp":         "ef00",
	"xbootldr":    "ea00",
	"swap":        "8200",
	"linux":       "8300",
	"home":        "8302",
	"root":        "8304",
	"root-x86":    "8303",
	"root-x86_64": "8304",
	"root-arm64":  "8305",
	"root-arm32":  "8307",
	"root-ia64":   "830a",
	"nt":          "0700",
	"win":         "0700",
	"windows":     "0700",
}

// sizeUnits resolves trailing unit suffixes, longest suffix first so 'KB'
// wins over 'K'. Binary units multiply by powers of 1024, 'B' suffixed ones
// by powers of 1000.
var sizeUnits = []struct {
	suffix     string
	multiplier uint64
}{
	{"KB", 1000},
	{"MB", 1000 * 1000},
	{"GB", 1000 * 1000 * 1000},
	{"TB", 1000 * 1000 * 1000 * 1000},
	{"K", 1024},
	{"M", 1024 * 1024},
	{"G", 1024 * 1024 * 1024},
	{"T", 1024 * 1024 * 1024 * 1024},
}

// NewTable resolves a raw type and size token pair into a Table.
func NewTable(typeToken, sizeToken string) (Table, error) {
	pType, err := parseType(typeToken)
	if err != nil {
		return Table{}, err
	}
	size, err := parseSize(sizeToken)
	if err != nil {
		return Table{}, err
	}
	return Table{Type: pType, Size: size}, nil
}

func isHex(value string) bool {
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// parseType accepts a known alias, a 4-hex-digit short code or a dashed GUID
// with dashes at positions 8, 13, 18 and 23.
func parseType(value string) (string, error) {
	if alias, ok := typeAliases[value]; ok {
		return alias, nil
	}

	if !isHex(strings.ReplaceAll(value, "-", "")) {
		return "", fmt.Errorf("manual partition type '%s' must be hexadecimal", value)
	}

	var dashes []int
	for i, r := range value {
		if r == '-' {
			dashes = append(dashes, i)
		}
	}

	switch {
	case len(dashes) == 0:
		if len(value) != 4 {
			return "", fmt.Errorf("short partition type '%s' must be of 4 hex digits", value)
		}
		return value, nil
	case len(dashes) == 4 && dashes[0] == 8 && dashes[1] == 13 && dashes[2] == 18 && dashes[3] == 23:
		if len(value) != 36 {
			return "", fmt.Errorf("raw GUID partition type expression '%s' is invalid", value)
		}
		return value, nil
	default:
		return "", fmt.Errorf("cannot parse partition type '%s'", value)
	}
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseSize resolves 'auto', trailing-% fractions, unit-suffixed literals and
// bare byte counts. The numeric base must be a positive integer.
func parseSize(value string) (Size, error) {
	if value == "auto" {
		return Size{Kind: SizeAuto}, nil
	}

	var suffix string
	var multiplier uint64 = 1
	percent := strings.HasSuffix(value, "%")
	if percent {
		suffix = "%"
	} else {
		for _, unit := range sizeUnits {
			if strings.HasSuffix(value, unit.suffix) {
				suffix, multiplier = unit.suffix, unit.multiplier
				break
			}
		}
	}

	base := strings.TrimSuffix(value, suffix)
	if !isDigits(base) {
		return Size{}, fmt.Errorf("failed to parse size expression '%s': non-numeric base", value)
	}

	size, err := strconv.ParseUint(base, 10, 64)
	if err != nil {
		return Size{}, fmt.Errorf("failed to parse size expression '%s': %w", value, err)
	}
	if size == 0 {
		return Size{}, fmt.Errorf("failed to process size literal '%s': negative or zero size", value)
	}
	if percent {
		if size > 100 {
			return Size{}, fmt.Errorf("failed to parse size percentage '%s': bigger than 100", value)
		}
		return Size{Kind: SizeFraction, Fraction: float64(size) / 100}, nil
	}

	return Size{Kind: SizeBytes, Bytes: size * multiplier}, nil
}
