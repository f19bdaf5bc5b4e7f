package sample

import (
	"fmt"
	"strings"
)

// Generation is one of the historical field-naming conventions of a
// sample record.
type Generation int

const (
	// Unknown is assigned to records without signals or with signals of
	// more than one generation.
	Unknown Generation = iota

	// Legacy records use Title Case with spaces and unit suffixes, for
	// example "Chum Fry", "Water (°C)".
	Legacy

	// Intermediate records use camelCase keys, for example "chumCaught",
	// "trapOperating".
	Intermediate

	// Merged records use reconciled Title Case keys and carry
	// "User ID", "Submitted By", "Created At".
	Merged
)

var generationNames = map[Generation]string{
	Unknown:      "unknown",
	Legacy:       "legacy",
	Intermediate: "intermediate",
	Merged:       "merged",
}

// Generations lists the known generations in their historical order.
var Generations = []Generation{Legacy, Intermediate, Merged}

func (g Generation) String() string {
	if s, ok := generationNames[g]; ok {
		return s
	}
	return fmt.Sprintf("Generation(%d)", int(g))
}

// ParseGeneration converts a generation name back to Generation.
func ParseGeneration(s string) (Generation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, v := range generationNames {
		if k != Unknown && v == s {
			return k, nil
		}
	}
	return Unknown, fmt.Errorf("unknown generation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (g Generation) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Generation) UnmarshalText(text []byte) error {
	res, err := ParseGeneration(string(text))
	if err != nil {
		return err
	}
	*g = res
	return nil
}
