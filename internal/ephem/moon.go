// Package ephem computes the apparent configuration of Jupiter's Galilean
// moons, their shadows and fixed surface features for a given instant.
package ephem

import (
	"errors"
	"fmt"
	"strings"
)

// Moon identifies one of the four Galilean satellites.
type Moon int

const (
	Io Moon = iota
	Europa
	Ganymede
	Callisto
)

// NumMoons is the number of Galilean moons.
const NumMoons = 4

// Moons lists the Galilean moons in order of distance from Jupiter.
var Moons = [NumMoons]Moon{Io, Europa, Ganymede, Callisto}

// ErrUnknownMoon is returned when a moon name is not recognized.
var ErrUnknownMoon = errors.New("unknown moon")

// String returns the moon name.
func (m Moon) String() string {
	switch m {
	case Io:
		return "Io"
	case Europa:
		return "Europa"
	case Ganymede:
		return "Ganymede"
	case Callisto:
		return "Callisto"
	default:
		return "unknown"
	}
}

// Symbol returns the single-letter marker used in compact layouts.
func (m Moon) Symbol() byte {
	if !m.Valid() {
		return '?'
	}
	return m.String()[0]
}

// Valid reports whether m is one of the four Galilean moons.
func (m Moon) Valid() bool {
	return m >= Io && m <= Callisto
}

// ParseMoon parses a moon name, case-insensitively.
func ParseMoon(s string) (Moon, error) {
	for _, m := range Moons {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMoon, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Moon) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMoon, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Moon) UnmarshalText(b []byte) error {
	parsed, err := ParseMoon(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// System selects one of Jupiter's rotational longitude systems.
type System int

const (
	SystemI  System = 1 // equatorial belts
	SystemII System = 2 // everything else, including the Great Red Spot
)

// ErrUnknownSystem is returned when a longitude system cannot be parsed.
var ErrUnknownSystem = errors.New("unknown longitude system")

// String returns the Roman numeral of the system.
func (s System) String() string {
	switch s {
	case SystemI:
		return "I"
	case SystemII:
		return "II"
	default:
		return "unknown"
	}
}

// ParseSystem parses "1", "I", "2" or "II".
func ParseSystem(s string) (System, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1", "I":
		return SystemI, nil
	case "2", "II":
		return SystemII, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSystem, s)
	}
}
