// Package events scans the Jupiter system over a time range and reports
// discrete moon events: occultations, transits, eclipses and shadow transits.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-galilean/internal/ephem"
)

// Kind is the type of a moon event.
type Kind int

const (
	Disappears Kind = iota
	Reappears
	TransitBegins
	TransitEnds
	EclipseBegins
	EclipseEnds
	ShadowAppears
	ShadowDisappears
)

var kindNames = [...]string{
	Disappears:       "disappears",
	Reappears:        "reappears",
	TransitBegins:    "transit-begins",
	TransitEnds:      "transit-ends",
	EclipseBegins:    "eclipse-begins",
	EclipseEnds:      "eclipse-ends",
	ShadowAppears:    "shadow-appears",
	ShadowDisappears: "shadow-disappears",
}

// ErrUnknownKind is returned when an event kind cannot be parsed.
var ErrUnknownKind = errors.New("unknown event kind")

// String returns the machine-readable kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Phrase returns the human-readable description of k for the given moon.
func (k Kind) Phrase(m ephem.Moon) string {
	switch k {
	case Disappears:
		return m.String() + " disappears"
	case Reappears:
		return m.String() + " reappears"
	case TransitBegins:
		return m.String() + " begins transit"
	case TransitEnds:
		return m.String() + " ends transit"
	case EclipseBegins:
		return m.String() + " enters eclipse"
	case EclipseEnds:
		return m.String() + " leaves eclipse"
	case ShadowAppears:
		return m.String() + "'s shadow appears"
	case ShadowDisappears:
		return m.String() + "'s shadow disappears"
	default:
		return m.String() + " ?"
	}
}

// ParseKind parses a machine-readable kind name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if s == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Compound counts how many moons were transiting and how many shadows were
// on the disk at the instant of an event, when more than one in total.
type Compound struct {
	Transits int `json:"transits"`
	Shadows  int `json:"shadows"`
}

// String returns e.g. "2 transits, 1 shadow".
func (c Compound) String() string {
	return Pluralize(c.Transits, "transit") + ", " + Pluralize(c.Shadows, "shadow")
}

// Event is a single change in a moon's state.
type Event struct {
	Time     time.Time  `json:"time"`
	Moon     ephem.Moon `json:"moon"`
	Kind     Kind       `json:"kind"`
	Compound *Compound  `json:"compound,omitempty"`
}

// Description returns the human-readable event text, e.g. "Io begins transit".
func (e Event) Description() string {
	return e.Kind.Phrase(e.Moon)
}
