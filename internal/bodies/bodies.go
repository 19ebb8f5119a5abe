// Package bodies provides named orbital element records for the planets.
package bodies

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/planetelements"

	"github.com/litescript/ls-retrograde/internal/orbit"
)

// Source selects where the planet elements come from.
type Source string

const (
	// SourceJPL uses the JPL approximate Keplerian elements at J2000.
	SourceJPL Source = "jpl"
	// SourceMeeus uses Meeus' mean elements evaluated at J2000.
	SourceMeeus Source = "meeus"
)

// Errors for catalog lookups.
var (
	ErrUnknownBody     = errors.New("unknown body")
	ErrUnknownSource   = errors.New("unknown element source")
	ErrInvalidElements = errors.New("invalid orbital elements")
)

// ParseSource parses an element source name.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jpl":
		return SourceJPL, nil
	case "meeus":
		return SourceMeeus, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
	}
}

// Body is a named set of orbital elements.
type Body struct {
	Name     string
	Code     string
	Elements orbit.Elements
}

// PeriodDays returns the body's orbital period in days.
func (b Body) PeriodDays() float64 {
	return orbit.Period(b.Elements)
}

// planetDef lists a planet with its JPL elements (Standish, valid 1800-2050).
type planetDef struct {
	Name   string
	Code   string
	Meeus  int
	A, E   float64
	Peri   float64
	MeanLn float64
}

var planets = []planetDef{
	{"Mercury", "MERC", planetelements.Mercury, 0.38709927, 0.20563593, 77.45779628, 252.25032350},
	{"Venus", "VEN", planetelements.Venus, 0.72333566, 0.00677672, 131.60246718, 181.97909950},
	{"Earth", "EARTH", planetelements.Earth, 1.00000261, 0.01671123, 102.93768193, 100.46457166},
	{"Mars", "MARS", planetelements.Mars, 1.52371034, 0.09339410, -23.94362959, -4.55343205},
	{"Jupiter", "JUP", planetelements.Jupiter, 5.20288700, 0.04838624, 14.72847983, 34.39644051},
	{"Saturn", "SAT", planetelements.Saturn, 9.53667594, 0.05386179, 92.59887831, 49.95424423},
	{"Uranus", "URA", planetelements.Uranus, 19.18916464, 0.04725744, 170.95427630, 313.23810451},
	{"Neptune", "NEP", planetelements.Neptune, 30.06992276, 0.00859048, 44.96476227, -55.12002969},
}

// Catalog is an ordered, case-insensitive set of bodies.
type Catalog struct {
	source Source
	bodies []Body
	index  map[string]int
}

// New returns a catalog of the eight major planets from the given source.
func New(src Source) (*Catalog, error) {
	c := &Catalog{source: src, index: make(map[string]int)}

	for _, p := range planets {
		var el orbit.Elements
		switch src {
		case SourceJPL:
			el = orbit.Elements{
				SemiMajorAxisAU:           p.A,
				Eccentricity:              p.E,
				LongitudeOfPeriapsisDeg:   p.Peri,
				ReferenceMeanLongitudeDeg: p.MeanLn,
			}
		case SourceMeeus:
			el = meeusElements(p.Meeus)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSource, src)
		}

		if err := c.Add(Body{Name: p.Name, Code: p.Code, Elements: el}); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// meeusElements evaluates Meeus' mean elements at the J2000 epoch.
func meeusElements(p int) orbit.Elements {
	var e planetelements.Elements
	planetelements.Mean(p, base.J2000, &e)
	return orbit.Elements{
		SemiMajorAxisAU:           e.Axis,
		Eccentricity:              e.Ecc,
		LongitudeOfPeriapsisDeg:   e.Peri.Deg(),
		ReferenceMeanLongitudeDeg: e.Lon.Deg(),
	}
}

// Source returns where the built-in elements came from.
func (c *Catalog) Source() Source {
	return c.source
}

// Add inserts or replaces a body. Names match case-insensitively.
func (c *Catalog) Add(b Body) error {
	key := normalizeName(b.Name)
	if key == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidElements)
	}
	if !b.Elements.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidElements, b.Name)
	}
	if b.Code == "" {
		b.Code = strings.ToUpper(key)
	}

	if i, ok := c.index[key]; ok {
		c.bodies[i] = b
		return nil
	}
	c.index[key] = len(c.bodies)
	c.bodies = append(c.bodies, b)
	return nil
}

// Lookup returns the body with the given name or code.
func (c *Catalog) Lookup(name string) (Body, error) {
	if i := c.Index(name); i >= 0 {
		return c.bodies[i], nil
	}
	return Body{}, fmt.Errorf("%w: %q", ErrUnknownBody, name)
}

// Index returns the position of the named body, or -1.
func (c *Catalog) Index(name string) int {
	key := normalizeName(name)
	if i, ok := c.index[key]; ok {
		return i
	}
	for i, b := range c.bodies {
		if strings.EqualFold(b.Code, key) {
			return i
		}
	}
	return -1
}

// Len returns the number of bodies.
func (c *Catalog) Len() int {
	return len(c.bodies)
}

// At returns the i-th body in catalog order.
func (c *Catalog) At(i int) Body {
	return c.bodies[i]
}

// Bodies returns a copy of all bodies in catalog order.
func (c *Catalog) Bodies() []Body {
	out := make([]Body, len(c.bodies))
	copy(out, c.bodies)
	return out
}

// Names returns the body names sorted by orbital period.
func (c *Catalog) Names() []string {
	bodies := c.Bodies()
	sort.SliceStable(bodies, func(i, j int) bool {
		return bodies[i].Elements.SemiMajorAxisAU < bodies[j].Elements.SemiMajorAxisAU
	})
	names := make([]string, len(bodies))
	for i, b := range bodies {
		names[i] = b.Name
	}
	return names
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
