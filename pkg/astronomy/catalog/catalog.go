// Package catalog holds the reference table of real celestial bodies and the
// nearest-match search used to put an arbitrary mass/radius pair in context.
package catalog

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	astromath "github.com/oxygene76/univers-client/pkg/astronomy/math"
	"github.com/oxygene76/univers-client/pkg/physics"
)

// Kind is the family a body belongs to.
type Kind string

const (
	KindPlanet      Kind = "planet"
	KindDwarfPlanet Kind = "dwarf_planet"
	KindMoon        Kind = "moon"
	KindAsteroid    Kind = "asteroid"
	KindExoplanet   Kind = "exoplanet"
	KindBrownDwarf  Kind = "brown_dwarf"
	KindStar        Kind = "star"
	KindWhiteDwarf  Kind = "white_dwarf"
	KindNeutronStar Kind = "neutron_star"
	KindBlackHole   Kind = "black_hole"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{
	KindPlanet, KindDwarfPlanet, KindMoon, KindAsteroid, KindExoplanet,
	KindBrownDwarf, KindStar, KindWhiteDwarf, KindNeutronStar, KindBlackHole,
}

var kindLabels = map[Kind][2]string{
	KindPlanet:      {"planète", "planet"},
	KindDwarfPlanet: {"planète naine", "dwarf planet"},
	KindMoon:        {"lune", "moon"},
	KindAsteroid:    {"astéroïde", "asteroid"},
	KindExoplanet:   {"exoplanète", "exoplanet"},
	KindBrownDwarf:  {"naine brune", "brown dwarf"},
	KindStar:        {"étoile", "star"},
	KindWhiteDwarf:  {"naine blanche", "white dwarf"},
	KindNeutronStar: {"étoile à neutrons", "neutron star"},
	KindBlackHole:   {"trou noir", "black hole"},
}

// Label returns the display name of the kind.
func (k Kind) Label(lang physics.Lang) string {
	l, ok := kindLabels[k]
	if !ok {
		return string(k)
	}
	if lang == physics.LangEN {
		return l[1]
	}
	return l[0]
}

// ParseKind accepts the canonical name with dashes or spaces in place of underscores.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s))))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", ErrUnknownKind.Wrapf("%q", s)
}

// Body is a named mass/radius pair. Mass in kg, radius in km.
type Body struct {
	Name   string  `json:"name"`
	Kind   Kind    `json:"kind"`
	Mass   float64 `json:"mass_kg"`
	Radius float64 `json:"radius_km"`
	Custom bool    `json:"custom,omitempty"`
}

// Point places the body in log mass/radius space.
func (b Body) Point() astromath.LogPoint {
	return astromath.NewLogPoint(b.Mass, b.Radius)
}

// Validate checks the body can take part in a search.
func (b Body) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrInvalidBody.Wrap("empty name")
	}
	if _, err := ParseKind(string(b.Kind)); err != nil {
		return err
	}
	if err := physics.CheckBody(b.Mass, b.Radius); err != nil {
		return ErrInvalidBody.Wrapf("%s: %v", b.Name, err)
	}
	return nil
}

// Match is a catalogue body together with its distance from the query point.
type Match struct {
	Body        Body    `json:"body"`
	Distance    float64 `json:"distance"`
	MassRatio   float64 `json:"mass_ratio"`
	RadiusRatio float64 `json:"radius_ratio"`
}

// Catalog is a searchable set of bodies, safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	bodies []Body
	index  map[string]int
}

// Default returns a catalogue holding the reference table only.
func Default() *Catalog {
	c, err := New()
	if err != nil {
		// the reference table is static and validated by tests
		panic(err)
	}
	return c
}

// New returns the reference table extended with custom bodies.
func New(custom ...Body) (*Catalog, error) {
	c := &Catalog{
		bodies: make([]Body, 0, len(referenceBodies)+len(custom)),
		index:  make(map[string]int, len(referenceBodies)+len(custom)),
	}
	for _, b := range referenceBodies {
		if err := c.add(b); err != nil {
			return nil, err
		}
	}
	for _, b := range custom {
		b.Custom = true
		if err := c.add(b); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Len returns the number of bodies.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bodies)
}

// All returns a copy of every body.
func (c *Catalog) All() []Body {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Body, len(c.bodies))
	copy(out, c.bodies)
	return out
}

// ByKind returns the bodies of one kind, in table order.
func (c *Catalog) ByKind(kind Kind) []Body {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Body
	for _, b := range c.bodies {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Find looks a body up by name, ignoring case and accents.
func (c *Catalog) Find(name string) (Body, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[foldName(name)]
	if !ok {
		return Body{}, ErrUnknownBody.Wrapf("%q", name)
	}
	return c.bodies[i], nil
}

// Add registers a custom body.
func (c *Catalog) Add(b Body) error {
	b.Custom = true

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.add(b)
}

// Remove deletes a custom body. Reference bodies cannot be removed.
func (c *Catalog) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := foldName(name)
	i, ok := c.index[key]
	if !ok {
		return ErrUnknownBody.Wrapf("%q", name)
	}
	if !c.bodies[i].Custom {
		return ErrReadOnlyBody.Wrapf("%q", name)
	}

	c.bodies = append(c.bodies[:i], c.bodies[i+1:]...)
	c.reindex()
	return nil
}

func (c *Catalog) add(b Body) error {
	if err := b.Validate(); err != nil {
		return err
	}
	key := foldName(b.Name)
	if _, exists := c.index[key]; exists {
		return ErrDuplicateBody.Wrapf("%q", b.Name)
	}
	c.index[key] = len(c.bodies)
	c.bodies = append(c.bodies, b)
	return nil
}

func (c *Catalog) reindex() {
	c.index = make(map[string]int, len(c.bodies))
	for i, b := range c.bodies {
		c.index[foldName(b.Name)] = i
	}
}

// Nearest returns the body closest to (mass, radius) in log space,
// optionally restricted to some kinds.
func (c *Catalog) Nearest(mass, radius float64, kinds ...Kind) (Match, error) {
	matches, err := c.NearestN(mass, radius, 1, kinds...)
	if err != nil {
		return Match{}, err
	}
	return matches[0], nil
}

// NearestN returns up to n bodies sorted by ascending distance. Ties keep
// table order.
func (c *Catalog) NearestN(mass, radius float64, n int, kinds ...Kind) ([]Match, error) {
	if err := physics.CheckBody(mass, radius); err != nil {
		return nil, err
	}
	if n < 1 {
		n = 1
	}

	query := astromath.NewLogPoint(mass, radius)
	filter := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		filter[k] = true
	}

	c.mu.RLock()
	matches := make([]Match, 0, len(c.bodies))
	for _, b := range c.bodies {
		if len(filter) > 0 && !filter[b.Kind] {
			continue
		}
		p := b.Point()
		massRatio, radiusRatio := query.Ratios(p)
		matches = append(matches, Match{
			Body:        b,
			Distance:    query.Distance(p),
			MassRatio:   massRatio,
			RadiusRatio: radiusRatio,
		})
	}
	c.mu.RUnlock()

	if len(matches) == 0 {
		return nil, ErrEmptyCatalog.Wrapf("no bodies of kinds %v", kinds)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}

// foldName lower-cases a name and strips diacritics so "Étoile" and "etoile" collide.
func foldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
