// Package silo holds the closed catalog of aesthetic categories a portrait can be rendered in.
package silo

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultName is the category used whenever a request names nothing usable.
const DefaultName = "Ethereal"

// Profile describes how a category looks and reads.
type Profile struct {
	Name        string   `json:"name"`
	Style       string   `json:"style"`
	Personality string   `json:"personality"`
	Palette     []string `json:"palette"`
}

// Catalog is an immutable, ordered set of profiles. Safe for concurrent reads.
type Catalog struct {
	order    []string
	profiles map[string]Profile
	aliases  map[string]string
}

// NewCatalog builds a catalog from profiles. The first profile named DefaultName, or the first
// profile when none is, becomes the fallback.
func NewCatalog(profiles ...Profile) *Catalog {
	c := &Catalog{
		profiles: make(map[string]Profile, len(profiles)),
		aliases:  make(map[string]string, len(profiles)),
	}
	for _, p := range profiles {
		if _, dup := c.profiles[p.Name]; dup {
			continue
		}
		c.order = append(c.order, p.Name)
		c.profiles[p.Name] = p
		// singular forms such as "Cosmic" or "Earther"
		if singular := strings.TrimSuffix(p.Name, "s"); singular != p.Name {
			c.aliases[singular] = p.Name
		}
	}
	return c
}

// Lookup returns the profile whose name matches exactly. Unknown and empty names resolve to the
// default profile.
func (c *Catalog) Lookup(name string) Profile {
	if p, ok := c.profiles[name]; ok {
		return p
	}
	return c.defaultProfile()
}

// Resolve matches loosely: surrounding space, letter case, and singular forms are tolerated.
// It reports false (with the default profile) when nothing matches.
func (c *Catalog) Resolve(name string) (Profile, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return c.defaultProfile(), false
	}
	if p, ok := c.profiles[name]; ok {
		return p, true
	}
	// Casers carry state, so each call gets its own.
	canonical := cases.Title(language.English).String(name)
	if p, ok := c.profiles[canonical]; ok {
		return p, true
	}
	if full, ok := c.aliases[canonical]; ok {
		return c.profiles[full], true
	}
	return c.defaultProfile(), false
}

// Names returns the category names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Catalog) defaultProfile() Profile {
	if p, ok := c.profiles[DefaultName]; ok {
		return p
	}
	if len(c.order) == 0 {
		return Profile{Name: DefaultName}
	}
	return c.profiles[c.order[0]]
}

// Default returns the built-in seven-category catalog.
func Default() *Catalog {
	return NewCatalog(builtin...)
}

var builtin = []Profile{
	{
		Name:        "Ethereal",
		Style:       "soft glowing mist, pale light, clouds and lucid gradients, dreamy cinematic photography, real human skin texture",
		Personality: "Ethereals move through the world lightly. Intuitive and calm, they notice the quiet details others miss.",
		Palette:     []string{"#A0C4FF", "#E4E9F7", "#F8F4FF", "#CDB4DB"},
	},
	{
		Name:        "Earthers",
		Style:       "forest tones, clay and botanical textures, warm sunlight, grounded aesthetic, warm film texture",
		Personality: "Earthers are steady and rooted. They build slowly, care deeply, and make every space feel like home.",
		Palette:     []string{"#6B4226", "#A3B18A", "#588157", "#DDA15E"},
	},
	{
		Name:        "Elementals",
		Style:       "bold colors, bright kinetic paint, glass and firelight, crisp studio lighting, sharp realism",
		Personality: "Elementals run on energy. Bold and restless, they turn a spark of an idea into motion.",
		Palette:     []string{"#FF5400", "#FFBD00", "#00B4D8", "#D00000"},
	},
	{
		Name:        "Naturalists",
		Style:       "textured neutrals, terracotta, linen and stone, natural window light, cozy and organic",
		Personality: "Naturalists love what is honest and simple. Warm and observant, they find beauty in texture and craft.",
		Palette:     []string{"#C9A27E", "#E9DCC9", "#B5838D", "#8D6E63"},
	},
	{
		Name:        "Cosmics",
		Style:       "nebula light, deep blue and violet with magenta haze, cinematic sci-fi lighting",
		Personality: "Cosmics think in big pictures. Curious and visionary, they are happiest at the edge of the unknown.",
		Palette:     []string{"#0B132B", "#3A0CA3", "#7209B7", "#F72585"},
	},
	{
		Name:        "Metallics",
		Style:       "chrome reflections, gold and silver highlights, reflective metals, engineered high contrast lighting",
		Personality: "Metallics are precise and driven. Sharp and polished, they like things engineered to last.",
		Palette:     []string{"#C0C0C0", "#D4AF37", "#4A4E69", "#E5E5E5"},
	},
	{
		Name:        "Royals",
		Style:       "velvet textures and shadows, navy, maroon and rich purples, dramatic film lighting",
		Personality: "Royals carry quiet confidence. Loyal and generous, they lead with presence rather than noise.",
		Palette:     []string{"#3C096C", "#1B1F3B", "#800020", "#C9A227"},
	},
}
