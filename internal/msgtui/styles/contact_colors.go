package styles

import (
	"hash/fnv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ContactColorPalette is a curated ANSI-256 palette for stable contact
// identity colors. Red/green slots are intentionally avoided so they
// stay free for delivery-status semantics.
var ContactColorPalette = []string{
	"33", "39", "45", "69", "75", "81", "87", "99",
	"111", "117", "123", "147", "153", "159", "183", "189",
}

// ContactColorMapper resolves deterministic per-contact styles and
// caches them. The same seed always maps to the same color, across
// sessions and clients, without anything being persisted.
type ContactColorMapper struct {
	palette []string

	mu         sync.RWMutex
	fgCache    map[string]lipgloss.Style
	colorCache map[string]string
}

// NewContactColorMapper returns a deterministic mapper with the default
// palette.
func NewContactColorMapper() *ContactColorMapper {
	return NewContactColorMapperWithPalette(nil)
}

// NewContactColorMapperWithPalette returns a mapper using the given
// palette, falling back to the default when empty.
func NewContactColorMapperWithPalette(palette []string) *ContactColorMapper {
	if len(palette) == 0 {
		palette = ContactColorPalette
	}
	paletteCopy := make([]string, len(palette))
	copy(paletteCopy, palette)

	return &ContactColorMapper{
		palette:    paletteCopy,
		fgCache:    make(map[string]lipgloss.Style, 64),
		colorCache: make(map[string]string, 64),
	}
}

// Foreground returns a cached foreground style for a contact seed.
func (m *ContactColorMapper) Foreground(seed string) lipgloss.Style {
	key := normalizeSeed(seed)

	m.mu.RLock()
	if style, ok := m.fgCache[key]; ok {
		m.mu.RUnlock()
		return style
	}
	m.mu.RUnlock()

	colorCode := m.ColorCode(key)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorCode)).Bold(true)

	m.mu.Lock()
	m.fgCache[key] = style
	m.mu.Unlock()

	return style
}

// ColorCode returns the ANSI-256 color code selected for the seed.
func (m *ContactColorMapper) ColorCode(seed string) string {
	key := normalizeSeed(seed)

	m.mu.RLock()
	if colorCode, ok := m.colorCache[key]; ok {
		m.mu.RUnlock()
		return colorCode
	}
	m.mu.RUnlock()

	idx := hashSeedToPalette(key, len(m.palette))
	colorCode := m.palette[idx]

	m.mu.Lock()
	m.colorCache[key] = colorCode
	m.mu.Unlock()

	return colorCode
}

func normalizeSeed(seed string) string {
	normalized := strings.ToLower(strings.TrimSpace(seed))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}

func hashSeedToPalette(seed string, paletteLen int) int {
	if paletteLen == 0 {
		return 0
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return int(h.Sum32() % uint32(paletteLen))
}
