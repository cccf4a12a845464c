package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/mooncats/internal/sim"
)

// HUD formats the text overlays drawn on top of the canvas.
type HUD struct {
	label   lipgloss.Style
	value   lipgloss.Style
	healthy lipgloss.Style
	hurt    lipgloss.Style
	empty   lipgloss.Style
	box     lipgloss.Style
	title   lipgloss.Style
}

// NewHUD builds the HUD styles for renderer r. Each SSH session passes its
// own renderer so color support is detected per client.
func NewHUD(r *lipgloss.Renderer) *HUD {
	return &HUD{
		label:   r.NewStyle().Foreground(lipgloss.Color("245")),
		value:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		healthy: r.NewStyle().Foreground(lipgloss.Color("42")),
		hurt:    r.NewStyle().Foreground(lipgloss.Color("196")),
		empty:   r.NewStyle().Foreground(lipgloss.Color("238")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2).
			Align(lipgloss.Center),
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
	}
}

// HealthBar renders the moon's health as a bar of width cells.
func (h *HUD) HealthBar(health float64, width int) string {
	health = math.Max(0, math.Min(health, 1))
	filled := int(math.Round(health * float64(width)))

	fill := h.healthy
	if health <= 0.3 {
		fill = h.hurt
	}
	return h.label.Render("Moon ") +
		fill.Render(strings.Repeat("█", filled)) +
		h.empty.Render(strings.Repeat("░", width-filled)) +
		h.value.Render(fmt.Sprintf(" %3.0f%%", health*100))
}

// Status renders score, aim and pacing on one line.
func (h *HUD) Status(snap *sim.Snapshot, aim sim.Aim) string {
	field := func(name, format string, v any) string {
		return h.label.Render(name+" ") + h.value.Render(fmt.Sprintf(format, v))
	}
	return strings.Join([]string{
		field("Score", "%-6d", snap.Score),
		field("Aim", "%3.0f°", aim.Angle*180/math.Pi),
		field("Power", "%-4.0f", aim.Power),
		field("Cats", "%-3d", len(snap.Cats)),
		field("Mice", "%-3d", len(snap.Mice)),
		field("Spawn", "%.2fs", snap.SpawnInterval),
		field("Players", "%d", snap.Players),
	}, "  ")
}

// Box renders a centred, bordered message with a highlighted first line.
func (h *HUD) Box(title string, lines ...string) string {
	body := append([]string{h.title.Render(title), ""}, lines...)
	return h.box.Render(strings.Join(body, "\n"))
}

// Size returns the width and height of a rendered block.
func Size(block string) (width, height int) {
	return lipgloss.Width(block), lipgloss.Height(block)
}
