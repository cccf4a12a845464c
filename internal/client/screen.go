package client

import (
	"fmt"
	"time"

	"github.com/tomz197/mooncats/internal/sim"
	"github.com/tomz197/mooncats/internal/view"
)

// killFlash is how long the points of the latest kill stay on screen.
const killFlash = 1500 * time.Millisecond

// eraseLine clears from the cursor to the end of the line.
const eraseLine = "\033[K"

const controlsHelp = "←/→ aim   ↑/↓ power   SPACE launch   T auto-aim   F fast-forward   Q quit"

// drawFrame draws the current frame.
func (c *Client) drawFrame(snap *sim.Snapshot) error {
	// Full clear on state transitions so overlays from the previous state
	// do not linger.
	if c.state.GameState != c.state.prevGameState {
		c.out.WriteString("\033[H\033[2J")
		c.state.prevGameState = c.state.GameState
	}

	view.DrawScene(c.canvas, snap, c.previewOwner())
	c.canvas.Render(c.out, 2)

	c.drawHUD(snap)

	switch c.state.GameState {
	case GameStateStart:
		c.drawCentered(c.hud.Box("MOONCATS",
			"Mice are racing for the moon.",
			"Catapult cats off the planet to stop them.",
			"",
			controlsHelp,
			"",
			"Press SPACE to start",
		))
	case GameStateOver:
		c.drawCentered(c.hud.Box("THE MOON IS LOST",
			fmt.Sprintf("Final score: %d", c.state.FinalScore),
			"",
			"Press R to play again, Q to quit",
		))
	case GameStateShutdown:
		c.drawCentered(c.hud.Box("SERVER SHUTTING DOWN",
			fmt.Sprintf("Disconnecting in %d seconds", int(c.state.shutdownTimer.Seconds())+1),
		))
	}

	return c.out.Flush()
}

// previewOwner selects whose predicted path is drawn; none outside play.
func (c *Client) previewOwner() int {
	if c.state.GameState != GameStatePlaying {
		return 0
	}
	return c.handle.ID
}

// drawHUD writes the status line above the canvas and the help line below.
func (c *Client) drawHUD(snap *sim.Snapshot) {
	aim := snap.Aims[c.handle.ID]
	top := c.hud.HealthBar(snap.MoonHealth, 20) + "   " + c.hud.Status(snap, aim)
	if time.Since(c.state.LastKillAt) < killFlash {
		top += fmt.Sprintf("   +%d", c.state.LastKill)
	}
	c.out.WriteAt(1, 1, top+eraseLine)
	c.out.WriteAt(1, c.rows, controlsHelp+eraseLine)
}

// drawCentered writes a multi-line block in the middle of the screen.
func (c *Client) drawCentered(block string) {
	w, h := view.Size(block)
	c.out.WriteAt((c.cols-w)/2+1, (c.rows-h)/2+1, block)
}
