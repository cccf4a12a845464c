// Package client runs one terminal session against a game server: it reads
// keys, forwards commands and draws snapshots.
package client

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/mooncats/internal/config"
	"github.com/tomz197/mooncats/internal/input"
	"github.com/tomz197/mooncats/internal/sim"
	"github.com/tomz197/mooncats/internal/view"
)

// hudRows is the number of terminal rows reserved above and below the canvas.
const hudRows = 2

// Client handles rendering and input for a single connection.
type Client struct {
	server       sim.GameServer
	handle       *sim.ClientHandle
	cfg          *config.Config
	state        *State
	canvas       *view.Canvas
	hud          *view.HUD
	out          *view.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc view.TermSizeFunc
	cols, rows   int
}

// Options configures a client.
type Options struct {
	TermSizeFunc view.TermSizeFunc
	Username     string
	Renderer     *lipgloss.Renderer // Defaults to lipgloss.DefaultRenderer()
}

// New registers a client with gs.
func New(gs sim.GameServer, cfg *config.Config, r *bufio.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = view.DefaultTermSizeFunc
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}

	cols, rows, err := termSizeFunc()
	if err != nil {
		cols, rows = 80, 24
	}

	return &Client{
		server:       gs,
		handle:       gs.RegisterClient(opts.Username),
		cfg:          cfg,
		state:        NewState(),
		canvas:       view.NewCanvas(cols, rows-hudRows, gs.GetSnapshot().Area),
		hud:          view.NewHUD(renderer),
		out:          view.NewChunkWriter(w),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		cols:         cols,
		rows:         rows,
	}
}

// ID returns the server-assigned client ID.
func (c *Client) ID() int { return c.handle.ID }

// Run starts the client loop. Blocks until the user quits, the context is
// cancelled or the server goes away.
func (c *Client) Run(ctx context.Context) error {
	view.HideCursor(c.writer)
	defer view.ShowCursor(c.writer)
	view.ClearScreen(c.writer)
	defer c.server.UnregisterClient(c.handle.ID)

	frameTime := c.cfg.Controls.FrameTime()
	lastTime := time.Now()

	for c.state.Running {
		select {
		case <-ctx.Done():
			view.ClearScreen(c.writer)
			return ctx.Err()
		default:
		}

		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		snap := c.server.GetSnapshot()
		c.processInput(snap)
		c.processServerEvents()
		c.updateScreen()

		if c.state.GameState == GameStateShutdown {
			c.state.shutdownTimer -= c.state.delta
			if c.state.shutdownTimer <= 0 {
				c.state.Running = false
			}
		}

		if err := c.drawFrame(snap); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}

	view.ClearScreen(c.writer)
	return nil
}

// processInput reads keys and turns them into a server command.
func (c *Client) processInput(snap *sim.Snapshot) {
	in := input.ReadInput(c.inputStream)
	if in.Quit || in.Closed {
		c.state.Running = false
		return
	}

	switch c.state.GameState {
	case GameStateStart:
		if in.Start || in.Launch {
			input.Reset(c.inputStream)
			c.state.GameState = GameStatePlaying
		}
	case GameStatePlaying:
		if snap.Defeated {
			c.enterGameOver(snap.Score)
			return
		}
		if cmd := c.command(in); cmd != (sim.Command{}) {
			c.server.SendInput(c.handle.ID, cmd)
		}
	case GameStateOver:
		if in.Restart {
			c.server.SendInput(c.handle.ID, sim.Command{Restart: true})
		}
	}
}

// command maps held and pressed keys to a command for this frame.
func (c *Client) command(in input.Input) sim.Command {
	dt := c.state.delta.Seconds()
	cmd := sim.Command{
		Launch:      in.Launch,
		AutoAim:     in.AutoAim,
		FastForward: in.FastForward,
	}
	if in.TurnLeft {
		cmd.Turn += c.cfg.Controls.TurnRate * dt
	}
	if in.TurnRight {
		cmd.Turn -= c.cfg.Controls.TurnRate * dt
	}
	if in.PowerUp {
		cmd.Charge += c.cfg.Controls.ChargeRate * dt
	}
	if in.PowerDown {
		cmd.Charge -= c.cfg.Controls.ChargeRate * dt
	}
	return cmd
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case sim.EventScore:
				c.state.LastKill = event.Points
				c.state.LastKillAt = time.Now()
			case sim.EventMoonDestroyed:
				c.enterGameOver(c.server.GetSnapshot().Score)
			case sim.EventRestarted:
				if c.state.GameState == GameStateOver {
					input.Reset(c.inputStream)
					c.state.GameState = GameStatePlaying
				}
			case sim.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = shutdownDisplay
			}
		default:
			return
		}
	}
}

func (c *Client) enterGameOver(score int) {
	if c.state.GameState == GameStateShutdown {
		return
	}
	c.state.GameState = GameStateOver
	c.state.FinalScore = score
}

// updateScreen follows terminal resizes. The screen is cleared on a real
// change so stale cells outside the new layout disappear.
func (c *Client) updateScreen() {
	cols, rows, err := c.termSizeFunc()
	if err != nil || (cols == c.cols && rows == c.rows) {
		return
	}
	c.cols, c.rows = cols, rows
	c.canvas.Resize(cols, rows-hudRows)
	c.out.WriteString("\033[H\033[2J")
}
