package sim

import (
	"context"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/mooncats/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(config.Default(), 1, log.New(io.Discard))
	s.state.Spawner = nil
	return s
}

// join registers a client and lets the server pick it up.
func join(s *Server, name string) *ClientHandle {
	h := s.RegisterClient(name)
	s.processRegistrations()
	return h
}

// send delivers a command and runs one tick.
func send(s *Server, h *ClientHandle, cmd Command) *Snapshot {
	s.SendInput(h.ID, cmd)
	s.collectInputs()
	s.Tick(s.cfg.Physics.UnitTime)
	return s.GetSnapshot()
}

func drain(ch <-chan Event) []Event {
	var events []Event
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestServerInitialSnapshot(t *testing.T) {
	s := newTestServer(t)
	snap := s.GetSnapshot()
	if snap == nil {
		t.Fatal("no snapshot before the first tick")
	}
	if snap.MoonHealth != 1 || snap.Defeated || snap.Players != 0 {
		t.Errorf("initial snapshot = %+v", snap)
	}
}

func TestServerAimAndLaunch(t *testing.T) {
	s := newTestServer(t)
	h := join(s, "alice")

	snap := send(s, h, Command{Turn: -math.Pi / 2, Charge: 1e6})
	a := snap.Aims[h.ID]
	if math.Abs(a.Angle) > 1e-9 {
		t.Errorf("angle = %v, want 0 after turning a quarter clockwise from up", a.Angle)
	}
	if a.Power != s.cfg.Cat.MaxPower {
		t.Errorf("power = %v, want clamped to %v", a.Power, s.cfg.Cat.MaxPower)
	}
	if len(snap.Previews[h.ID]) < 2 {
		t.Error("snapshot carries no preview for the client")
	}
	if snap.Players != 1 {
		t.Errorf("players = %d, want 1", snap.Players)
	}

	snap = send(s, h, Command{Launch: true})
	if len(snap.Cats) != 1 {
		t.Fatalf("cats = %d, want 1 after launch", len(snap.Cats))
	}
	if snap.Cats[0].Pos != snap.Previews[h.ID][0] {
		t.Errorf("cat at %v, preview starts at %v", snap.Cats[0].Pos, snap.Previews[h.ID][0])
	}
}

func TestServerMergesQueuedCommands(t *testing.T) {
	s := newTestServer(t)
	h := join(s, "bob")
	before := s.GetSnapshot().Tick

	s.SendInput(h.ID, Command{Turn: 0.1, Launch: true})
	s.SendInput(h.ID, Command{Turn: 0.2, FastForward: true})
	snap := send(s, h, Command{})

	if got := snap.Aims[h.ID].Angle; math.Abs(got-(math.Pi/2+0.3)) > 1e-9 {
		t.Errorf("angle = %v, want turns summed", got)
	}
	if len(snap.Cats) != 1 {
		t.Errorf("cats = %d, want the sticky launch", len(snap.Cats))
	}
	if got := snap.Tick - before; got != uint64(s.cfg.Server.FastForwardSteps) {
		t.Errorf("advanced %d ticks, want %d in fast-forward", got, s.cfg.Server.FastForwardSteps)
	}
}

func TestServerFansOutMoonEventsAndRestarts(t *testing.T) {
	s := newTestServer(t)
	h := join(s, "carol")

	for i := 0; i < 10; i++ {
		s.state.AddMouse(s.state.Moon.Position())
	}
	snap := send(s, h, Command{})
	if !snap.Defeated {
		t.Fatal("moon should be destroyed")
	}

	events := drain(h.EventsCh)
	if countEvents(events, EventMoonHit) != 10 || countEvents(events, EventMoonDestroyed) != 1 {
		t.Errorf("client events = %v", events)
	}

	// A defeated game stands still and ignores launches.
	tick := snap.Tick
	snap = send(s, h, Command{Launch: true})
	if snap.Tick != tick || len(snap.Cats) != 0 {
		t.Error("defeated game kept running")
	}
	if len(snap.Previews) != 0 {
		t.Error("defeated game still publishes previews")
	}

	snap = send(s, h, Command{Restart: true})
	if snap.Defeated || snap.MoonHealth != 1 {
		t.Errorf("restart left health %v defeated %v", snap.MoonHealth, snap.Defeated)
	}
	if countEvents(drain(h.EventsCh), EventRestarted) != 1 {
		t.Error("client not told about the restart")
	}
}

func TestServerIgnoresRestartWhilePlaying(t *testing.T) {
	s := newTestServer(t)
	h := join(s, "dave")
	send(s, h, Command{Launch: true})
	state := s.state

	send(s, h, Command{Restart: true})
	if s.state != state {
		t.Error("restart replaced a running game")
	}
}

func TestServerAutoAim(t *testing.T) {
	s := newTestServer(t)
	h := join(s, "erin")
	s.state.AddMouse(s.state.Moon.Position().Add(s.state.Moon.Position().Mul(0.5)))

	before := s.GetSnapshot().Aims[h.ID]
	snap := send(s, h, Command{AutoAim: true})
	after := snap.Aims[h.ID]
	if after == before {
		t.Error("auto-aim left the aim unchanged")
	}
	if after.Power < s.cfg.Cat.MinPower || after.Power > s.cfg.Cat.MaxPower {
		t.Errorf("auto-aim power %v out of range", after.Power)
	}
}

func TestServerUnregisterClosesEvents(t *testing.T) {
	s := newTestServer(t)
	h := join(s, "frank")
	s.UnregisterClient(h.ID)
	s.processRegistrations()

	if _, ok := <-h.EventsCh; ok {
		t.Error("events channel still open after unregister")
	}
	s.Tick(s.cfg.Physics.UnitTime)
	if s.GetSnapshot().Players != 0 {
		t.Error("client still counted")
	}
}

func TestServerRunAndShutdown(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	h := s.RegisterClient("grace")
	deadline := time.After(2 * time.Second)
	for s.GetSnapshot().Players != 1 {
		select {
		case <-deadline:
			t.Fatal("client never registered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	go func() {
		for e := range h.EventsCh {
			if e.Type == EventServerShutdown {
				s.UnregisterClient(h.ID)
			}
		}
	}()

	s.Shutdown(2 * time.Second)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
