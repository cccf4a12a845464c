package sim

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang/geo/r2"
	"github.com/tomz197/mooncats/internal/aim"
	"github.com/tomz197/mooncats/internal/config"
)

// autoAimEvaluations bounds the preview runs spent on one auto-aim request.
const autoAimEvaluations = 60

// GameServer is the interface clients use to talk to the game server.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SendInput(clientID int, cmd Command)
	GetSnapshot() *Snapshot
}

// Server owns one shared game and advances it on its own goroutine. Every
// connected client aims and launches cats into the same world.
type Server struct {
	cfg    *config.Config
	seed   int64
	logger *log.Logger

	state    *State
	snapshot atomic.Pointer[Snapshot]
	solver   aim.Solver
	games    int // Restarts so far; offsets the spawn seed

	clients      map[int]*ClientHandle
	nextClientID int
	inputChan    chan ClientInput
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// Command is one frame of client input. Turn and Charge are deltas applied
// to the client's aim; the flags are one-shot requests.
type Command struct {
	Turn        float64 // Radians
	Charge      float64 // Power units
	Launch      bool
	FastForward bool
	AutoAim     bool
	Restart     bool
}

// merge folds a later command into c. Deltas add up and flags stick.
func (c Command) merge(next Command) Command {
	return Command{
		Turn:        c.Turn + next.Turn,
		Charge:      c.Charge + next.Charge,
		Launch:      c.Launch || next.Launch,
		FastForward: c.FastForward || next.FastForward,
		AutoAim:     c.AutoAim || next.AutoAim,
		Restart:     c.Restart || next.Restart,
	}
}

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan Event // Score, moon damage, game over, restart, shutdown

	aim     Aim
	pending Command
}

// ClientInput is a command tagged with its sender.
type ClientInput struct {
	ClientID int
	Command  Command
}

// NewServer creates a server for a fresh game. seed drives mouse spawns.
func NewServer(cfg *config.Config, seed int64, logger *log.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		seed:   seed,
		logger: logger,
		state:  NewState(cfg, seed),
		solver: aim.Solver{
			MinPower:    cfg.Cat.MinPower,
			MaxPower:    cfg.Cat.MaxPower,
			Evaluations: autoAimEvaluations,
		},
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		inputChan:    make(chan ClientInput, 256),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
	}
	s.createSnapshot()
	return s
}

// Run starts the tick loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	tickTime := s.cfg.Server.TickTime()
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		// Clamp long stalls so one frame never covers more than a few ticks.
		dt := math.Min(frameStart.Sub(lastTime).Seconds(), 4*tickTime.Seconds())
		lastTime = frameStart

		s.processRegistrations()
		s.collectInputs()
		s.Tick(dt)

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < tickTime {
			time.Sleep(tickTime - elapsed)
		}
	}
}

// Tick applies pending client commands, advances the world by dt (or several
// ticks of dt in fast-forward) and publishes a new snapshot.
func (s *Server) Tick(dt float64) {
	s.mu.Lock()
	substeps := s.applyCommands()
	if !s.state.Defeated() {
		s.state.Frame(dt, substeps)
	}
	s.fanOut(s.state.DrainEvents())
	s.mu.Unlock()

	s.createSnapshot()
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to timeout. The caller should cancel the server context afterwards.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- Event{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.processRegistrations()
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client and returns its handle. The client
// starts aiming straight up at mid power.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan Event, 16),
		aim: Aim{
			Angle: math.Pi / 2,
			Power: (s.cfg.Cat.MinPower + s.cfg.Cat.MaxPower) / 2,
		},
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// SendInput queues a command from a client.
func (s *Server) SendInput(clientID int, cmd Command) {
	select {
	case s.inputChan <- ClientInput{ClientID: clientID, Command: cmd}:
	default:
		// Input channel full, drop input
	}
}

// GetSnapshot returns the latest published snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Info("client joined", "id", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.logger.Info("client left", "id", clientID, "user", handle.Username)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// collectInputs gathers all pending commands, merging several per client.
func (s *Server) collectInputs() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case ci := <-s.inputChan:
			if handle, ok := s.clients[ci.ClientID]; ok {
				handle.pending = handle.pending.merge(ci.Command)
			}
		default:
			return
		}
	}
}

// applyCommands turns pending client commands into aim changes and queued
// launches. It returns the number of ticks to run this frame. Must be called
// with the lock held.
func (s *Server) applyCommands() (substeps int) {
	substeps = 1
	restart := false

	for _, handle := range s.clients {
		cmd := handle.pending
		handle.pending = Command{}

		handle.aim.Angle = math.Mod(handle.aim.Angle+cmd.Turn, 2*math.Pi)
		if handle.aim.Angle < 0 {
			handle.aim.Angle += 2 * math.Pi
		}
		handle.aim.Power = math.Max(s.cfg.Cat.MinPower,
			math.Min(handle.aim.Power+cmd.Charge, s.cfg.Cat.MaxPower))

		if cmd.Restart && s.state.Defeated() {
			restart = true
		}
		if s.state.Defeated() {
			continue
		}
		if cmd.AutoAim {
			s.autoAim(handle)
		}
		if cmd.Launch {
			s.state.QueueLaunch(handle.aim.Angle, handle.aim.Power)
		}
		if cmd.FastForward {
			substeps = s.cfg.Server.FastForwardSteps
		}
	}

	if restart {
		s.restart()
	}
	return substeps
}

// autoAim points handle at the mouse closest to the moon.
func (s *Server) autoAim(handle *ClientHandle) {
	target, ok := s.state.MostThreatening()
	if !ok {
		return
	}
	sol := s.solver.SolveFrom(s.state, target, handle.aim.Angle, handle.aim.Power)
	handle.aim = Aim{Angle: sol.Angle, Power: sol.Power}
}

// restart replaces the finished game with a new one. Must be called with the
// lock held.
func (s *Server) restart() {
	final := s.state.Score
	s.games++
	s.state = NewState(s.cfg, s.seed+int64(s.games))
	s.logger.Info("game restarted", "previous_score", final, "game", s.games+1)

	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- Event{Type: EventRestarted}:
		default:
		}
	}
}

// fanOut forwards the events clients care about. Must be called with the lock
// held.
func (s *Server) fanOut(events []Event) {
	for _, e := range events {
		switch e.Type {
		case EventScore, EventMoonHit, EventMoonDestroyed:
		default:
			continue
		}
		if e.Type == EventMoonDestroyed {
			s.logger.Info("moon destroyed", "score", s.state.Score, "tick", e.Tick)
		}
		for _, handle := range s.clients {
			select {
			case handle.EventsCh <- e:
			default:
			}
		}
	}
}

// createSnapshot publishes the current state, with each client's aim and
// predicted path.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state.Snapshot()
	snap.Players = len(s.clients)
	snap.Aims = make(map[int]Aim, len(s.clients))
	snap.Previews = make(map[int][]r2.Point, len(s.clients))
	for id, handle := range s.clients {
		snap.Aims[id] = handle.aim
		if !snap.Defeated {
			snap.Previews[id] = s.state.PreviewAt(handle.aim.Angle, handle.aim.Power)
		}
	}

	s.snapshot.Store(snap)
}
