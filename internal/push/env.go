package push

import (
	"errors"
	"fmt"

	"github.com/banshee-data/pushenv/internal/fusion"
	"github.com/banshee-data/pushenv/internal/monitoring"
)

// State is the episode lifecycle state.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateActive        State = "active"
	StateTerminated    State = "terminated"
)

// Info carries per-tick diagnostics alongside the observation.
type Info struct {
	Step         int
	EpisodeIndex int
	VariantIndex int
	GoalIndex    int
	Fused        fusion.TrackedPose
}

// TickEvent is published to observers after each completed step.
// Rendering and frame recording subscribe here; they are side channels
// and never feed back into control.
type TickEvent struct {
	EpisodeIndex  int
	Step          int
	Observation   Observation
	ProcessedReal *Image
	Terminated    bool
}

// TickObserver receives tick events. Observer failures are logged and
// never abort the episode.
type TickObserver interface {
	OnTick(TickEvent)
	Close() error
}

// SessionSink receives per-episode trajectory waypoints and the
// end-of-session fusion log. *fusion.SessionStore satisfies it.
type SessionSink interface {
	SaveTrajectory(variant int, pos, rpy [][3]float64) error
	WriteLog(entries []fusion.Entry) error
}

// EnvOptions wires the optional collaborators.
type EnvOptions struct {
	// Fuser enables per-tick marker fusion when non-nil.
	Fuser *fusion.Fuser
	// Sink persists trajectories and the fusion log when non-nil.
	Sink SessionSink
	// Observers receive tick events.
	Observers []TickObserver
}

// Env is the episodic controller: it owns the per-episode state
// (counter, trajectory, goal) and drives the collaborators strictly
// sequentially each tick. Single-threaded by design; no internal
// locking.
type Env struct {
	cfg     Config
	driver  RobotDriver
	builder *ObservationBuilder
	fuser   *fusion.Fuser
	sink    SessionSink

	observers []TickObserver

	state        State
	episodeIndex int
	stepCount    int
	traj         *Trajectory
	goal         *GoalTracker

	closed bool
}

// NewEnv validates the configuration and wires the environment. The
// episode index starts at -1 so the first Reset selects variant 0.
func NewEnv(cfg Config, driver RobotDriver, builder *ObservationBuilder, opts EnvOptions) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if driver == nil {
		return nil, fmt.Errorf("env needs a robot driver")
	}
	if builder == nil {
		return nil, fmt.Errorf("env needs an observation builder")
	}
	return &Env{
		cfg:          cfg,
		driver:       driver,
		builder:      builder,
		fuser:        opts.Fuser,
		sink:         opts.Sink,
		observers:    opts.Observers,
		state:        StateUninitialized,
		episodeIndex: -1,
	}, nil
}

// State returns the current lifecycle state.
func (e *Env) State() State { return e.state }

// EpisodeIndex returns the index of the current episode, -1 before the
// first Reset.
func (e *Env) EpisodeIndex() int { return e.episodeIndex }

// StepCount returns the step counter for the current episode.
func (e *Env) StepCount() int { return e.stepCount }

// ActionDim returns the policy action length the configured movement
// mode expects.
func (e *Env) ActionDim() int {
	dim, _ := e.cfg.MovementMode.ActionDim()
	return dim
}

// Reset starts a new episode: homes the arm, regenerates the
// trajectory for the episode's variant, re-seats the goal tracker and
// returns the initial observation.
func (e *Env) Reset() (Observation, error) {
	if e.closed {
		return Observation{}, fmt.Errorf("reset on closed env")
	}

	e.stepCount = 0
	e.episodeIndex++

	if err := e.driver.Reset(); err != nil {
		return Observation{}, fmt.Errorf("robot reset: %w", err)
	}

	traj, err := GenerateTrajectory(e.cfg.TrajShape, e.episodeIndex, e.cfg.Traj)
	if err != nil {
		return Observation{}, err
	}
	e.traj = traj

	variant := VariantIndex(e.episodeIndex)
	if e.sink != nil {
		if err := e.sink.SaveTrajectory(variant, traj.Positions(), traj.Orientations()); err != nil {
			return Observation{}, fmt.Errorf("persist trajectory: %w", err)
		}
	}

	// Setup advance: the initial goal is waypoint 1, ahead of the
	// object's starting position.
	e.goal = NewGoalTracker(traj)

	obs, _, err := e.currentObservation()
	if err != nil {
		return Observation{}, err
	}

	e.state = StateActive
	monitoring.Debugf("episode %d reset (variant %d, shape %s)", e.episodeIndex, variant, e.cfg.TrajShape)
	return obs, nil
}

// Step executes one control tick: encode and scale the action,
// dispatch it to the driver, evaluate termination, build the next
// observation, advance the goal on cadence and run fusion if enabled.
// Only valid while active.
func (e *Env) Step(action []float64) (Observation, float64, bool, Info, error) {
	if e.state != StateActive {
		return Observation{}, 0, false, Info{}, fmt.Errorf("step in state %q, need %q", e.state, StateActive)
	}

	tcpPose, err := e.driver.CurrentTCPPose()
	if err != nil {
		return Observation{}, 0, false, Info{}, fmt.Errorf("read TCP pose: %w", err)
	}

	encoded, err := EncodeAction(e.cfg.MovementMode, action, tcpPose, e.cfg)
	if err != nil {
		return Observation{}, 0, false, Info{}, err
	}
	scaled, err := ScaleAction(encoded, e.cfg.ControlMode, e.cfg)
	if err != nil {
		return Observation{}, 0, false, Info{}, err
	}

	switch e.cfg.ControlMode {
	case PositionControl:
		err = e.driver.ApplyPositionCommand(scaled)
	case VelocityControl:
		err = e.driver.ApplyVelocityCommand(scaled)
	default:
		err = fmt.Errorf("unknown control mode %q", string(e.cfg.ControlMode))
	}
	if err != nil {
		return Observation{}, 0, false, Info{}, fmt.Errorf("dispatch command: %w", err)
	}

	e.stepCount++

	terminated := e.stepCount >= e.cfg.MaxSteps
	if terminated {
		e.state = StateTerminated
	}
	reward := e.reward()

	obs, processedReal, err := e.currentObservation()
	if err != nil {
		return Observation{}, 0, false, Info{}, err
	}

	e.goal.AdvanceEvery(e.cfg.GoalUpdateRate, e.stepCount)

	info := Info{
		Step:         e.stepCount,
		EpisodeIndex: e.episodeIndex,
		VariantIndex: VariantIndex(e.episodeIndex),
		GoalIndex:    e.goal.Index(),
	}

	if e.fuser != nil {
		fused, err := e.fuser.FuseTick()
		if err != nil {
			// Sensing faults are fatal for the run; no retry here.
			return Observation{}, 0, false, Info{}, err
		}
		info.Fused = fused
	}

	e.notifyObservers(TickEvent{
		EpisodeIndex:  e.episodeIndex,
		Step:          e.stepCount,
		Observation:   obs,
		ProcessedReal: processedReal,
		Terminated:    terminated,
	})

	return obs, reward, terminated, info, nil
}

// reward is constant zero. Kept as a method so shaping has a seam.
func (e *Env) reward() float64 { return 0 }

// currentObservation captures a sensor frame and assembles the
// observation from the current TCP pose and goal.
func (e *Env) currentObservation() (Observation, *Image, error) {
	raw, err := e.driver.CaptureSensorImage()
	if err != nil {
		return Observation{}, nil, fmt.Errorf("capture sensor image: %w", err)
	}
	tcpPose, err := e.driver.CurrentTCPPose()
	if err != nil {
		return Observation{}, nil, fmt.Errorf("read TCP pose: %w", err)
	}
	goalPos, goalRPY := e.goal.Current()
	return e.builder.Build(raw, tcpPose, goalPos, goalRPY)
}

func (e *Env) notifyObservers(ev TickEvent) {
	for _, o := range e.observers {
		o.OnTick(ev)
	}
}

// Close flushes the fusion log, closes observers and releases the
// driver. Idempotent.
func (e *Env) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.state = StateTerminated

	var errs []error
	if e.fuser != nil && e.sink != nil {
		if err := e.sink.WriteLog(e.fuser.Log()); err != nil {
			errs = append(errs, fmt.Errorf("write fusion log: %w", err))
		}
	}
	for _, o := range e.observers {
		if err := o.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close observer: %w", err))
		}
	}
	if err := e.driver.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close driver: %w", err))
	}
	return errors.Join(errs...)
}
