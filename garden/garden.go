// Package garden steps a row of plants on a fixed interval and reports their status to viewers
package garden

import (
	"image/color"
	"image/draw"
	"math/rand"
	"sync"
	"time"

	"github.com/garden-nomes/sprout"
	"github.com/garden-nomes/sprout/interchange"
	"github.com/garden-nomes/sprout/plant"
	"github.com/pkg/errors"
)

//Options represents the Garden's configurable options
type Options struct {
	Width    int
	Height   int
	Plants   int
	Interval time.Duration
	TimeStep float64 //real seconds simulated by one step
	MaxSteps int
	Seed     int64
	Plant    plant.Options
}

//Status represents the status of the Garden at concrete moment
type Status struct {
	StepNum     int
	RunningMode RunningState
	Plants      int
	Apexes      int
	Pixels      int
	StepTime    time.Duration
	Err         error
}

//PlantStatus is a snapshot of one plant
type PlantStatus struct {
	X          float64
	Hydration  float64
	Sickly     float64
	Growth     float64
	State      plant.State
	Age        float64
	Generation uint
	Symbols    int
}

//Viewer is the interface to any Viewer - the object who can display the garden or control it
type Viewer interface {
	Refresh()
	Register(g *Garden)
	Start()
}

//The garden running status at the concrete moment
type RunningState int

//default options
const (
	DefInterval = time.Millisecond * 100
	DefTimeStep = 0.1
	DefMaxSteps = 3000
	DefWidth    = 96
	DefHeight   = 48
	DefPlants   = 5
)

const (
	RunningStateManual   = RunningState(0x0)
	RunningStateRun      = RunningState(0x1)
	RunningStateFinished = RunningState(0x2)
)

func (rs RunningState) String() string {
	switch rs {
	case RunningStateManual:
		return "waiting"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

var DefaultOptions = Options{
	Width:    DefWidth,
	Height:   DefHeight,
	Plants:   DefPlants,
	Interval: DefInterval,
	TimeStep: DefTimeStep,
	MaxSteps: DefMaxSteps,
	Plant:    plant.DefaultOptions,
}

//Garden is a row of plants standing on the bottom line of a Width x Height field.
//Every change goes through the control loop, readers take the lock.
type Garden struct {
	options Options
	species []interchange.Format
	rng     *rand.Rand

	mu     sync.Mutex
	plants []*plant.Plant
	status Status

	runID     int //owned by the control loop
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	done      chan struct{}
	closeOnce sync.Once
}

//New creates the garden, plants it and starts the control loop.
//Plants cycle through the species in order.
func New(o *Options, species []interchange.Format, stateCh chan Status) (*Garden, error) {
	if o == nil {
		o = &DefaultOptions
	}
	if len(species) == 0 {
		return nil, errors.New("a garden needs at least one species")
	}

	g := &Garden{
		options:   *o,
		species:   species,
		rng:       rand.New(rand.NewSource(o.Seed)),
		stateCh:   stateCh,
		controlCh: make(chan func(), 1),
		done:      make(chan struct{}),
	}
	if err := g.replant(); err != nil {
		return nil, err
	}
	go g.mainLoop()
	return g, nil
}

//RegisterViewer registers the viewer - the garden will call the viewer when the state is changed
func (g *Garden) RegisterViewer(v Viewer) {
	g.views = append(g.views, v)
	v.Register(g)
}

//Options returns the garden configuration
func (g *Garden) Options() Options {
	return g.options
}

//Status returns current garden status
func (g *Garden) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

//Plants returns a snapshot of every plant, left to right
func (g *Garden) Plants() []PlantStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]PlantStatus, len(g.plants))
	for i, p := range g.plants {
		out[i] = PlantStatus{
			X:          p.X,
			Hydration:  p.Hydration,
			Sickly:     p.Sickly,
			Growth:     p.Growth,
			State:      p.State(),
			Age:        p.Grammar().Age(),
			Generation: p.Grammar().Generation(),
			Symbols:    p.Grammar().Len(),
		}
	}
	return out
}

//Render draws every plant on dst; the plant at index selected is painted with highlight
func (g *Garden) Render(dst draw.Image, selected int, highlight color.Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, p := range g.plants {
		if i == selected {
			p.Draw(dst, highlight)
		} else {
			p.Draw(dst, nil)
		}
	}
}

//Run starts the simulation, returns immediately
func (g *Garden) Run() {
	g.send(g.run)
}

//Stop stops the simulation, returns immediately
func (g *Garden) Stop() {
	g.send(g.stop)
}

//Step does one simulation step, returns immediately
func (g *Garden) Step() {
	g.send(g.step)
}

//Water waters the plant at index i, or all of them when i is negative
func (g *Garden) Water(i int) {
	g.send(func() {
		g.mu.Lock()
		for j, p := range g.plants {
			if i < 0 || i == j {
				p.Water()
			}
		}
		g.mu.Unlock()
		g.refreshView()
	})
}

//Replant replaces every plant with a seedling and resets the counters
func (g *Garden) Replant() {
	g.send(func() {
		if g.Status().RunningMode == RunningStateRun {
			return
		}
		if err := g.replant(); err != nil {
			g.fail(err)
			return
		}
		g.publish()
	})
}

//Close stops the control loop, returns immediately
func (g *Garden) Close() {
	g.closeOnce.Do(func() {
		close(g.done)
	})
}

func (g *Garden) send(cmd func()) {
	select {
	case g.controlCh <- cmd:
	case <-g.done:
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (g *Garden) mainLoop() {
	for {
		select {
		case cmd := <-g.controlCh:
			cmd()
		case <-g.done:
			return
		}
	}
}

func (g *Garden) replant() error {
	n := g.options.Plants
	plants := make([]*plant.Plant, n)
	ground := float64(g.options.Height - 1)
	for i := range plants {
		format := g.species[i%len(g.species)]
		params, err := format.Sample(g.rng)
		if err != nil {
			return err
		}
		palette, err := format.Palette()
		if err != nil {
			return err
		}
		x := (float64(i) + 0.5) * float64(g.options.Width) / float64(n)
		p, err := plant.New(x, ground, params, palette, &g.options.Plant)
		if err != nil {
			return errors.Wrapf(err, "plant %d", i)
		}
		plants[i] = p
	}

	g.mu.Lock()
	g.plants = plants
	g.status = Status{Plants: n}
	g.count()
	g.mu.Unlock()
	return nil
}

//count refreshes the structural counters, the lock must be held
func (g *Garden) count() {
	g.status.Apexes, g.status.Pixels = 0, 0
	for _, p := range g.plants {
		g.status.Apexes += p.Grammar().Count(sprout.Apex)
		g.status.Pixels += p.Cache().Len()
	}
}

//publish writes the status to the stateCh, if any, and refreshes the viewers
//the stateCh must be drained by the caller or the control loop blocks
func (g *Garden) publish() {
	st := g.Status()
	if g.stateCh != nil {
		g.stateCh <- st
	}
	g.refreshView()
}

func (g *Garden) refreshView() {
	for _, v := range g.views {
		v.Refresh()
	}
}

func (g *Garden) switchRunningState(to RunningState) {
	g.mu.Lock()
	g.status.RunningMode = to
	g.mu.Unlock()
	g.publish()
}

func (g *Garden) fail(err error) {
	g.mu.Lock()
	g.status.Err = err
	g.mu.Unlock()
	g.switchRunningState(RunningStateFinished)
}

//run ticks the garden every Interval until stopped or finished
func (g *Garden) run() {
	if mode := g.Status().RunningMode; mode != RunningStateManual {
		return
	}
	g.runID++
	id := g.runID
	g.switchRunningState(RunningStateRun)

	go func() {
		ticker := time.NewTicker(g.options.Interval)
		defer ticker.Stop()
		running := make(chan bool, 1)
		for {
			select {
			case <-ticker.C:
			case <-g.done:
				return
			}
			g.send(func() {
				running <- g.tick(id)
			})
			select {
			case r := <-running:
				if !r {
					return
				}
			case <-g.done:
				return
			}
		}
	}()
}

//tick steps the garden for the run id, it reports whether that run goes on.
//A ticker left over from a stopped run holds an old id and is told to quit.
func (g *Garden) tick(id int) bool {
	if id != g.runID || g.Status().RunningMode != RunningStateRun {
		return false
	}
	g.step()
	return g.Status().RunningMode == RunningStateRun
}

//stop stops the running cycle
func (g *Garden) stop() {
	if g.Status().RunningMode == RunningStateRun {
		g.switchRunningState(RunningStateManual)
	}
}

//step advances every plant by TimeStep
func (g *Garden) step() {
	if g.Status().RunningMode == RunningStateFinished {
		return
	}
	start := time.Now()

	g.mu.Lock()
	var err error
	for i, p := range g.plants {
		if err = p.Update(g.options.TimeStep); err != nil {
			err = errors.Wrapf(err, "plant %d", i)
			break
		}
	}
	g.status.StepNum++
	g.count()
	g.status.StepTime = time.Since(start)
	finished := g.options.MaxSteps > 0 && g.status.StepNum >= g.options.MaxSteps
	g.mu.Unlock()

	switch {
	case err != nil:
		g.fail(err)
	case finished:
		g.switchRunningState(RunningStateFinished)
	default:
		g.publish()
	}
}
