package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"
	"time"

	"github.com/garden-nomes/sprout/garden"
	"github.com/garden-nomes/sprout/plant"
	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
)

// binding is a global key and the garden action it triggers
type binding struct {
	key    interface{}
	label  string
	help   string
	action func() error
}

type ConsoleUI struct {
	g    *garden.Garden
	ui   *gocui.Gui
	keys []binding
	au   aurora.Aurora

	selected  int
	highlight color.RGBA
}

var (
	runningStateDescr = map[garden.RunningState]string{
		garden.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		garden.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		garden.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}

	plantStateDescr = map[plant.State]string{
		plant.Happy:   aurora.Colorize("happy", aurora.GreenFg).String(),
		plant.Thirsty: aurora.Colorize("thirsty", aurora.YellowFg).String(),
		plant.Sickly:  aurora.Colorize("sickly", aurora.RedFg).String(),
	}
)

func NewViewTerminal() *ConsoleUI {
	var err error
	t := ConsoleUI{
		au:        aurora.NewAurora(true),
		highlight: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}

	t.ui, err = gocui.NewGui(gocui.Output256)
	if err != nil {
		log.Panicln(err)
	}

	t.keys = []binding{
		{gocui.KeyCtrlC, "^C", "quit", func() error { return gocui.ErrQuit }},
		{'n', "n", "step", t.onGarden(func(g *garden.Garden) { g.Step() })},
		{'r', "r", "run", t.onGarden(func(g *garden.Garden) { g.Run() })},
		{'s', "s", "stop", t.onGarden(func(g *garden.Garden) { g.Stop() })},
		{'w', "w", "water", t.onGarden(func(g *garden.Garden) { g.Water(t.selected) })},
		{'a', "a", "water all", t.onGarden(func(g *garden.Garden) { g.Water(-1) })},
		{'p', "p", "replant", t.onGarden(func(g *garden.Garden) { g.Replant() })},
		{gocui.KeyArrowLeft, "←", "previous plant", func() error { return t.selectPlant(-1) }},
		{gocui.KeyArrowRight, "→", "next plant", func() error { return t.selectPlant(1) }},
	}
	for _, kb := range t.keys {
		action := kb.action
		if err := t.ui.SetKeybinding("", kb.key, gocui.ModNone, func(*gocui.Gui, *gocui.View) error { return action() }); err != nil {
			log.Panicln(err)
		}
	}
	t.ui.SetManagerFunc(t.layout)

	return &t
}

func (t *ConsoleUI) Register(g *garden.Garden) {
	t.g = g
}

func (t *ConsoleUI) Start() {
	if err := t.ui.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
	t.ui.Close()
}

func (t *ConsoleUI) Refresh() {
	t.renderField()
	t.renderConfiguration()
	t.renderStatus()
}

func (t *ConsoleUI) renderField() {
	t.ui.Update(func(g *gocui.Gui) error {
		v, e := g.View("garden")
		if e != nil {
			return nil
		}
		v.Clear()

		o := t.g.Options()
		img := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
		t.g.Render(img, t.selected, t.highlight)

		maxW, maxH := v.Size()
		lines := strings.Split(halfBlocks(t.au, img), "\n")
		if o.Width > maxW || (o.Height+1)/2 > maxH {
			lines = append(lines[:min(len(lines), max(maxH-1, 0))], aurora.Red("The garden is larger than the viewing area").BgBlack().String())
		}
		_, _ = fmt.Fprint(v, strings.Join(lines, "\n"))
		return nil
	})
}

func (t *ConsoleUI) renderStatus() {
	s := t.g.Status()
	plants := t.g.Plants()
	t.ui.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Step", "%v", s.StepNum))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
			_, _ = fmt.Fprintln(v, t.renderProp("Apexes", "%v", s.Apexes))
			_, _ = fmt.Fprintln(v, t.renderProp("Pixels", "%v", s.Pixels))
			_, _ = fmt.Fprintln(v, t.renderProp("Step time", "%v", s.StepTime.Round(time.Microsecond)))
			if s.Err != nil {
				_, _ = fmt.Fprintln(v, aurora.Red(s.Err.Error()).String())
			}
			if t.selected < len(plants) {
				p := plants[t.selected]
				_, _ = fmt.Fprintln(v)
				_, _ = fmt.Fprintln(v, t.renderProp("Plant", "%d of %d", t.selected+1, len(plants)))
				_, _ = fmt.Fprintln(v, t.renderProp("State", "%v", plantStateDescr[p.State]))
				_, _ = fmt.Fprintln(v, t.renderProp("Hydration", "%.2f", p.Hydration))
				_, _ = fmt.Fprintln(v, t.renderProp("Sickly", "%.2f", p.Sickly))
				_, _ = fmt.Fprintln(v, t.renderProp("Growth", "%.0f%%", p.Growth*100))
				_, _ = fmt.Fprintln(v, t.renderProp("Age", "%.2f", p.Age))
				_, _ = fmt.Fprintln(v, t.renderProp("Symbols", "%v", p.Symbols))
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.ui.Update(func(g *gocui.Gui) error {
		c := t.g.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Width, c.Height))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Time step", "%vs", c.TimeStep))
			_, _ = fmt.Fprintln(v, t.renderProp("Steps", "%v", c.MaxSteps))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

// pane is a framed view and the function that fills it
type pane struct {
	name           string
	title          string
	x0, y0, x1, y1 int
	render         func()
}

const (
	sideWidth = 28
	minHeight = 16
)

// layout places the side panes left of the garden and the key help under them.
// Panes are filled once when created, afterwards Refresh keeps them current.
func (t *ConsoleUI) layout(g *gocui.Gui) error {
	w, h := g.Size()
	if h < minHeight {
		for _, name := range []string{"configuration", "status", "garden", "keys"} {
			_ = g.DeleteView(name)
		}
		v, err := g.SetView("small", 0, 0, w-1, 2)
		if err != nil && err != gocui.ErrUnknownView {
			return err
		}
		v.Clear()
		_, _ = fmt.Fprint(v, aurora.Red("The terminal is too short for the garden").String())
		return nil
	}
	_ = g.DeleteView("small")

	panes := []pane{
		{"configuration", "Configuration", 0, 0, sideWidth, 5, t.renderConfiguration},
		{"status", "Status", 0, 6, sideWidth, h - 3, t.renderStatus},
		{"garden", "Sprout garden", sideWidth + 1, 0, w - 1, h - 3, t.renderField},
		{"keys", "", -1, h - 3, w, h, t.renderKeys},
	}
	for _, p := range panes {
		v, err := g.SetView(p.name, p.x0, p.y0, p.x1, p.y1)
		if err == nil {
			continue
		}
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = p.title
		v.Frame = p.title != ""
		p.render()
	}
	return nil
}

func (t *ConsoleUI) renderKeys() {
	t.ui.Update(func(g *gocui.Gui) error {
		v, err := g.View("keys")
		if err != nil {
			return nil
		}
		v.Clear()
		help := make([]string, len(t.keys))
		for i, kb := range t.keys {
			help[i] = aurora.Green(kb.label).String() + " " + kb.help
		}
		_, _ = fmt.Fprint(v, " "+strings.Join(help, "  "))
		return nil
	})
}

// onGarden wraps a garden command into a key action
func (t *ConsoleUI) onGarden(cmd func(g *garden.Garden)) func() error {
	return func() error {
		cmd(t.g)
		return nil
	}
}

// selectPlant moves the highlight by delta, staying inside the row
func (t *ConsoleUI) selectPlant(delta int) error {
	t.selected = max(0, min(t.selected+delta, t.g.Options().Plants-1))
	t.Refresh()
	return nil
}
