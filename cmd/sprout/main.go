package main

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"runtime"

	"github.com/garden-nomes/sprout"
	"github.com/garden-nomes/sprout/garden"
	"github.com/garden-nomes/sprout/interchange"
	"github.com/garden-nomes/sprout/interchange/species"
	"github.com/integrii/flaggy"
	"github.com/logrusorgru/aurora"
)

const (
	defSteps = 60
	defDt    = 0.1
	defScale = 4
	defCount = 1
)

type EnvOptions struct {
	interactive bool
	speciesFile string
	outDir      string
	noColor     bool
	count       int
	workers     int
	seed        int64
	growth      growth
}

func main() {
	eo, uo := initOptions()

	formats, err := loadSpecies(eo.speciesFile)
	if err != nil {
		log.Fatalf("Error while reading species: %v\n", err)
	}

	if eo.interactive {
		uo.Seed = eo.seed
		g, err := garden.New(uo, formats, nil)
		if err != nil {
			log.Fatalf("Error while planting the garden: %v\n", err)
		}
		v := NewViewTerminal()
		g.RegisterViewer(v)
		v.Start()
		g.Close()
		return
	}

	if err := listen(os.Stdout, os.Stderr, formats, eo); err != nil {
		log.Fatalf("%v\n", err)
	}
}

func initOptions() (eo *EnvOptions, uo *garden.Options) {
	o := garden.DefaultOptions
	uo = &o
	eo = &EnvOptions{
		count:   defCount,
		workers: runtime.NumCPU(),
		growth: growth{
			steps: defSteps,
			dt:    defDt,
			scale: defScale,
		},
	}

	flaggy.SetName("sprout")
	flaggy.SetDescription("Grows L-system plants")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true

	flaggy.Bool(&eo.interactive, "n", "interactive", "Start the interactive garden")
	flaggy.String(&eo.speciesFile, "f", "species", "YAML stream of species, the default species when empty")
	flaggy.Int64(&eo.seed, "s", "seed", "Random seed")
	flaggy.Int(&eo.count, "c", "count", "Plants grown per species")
	flaggy.Int(&eo.workers, "j", "workers", "Plants grown concurrently")
	flaggy.Int(&eo.growth.steps, "t", "steps", "Growth steps per plant")
	flaggy.Float64(&eo.growth.dt, "d", "dt", "Growth seconds per step")
	flaggy.Float64(&eo.growth.scale, "k", "scale", "Pixels per unit of stem length")
	flaggy.String(&eo.outDir, "o", "out", "Write PNG files to this directory instead of printing")
	flaggy.Bool(&eo.noColor, "m", "monochrome", "Disable colors")

	flaggy.Int(&uo.Width, "x", "width", "Width of the garden")
	flaggy.Int(&uo.Height, "y", "height", "Height of the garden")
	flaggy.Int(&uo.Plants, "p", "plants", "Plants in the garden")
	flaggy.Duration(&uo.Interval, "i", "interval", "Interval between garden steps, for example 100ms")
	flaggy.Int(&uo.MaxSteps, "a", "maxSteps", "Limit the garden to maxSteps")

	flaggy.Parse()

	if eo.workers < 1 {
		eo.workers = 1
	}
	uo.Plant.Scale = eo.growth.scale

	return
}

// loadSpecies reads every species of the file, or returns the default species
func loadSpecies(path string) ([]interchange.Format, error) {
	if path == "" {
		return []interchange.Format{&species.Default}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeSpecies(f)
}

func decodeSpecies(r io.Reader) ([]interchange.Format, error) {
	decoded, err := species.DecodeAll(r)
	if err != nil {
		return nil, err
	}

	formats := make([]interchange.Format, len(decoded))
	for i, format := range decoded {
		if err := format.Validate(); err != nil {
			return nil, err
		}
		formats[i] = format
	}
	return formats, nil
}

func speciesName(format interchange.Format, i int) string {
	if named, ok := format.(*species.Format); ok && named.Name != "" {
		return named.Name
	}
	return fmt.Sprintf("species%d", i)
}

// listen feeds count specimens of every species to the pipeline and writes them out in order
func listen(w io.Writer, ew io.Writer, formats []interchange.Format, eo *EnvOptions) error {
	in, out := buildPipeline(eo.workers, eo.growth)
	au := aurora.NewAurora(!eo.noColor)

	// Signal that the pipeline is empty
	closed := make(chan error)
	go func() {
		var firstErr error
		n := -1
		for s := range out {
			n++
			fmt.Fprintf(ew, "Specimen %d grown\n", n)
			if s.err != nil {
				log.Printf("Error while growing: %v\n", s.err)
				if firstErr == nil {
					firstErr = s.err
				}
				continue
			}
			if err := emit(w, au, eo.outDir, s); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		closed <- firstErr
	}()

	rng := rand.New(rand.NewSource(eo.seed))
	var err error
feed:
	for i, format := range formats {
		palette, perr := format.Palette()
		if perr != nil {
			err = perr
			break
		}
		for j := 0; j < eo.count; j++ {
			params, serr := format.Sample(rng)
			if serr != nil {
				err = serr
				break feed
			}
			g := sprout.New(params)
			g.Palette = palette
			in <- &specimen{
				name:    speciesName(format, i),
				index:   j,
				grammar: g,
			}
		}
	}
	close(in)

	if perr := <-closed; err == nil {
		err = perr
	}
	return err
}

func emit(w io.Writer, au aurora.Aurora, outDir string, s *specimen) error {
	if outDir != "" {
		path, err := writePNG(outDir, s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", path)
		return err
	}

	_, err := fmt.Fprintf(w, "%s #%d, age %.1f, %d symbols\n%s\n\n",
		au.Bold(s.name), s.index, s.grammar.Age(), s.grammar.Len(), halfBlocks(au, cacheImage(s.cache)))
	return err
}
