package main

import (
	"reflect"

	"github.com/garden-nomes/sprout"
	"github.com/garden-nomes/sprout/raster"
	"github.com/pkg/errors"
)

const (
	sequencerQueueSize = 5
	orderInQueueSize   = 5
	orderOutQueueSize  = 0
	outQueueSize       = 5
)

// specimen is one plant travelling through the pipeline
type specimen struct {
	name    string
	index   int
	grammar *sprout.Grammar
	cache   *raster.Cache
	err     error
}

// growth says how long each specimen grows
type growth struct {
	steps int
	dt    float64
	scale float64
}

type order struct {
	s   *specimen
	seq int
}

// buildPipeline grows specimens on several workers and hands them back in the order they came in
func buildPipeline(workers int, gr growth) (in chan<- *specimen, out <-chan *specimen) {
	sequencerQueue := make(chan *specimen, sequencerQueueSize)
	orderInQueue := make(chan *order, orderInQueueSize)
	outQueue := make(chan *specimen, outQueueSize)
	orderOutQueues := make([]<-chan *order, workers)

	go sequence(sequencerQueue, orderInQueue)
	for i := range orderOutQueues {
		q := make(chan *order, orderOutQueueSize)
		go run(orderInQueue, q, gr)
		orderOutQueues[i] = q
	}
	go resolve(orderOutQueues, outQueue)

	return sequencerQueue, outQueue
}

func sequence(in <-chan *specimen, orderInQueue chan<- *order) {
	seq := 0
	for s := range in {
		orderInQueue <- &order{
			s,
			seq,
		}
		seq++
	}
	close(orderInQueue)
}

func run(orderInQueue <-chan *order, orderOutQueue chan<- *order, gr growth) {
	for o := range orderInQueue {
		o.s.err = grow(o.s, gr)
		orderOutQueue <- o
	}
	close(orderOutQueue)
}

// grow iterates the grammar and rasterizes the result once
func grow(s *specimen, gr growth) error {
	for i := 0; i < gr.steps; i++ {
		s.grammar.Iterate(gr.dt)
	}

	lines, err := s.grammar.Lines(0, 0, gr.scale)
	if err != nil {
		return errors.Wrapf(err, "%s #%d", s.name, s.index)
	}
	s.cache = raster.New(s.grammar.Palette.Stem, s.grammar.Palette.Tip)
	s.cache.Rebuild(lines)
	return nil
}

// resolve forwards grown specimens to outQueue in the order the sequencer numbered them.
//
// Each worker queue owns one parking slot. A specimen that arrives ahead of its turn is
// parked there, and its queue is left out of the next select until the slot is emptied.
// The queue holding the next specimen is therefore always selectable. Closed queues are
// masked out too, and once no select case is left the parked specimens are flushed and
// outQueue is closed.
func resolve(orderOutQueues []<-chan *order, outQueue chan<- *specimen) {
	seq := -1

	buffer := make([]*order, len(orderOutQueues))

	// Closed worker queues
	mask := make([]bool, len(orderOutQueues))

	// Send parked specimens while one of them is next
	checkBuffer := func() {
		for found := true; found; {
			found = false
			for i, buffered := range buffer {
				if buffered != nil && buffered.seq == seq+1 {
					outQueue <- buffered.s
					seq++
					buffer[i] = nil
					found = true
				}
			}
		}
	}

	// Create one SelectCase per orderOutQueues
	selectCases := make([]reflect.SelectCase, len(orderOutQueues))
	for i, ooq := range orderOutQueues {
		selectCases[i] = reflect.SelectCase{
			Dir:  reflect.SelectRecv,
			Chan: reflect.ValueOf(ooq),
		}
	}

	// Channel case subselection
	subSelectCases := make([]reflect.SelectCase, 0, len(orderOutQueues))

	// Map of subselected channel index to order queue index
	subSelectCaseToOrderQueueIndex := make([]int, 0, len(orderOutQueues))

	for {
		// Select the channels, skipping the ones already buffered or closed
		for i, sc := range selectCases {
			if buffer[i] == nil && !mask[i] {
				subSelectCases = append(subSelectCases, sc)
				subSelectCaseToOrderQueueIndex = append(subSelectCaseToOrderQueueIndex, i)
			}
		}

		// Every worker is done: flush and stop
		if len(subSelectCases) == 0 {
			checkBuffer()
			close(outQueue)
			return
		}

		chosen, recv, ok := reflect.Select(subSelectCases)
		orderQueueIndex := subSelectCaseToOrderQueueIndex[chosen]
		if !ok {
			mask[orderQueueIndex] = true
			checkBuffer()
		} else {
			o, ok := recv.Interface().(*order)
			if !ok {
				panic("This should not happen: non-*order type received")
			}

			// If sequence number is the next one, send it over and increment sequence number
			// and empty the buffer if possible. If not, put it in the buffer.
			if o.seq == seq+1 {
				outQueue <- o.s
				seq++
				checkBuffer()
			} else {
				buffer[orderQueueIndex] = o
			}
		}

		// Reslice the subSelectCases
		subSelectCases = subSelectCases[:0]
		subSelectCaseToOrderQueueIndex = subSelectCaseToOrderQueueIndex[:0]
	}
}
