package worker

import (
	"sync"

	"github.com/nicholasjackson/latency-simulator/timing"
)

// WorkFunc defines a function which is called for each unit of work
type WorkFunc func(n int) (*timing.Result, error)

// Done is a message sent when a worker has completed a unit of work
type Done struct {
	N      int
	Result *timing.Result
}

// Pool runs simulations in parallel
type Pool struct {
	workerCount int
	workChan    chan int
	workFunc    WorkFunc
	waitGroup   *sync.WaitGroup

	mutex     sync.Mutex
	err       error
	responses []Done
}

// New Pool
func New(workerCount int, f WorkFunc) *Pool {
	return &Pool{
		workerCount: workerCount,
		workChan:    make(chan int),
		workFunc:    f,
		waitGroup:   &sync.WaitGroup{},
		responses:   []Done{},
	}
}

// Do calls the work function count times and blocks until all calls have
// completed, the first error is returned
func (p *Pool) Do(count int) error {
	if p.workerCount > count {
		p.workerCount = count
	}

	if p.workerCount < 1 && count > 0 {
		p.workerCount = 1
	}

	// start the workers
	p.waitGroup.Add(p.workerCount)
	for n := 0; n < p.workerCount; n++ {
		go p.worker()
	}

	// start the work
	go func() {
		for n := 0; n < count; n++ {
			p.workChan <- n
		}

		close(p.workChan)
	}()

	p.waitGroup.Wait()
	return p.err
}

// Responses returns the completed work
func (p *Pool) Responses() []Done {
	return p.responses
}

// Results returns the successful simulation results
func (p *Pool) Results() []*timing.Result {
	rs := make([]*timing.Result, 0, len(p.responses))
	for _, d := range p.responses {
		if d.Result != nil {
			rs = append(rs, d.Result)
		}
	}

	return rs
}

func (p *Pool) worker() {
	defer p.waitGroup.Done()

	for n := range p.workChan {
		resp, err := p.workFunc(n)

		p.mutex.Lock()
		p.responses = append(p.responses, Done{n, resp})
		if err != nil && p.err == nil {
			p.err = err
		}
		p.mutex.Unlock()
	}
}
