// Package events fans out each closed Journal to zero or more
// ambient outputs — structured logging always, plus optional
// Elasticsearch and Prometheus mirrors — adapted from the teacher's
// metrics.Dispatcher/outputs.Output pattern (SPEC_FULL.md §6).
package events

import (
	"sync"
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// Report bundles a closed Journal with the Result rows it produced, the
// unit the Task Runner hands to the Dispatcher once per task run.
type Report struct {
	Journal   model.Journal
	TaskID    int64
	CronID    int64
	Results   []model.Result
	Succeeded bool
	Dt        time.Time
}

// Output receives every dispatched Report. Write must not block for
// long — the Dispatcher fans out to all outputs in parallel and waits
// for the slowest one before returning.
type Output interface {
	Write(report *Report) error
	Name() string
}

// Dispatcher distributes closed Journals to every registered Output.
type Dispatcher struct {
	mu      sync.RWMutex
	outputs []Output
}

// NewDispatcher builds an empty Dispatcher; register outputs with
// RegisterOutput before the first Dispatch.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// RegisterOutput adds output to the fan-out set.
func (d *Dispatcher) RegisterOutput(output Output) {
	if output == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outputs = append(d.outputs, output)
}

// Dispatch sends report to every registered output concurrently and
// waits for all of them to finish. One output's error never blocks or
// fails the others.
func (d *Dispatcher) Dispatch(report *Report) {
	d.mu.RLock()
	outputs := make([]Output, len(d.outputs))
	copy(outputs, d.outputs)
	d.mu.RUnlock()

	var wg sync.WaitGroup
	for _, output := range outputs {
		wg.Add(1)
		go func(o Output) {
			defer wg.Done()
			_ = o.Write(report)
		}(output)
	}
	wg.Wait()
}
