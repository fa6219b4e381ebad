package scheduler

// pool bounds the number of task runs in flight at once to MAX_WORKERS,
// the buffered-channel-semaphore shape SPEC_FULL.md §4.5 asks for in
// place of a persistent worker queue (grounded loosely on
// evalgo-org-eve's worker.Pool, simplified since the scheduler
// dispatches a bounded count of in-flight runs rather than draining a
// backlog).
type pool struct {
	slots chan struct{}
}

func newPool(maxWorkers int) *pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &pool{slots: make(chan struct{}, maxWorkers)}
}

// acquire blocks until a slot is free.
func (p *pool) acquire() {
	p.slots <- struct{}{}
}

// release frees a slot acquired with acquire.
func (p *pool) release() {
	<-p.slots
}
