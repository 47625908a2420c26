package trace

import (
	"fmt"
	"sync"
	"time"
)

// inflight tracks open file spans for heartbeats.
var inflight = &flightTable{files: make(map[uint64]flight)}

type flight struct {
	path    string
	started time.Time
}

type flightTable struct {
	mu    sync.Mutex
	files map[uint64]flight
}

func (ft *flightTable) add(id uint64, path string, started time.Time) {
	ft.mu.Lock()
	ft.files[id] = flight{path: path, started: started}
	ft.mu.Unlock()
}

func (ft *flightTable) remove(id uint64) {
	ft.mu.Lock()
	delete(ft.files, id)
	ft.mu.Unlock()
}

// oldest returns the longest running file and how many are open.
func (ft *flightTable) oldest() (flight, int) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	var first flight
	for _, f := range ft.files {
		if first.path == "" || f.started.Before(first.started) {
			first = f
		}
	}
	return first, len(ft.files)
}

// StartHeartbeat emits a heartbeat every interval naming the file that has
// been parsing the longest, which points at an input the parser is stuck on.
// Ticks with no file in flight are skipped. The returned func stops the
// heartbeat and waits for it; it is never nil.
func StartHeartbeat(t Tracer, interval time.Duration) (stop func()) {
	if t == nil || !t.Enabled() || interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				beat(t, now)
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}

func beat(t Tracer, now time.Time) {
	f, n := inflight.oldest()
	if n == 0 {
		return
	}
	t.Emit(&Event{
		Time:    now,
		Seq:     nextSeq(),
		Kind:    KindHeartbeat,
		Scope:   ScopeDriver,
		Name:    f.path,
		File:    f.path,
		Elapsed: now.Sub(f.started),
		Detail:  fmt.Sprintf("%d file(s) in flight", n),
	})
}
