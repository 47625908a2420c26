package trace

import "errors"

// fanout sends every event to several tracers, e.g. stderr and the crash ring.
type fanout []Tracer

// Fanout combines tracers. The result reports the most verbose member level;
// each member still filters events by its own level.
func Fanout(tracers ...Tracer) Tracer {
	return fanout(tracers)
}

func (f fanout) Emit(ev *Event) {
	for _, t := range f {
		cp := *ev
		t.Emit(&cp)
	}
}

func (f fanout) Flush() error {
	var errs []error
	for _, t := range f {
		errs = append(errs, t.Flush())
	}
	return errors.Join(errs...)
}

func (f fanout) Close() error {
	var errs []error
	for _, t := range f {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

func (f fanout) Level() Level {
	lvl := LevelOff
	for _, t := range f {
		lvl = max(lvl, t.Level())
	}
	return lvl
}

func (f fanout) Enabled() bool { return f.Level() > LevelOff }
