// Package trace records what the parser pipeline is doing: which files the
// driver is working on, how long each parse takes, and (at debug level)
// which grammar productions run. It exists to diagnose slow inputs and
// suspected hangs.
//
// # Usage
//
//	gocst parse --trace=- --trace-level=detail ./...
//
// # Tracers
//
//   - Nop: used when tracing is off
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a crash dump, including the
//     spans that were still open
//   - Fanout: sends events to several tracers
//
// # Levels and scopes
//
// LevelPhase emits driver spans, LevelDetail adds one span per file, and
// LevelDebug adds one span per grammar production with its byte offset.
// File and driver spans end with ParseStats. StartHeartbeat reports the
// file that has been in flight the longest.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.BeginFile(trace.FromContext(ctx), trace.ParentFromContext(ctx), path)
//	defer span.EndStats(trace.ParseStats{Tokens: n})
package trace
