package diag

import "gocst/internal/source"

// Reporter принимает диагностики от лексера и парсера.
// Реализации: BagReporter (кладёт в Bag), DedupReporter (фильтр перед другим Reporter).
type Reporter interface {
	Report(d Diagnostic)
}

// Emit passes d to r; a nil r drops it.
func Emit(r Reporter, d Diagnostic) {
	if r != nil {
		r.Report(d)
	}
}

// Warn reports a warning without notes or fixes.
func Warn(r Reporter, code Code, primary source.Span, msg string) {
	Emit(r, New(SevWarning, code, primary, msg))
}

// BagReporter — адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}
