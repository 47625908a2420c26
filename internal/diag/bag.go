package diag

import (
	"cmp"
	"slices"
)

type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag creates a bag holding at most max diagnostics. max <= 0 means no limit.
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 16
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// Dropped returns how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if b.max > 0 && newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
}

// Filter keeps only diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}

// Sort сортирует диагностики по: file, start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(di, dj Diagnostic) int {
		if c := cmp.Compare(di.Primary.File, dj.Primary.File); c != 0 {
			return c
		}
		if c := cmp.Compare(di.Primary.Start, dj.Primary.Start); c != 0 {
			return c
		}
		if c := cmp.Compare(di.Primary.End, dj.Primary.End); c != 0 {
			return c
		}
		// Error > Warning > Info
		if c := cmp.Compare(dj.Severity, di.Severity); c != 0 {
			return c
		}
		return cmp.Compare(di.Code, dj.Code)
	})
}

// простая дедупликация (по Code+Primary)
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span string
	}
	seen := make(map[key]bool, len(b.items))
	out := b.items[:0]
	for _, d := range b.items {
		k := key{code: d.Code, span: d.Primary.String()}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	b.items = out
}
