package diag

import (
	"cmp"
	"slices"
)

// Bag collects the diagnostics of one run in emission order. A capped bag
// counts what it turned away; Sort is the only thing that reorders it.
type Bag struct {
	items    []Diagnostic
	limit    int // 0 - без ограничения
	overflow int
}

// NewBag creates a bag holding at most limit diagnostics; limit <= 0 means
// no cap.
func NewBag(limit int) *Bag {
	limit = max(limit, 0)
	return &Bag{items: make([]Diagnostic, 0, min(max(limit, 16), 256)), limit: limit}
}

// Add keeps d unless the bag is full; false means d was counted as dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if b.full() {
		b.overflow++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) full() bool { return b.limit > 0 && len(b.items) >= b.limit }

// Cap is the limit the bag was created with, 0 when unlimited.
func (b *Bag) Cap() int { return b.limit }

// Dropped counts the diagnostics Add turned away.
func (b *Bag) Dropped() int { return b.overflow }

// HasErrors is true for any error-level item, and for any dropped one:
// only a full bag drops, and it is full of errors.
func (b *Bag) HasErrors() bool {
	return b.overflow > 0 || slices.ContainsFunc(b.items, func(d Diagnostic) bool {
		return d.Severity >= SevError
	})
}

func (b *Bag) Len() int { return len(b.items) }

// Items exposes the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) CountCode(code Code) int {
	n := 0
	for _, d := range b.items {
		if d.Code == code {
			n++
		}
	}
	return n
}

// Merge appends everything other holds. The cap grows to fit, so merging
// never drops.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	if b.limit > 0 {
		b.limit = max(b.limit, len(b.items))
	}
	b.overflow += other.overflow
}

// Sort orders by file, line, offset, then errors before warnings and lower
// codes first. Equal keys keep emission order.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Line, y.Line),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
