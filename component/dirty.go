package component

// Dirty is an instance's changed-field bitmask. Field i lives in word i/31 at
// bit i%31, so bit 31 is never set by marking. A first word of -1 is the clean
// state and, when handed to a patch, means "refresh everything".
type Dirty []int32

func clean() Dirty {
	return Dirty{-1}
}

// AllDirty returns a full-refresh mask covering n fields.
func AllDirty(n int) Dirty {
	d := make(Dirty, max(1, (n+30)/31))
	for i := range d {
		d[i] = -1
	}
	return d
}

func (d Dirty) Clean() bool {
	return len(d) == 0 || d[0] == -1
}

// Has reports whether field i changed.
func (d Dirty) Has(i int) bool {
	if len(d) == 0 {
		return false
	}
	if d[0] == -1 {
		return true
	}
	w := i / 31
	if w >= len(d) {
		return false
	}
	return d[w]&(1<<(i%31)) != 0
}

// Any reports whether any of the fields changed.
func (d Dirty) Any(fields ...int) bool {
	for _, i := range fields {
		if d.Has(i) {
			return true
		}
	}
	return false
}

func (d Dirty) mark(i int) Dirty {
	w := i / 31
	for len(d) <= w {
		d = append(d, 0)
	}
	d[w] |= 1 << (i % 31)
	return d
}
