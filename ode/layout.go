package ode

import "fmt"

// Layout maps an ordered tuple of fixed-size components onto one flat State,
// so coupled systems integrate through a single logical vector. Norms and
// error control always see the flat vector; fields that think in components
// use At or Unpack to view slices of it.
type Layout struct {
	sizes   []int
	offsets []int
	total   int
}

func NewLayout(sizes ...int) Layout {
	l := Layout{
		sizes:   make([]int, len(sizes)),
		offsets: make([]int, len(sizes)),
	}
	copy(l.sizes, sizes)
	for i, n := range sizes {
		if n <= 0 {
			panic(fmt.Sprintf("ode: layout component %d has non-positive size %d", i, n))
		}
		l.offsets[i] = l.total
		l.total += n
	}
	return l
}

// Dim is the flat length of a packed state.
func (l Layout) Dim() int { return l.total }

// Components is the number of tuple components.
func (l Layout) Components() int { return len(l.sizes) }

// Size returns the length of component i.
func (l Layout) Size(i int) int { return l.sizes[i] }

// At returns component i of y as a view sharing y's backing array.
func (l Layout) At(y State, i int) State {
	off := l.offsets[i]
	return y[off : off+l.sizes[i]]
}

// Pack concatenates the components into a fresh flat State.
func (l Layout) Pack(parts ...State) State {
	if len(parts) != len(l.sizes) {
		panic(fmt.Sprintf("ode: layout expects %d components, got %d", len(l.sizes), len(parts)))
	}
	y := make(State, l.total)
	for i, p := range parts {
		if len(p) != l.sizes[i] {
			panic(fmt.Sprintf("ode: layout component %d has size %d, got %d", i, l.sizes[i], len(p)))
		}
		copy(y[l.offsets[i]:], p)
	}
	return y
}

// Unpack splits y into per-component views sharing y's backing array.
func (l Layout) Unpack(y State) []State {
	parts := make([]State, len(l.sizes))
	for i := range l.sizes {
		parts[i] = l.At(y, i)
	}
	return parts
}
