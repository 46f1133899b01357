package ode

import "testing"

func TestLayout_PackUnpack(t *testing.T) {
	l := NewLayout(2, 3)

	if l.Dim() != 5 {
		t.Errorf("Dim() = %d, want 5", l.Dim())
	}
	if l.Components() != 2 {
		t.Errorf("Components() = %d, want 2", l.Components())
	}
	if l.Size(0) != 2 || l.Size(1) != 3 {
		t.Errorf("sizes = %d, %d", l.Size(0), l.Size(1))
	}

	y := l.Pack(State{1, 2}, State{3, 4, 5})
	for i, want := range []float64{1, 2, 3, 4, 5} {
		if y[i] != want {
			t.Errorf("packed[%d] = %v, want %v", i, y[i], want)
		}
	}

	parts := l.Unpack(y)
	if len(parts) != 2 {
		t.Fatalf("Unpack returned %d parts", len(parts))
	}
	if parts[1][0] != 3 || parts[1][2] != 5 {
		t.Errorf("second component = %v", parts[1])
	}
}

func TestLayout_ViewsAlias(t *testing.T) {
	l := NewLayout(2, 2)
	y := l.Pack(State{1, 2}, State{3, 4})

	l.At(y, 1)[0] = 99
	if y[2] != 99 {
		t.Error("At should view the backing array, not copy it")
	}

	parts := l.Unpack(y)
	parts[0][1] = -7
	if y[1] != -7 {
		t.Error("Unpack should view the backing array, not copy it")
	}
}

func TestLayout_Panics(t *testing.T) {
	expectPanic := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		fn()
	}

	expectPanic("zero size", func() { NewLayout(2, 0) })
	expectPanic("negative size", func() { NewLayout(-1) })

	l := NewLayout(2, 2)
	expectPanic("wrong component count", func() { l.Pack(State{1, 2}) })
	expectPanic("wrong component size", func() { l.Pack(State{1, 2}, State{3}) })
}
