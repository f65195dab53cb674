package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStream(t *testing.T) {
	var s Stream[int]
	var a, b []int

	unsubA := s.Subscribe(func(v int) { a = append(a, v) })
	var unsubB Unsubscribe
	unsubB = s.Subscribe(func(v int) {
		b = append(b, v)
		unsubB()
		s.Subscribe(func(v int) { b = append(b, v*100) })
	})

	s.Fire(1)
	s.Fire(2)
	unsubA()
	unsubA()
	s.Fire(3)

	assert.Equal(t, []int{1, 2}, a)
	assert.Equal(t, []int{1, 200, 300}, b)
}

func TestValueReplay(t *testing.T) {
	var v Value[string]
	var got []string
	v.Subscribe(func(s string) { got = append(got, "early:"+s) })
	assert.Empty(t, got)

	v.Set("a")
	v.Subscribe(func(s string) { got = append(got, "late:"+s) })
	assert.Equal(t, []string{"early:a", "late:a"}, got)

	eq := func(x, y string) bool { return x == y }
	assert.False(t, v.SetIfChanged("a", eq))
	assert.True(t, v.SetIfChanged("b", eq))
	assert.Equal(t, []string{"early:a", "late:a", "early:b", "late:b"}, got)
	assert.Equal(t, "b", v.Current())
}

func TestLifetime(t *testing.T) {
	var lt Lifetime
	var order []int
	lt.Add(func() { order = append(order, 1) })
	lt.Add(func() { order = append(order, 2) })
	assert.True(t, lt.Alive())

	lt.Destroy()
	lt.Destroy()
	assert.Equal(t, []int{2, 1}, order)
	assert.False(t, lt.Alive())

	lt.Add(func() { order = append(order, 3) })
	assert.Equal(t, []int{2, 1, 3}, order)
}
