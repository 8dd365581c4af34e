package container

import (
	"fmt"
	"testing"
)

func TestBitSet(t *testing.T) {
	s := NewBitSet()
	if !s.IsEmpty() {
		t.Fatalf("a new bit set must be empty")
	}
	for _, v := range []int{0, 3, 64, 130} {
		s.Set(v)
	}
	for _, v := range []int{0, 3, 64, 130} {
		if !s.Contains(v) {
			t.Fatalf("%v must be contained in %v", v, s)
		}
	}
	if s.Contains(1) || s.Contains(63) || s.Contains(1000) {
		t.Fatalf("unexpected membership in %v", s)
	}
	if got := s.Len(); got != 4 {
		t.Fatalf("unexpected length; want: 4, got: %v", got)
	}
	min, ok := s.Min()
	if !ok || min != 0 {
		t.Fatalf("unexpected minimum; want: 0, got: %v", min)
	}
	s.Clear(0)
	min, _ = s.Min()
	if min != 3 {
		t.Fatalf("unexpected minimum after clear; want: 3, got: %v", min)
	}
	if got := fmt.Sprintf("%v", s.Elements()); got != "[3 64 130]" {
		t.Fatalf("unexpected elements; got: %v", got)
	}
}

func TestBitSet_EqualIgnoresTrailingZeroWords(t *testing.T) {
	a := NewBitSet()
	a.Set(1)
	b := NewBitSet()
	b.Set(1)
	b.Set(200)
	b.Clear(200)
	if !a.Equal(b) || !b.Equal(a) {
		t.Fatalf("%v and %v must be equal", a, b)
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("equal sets must hash alike")
	}
}

type modHasher struct{}

func (modHasher) Hash(v int) int      { return v % 3 }
func (modHasher) Equal(a, b int) bool { return a == b }

func TestHashMap_CollidingKeys(t *testing.T) {
	m := NewHashMap[int, string](modHasher{})
	m.Put(1, "one")
	m.Put(4, "four")
	m.Put(7, "seven")
	if got := m.Len(); got != 3 {
		t.Fatalf("unexpected length; want: 3, got: %v", got)
	}
	for k, want := range map[int]string{1: "one", 4: "four", 7: "seven"} {
		v, ok := m.Get(k)
		if !ok || v != want {
			t.Fatalf("unexpected binding for %v; want: %v, got: %v", k, want, v)
		}
	}
	m.Put(4, "FOUR")
	if v, _ := m.Get(4); v != "FOUR" {
		t.Fatalf("a put must replace the binding; got: %v", v)
	}
	if got := m.Len(); got != 3 {
		t.Fatalf("replacement must not grow the map; got: %v", got)
	}

	v, existed := m.GetOrPut(10, "ten")
	if existed || v != "ten" {
		t.Fatalf("unexpected get-or-put result for a fresh key; got: %v, %v", v, existed)
	}
	v, existed = m.GetOrPut(10, "TEN")
	if !existed || v != "ten" {
		t.Fatalf("get-or-put must return the existing binding; got: %v, %v", v, existed)
	}
}

func TestHashSet_Intern(t *testing.T) {
	s := NewHashSet[int](modHasher{})
	if !s.Add(5) {
		t.Fatalf("adding a fresh element must report true")
	}
	if s.Add(5) {
		t.Fatalf("adding a duplicate must report false")
	}
	if got := s.Intern(5); got != 5 {
		t.Fatalf("intern must return the member; got: %v", got)
	}
	if got := s.Len(); got != 1 {
		t.Fatalf("unexpected length; want: 1, got: %v", got)
	}
	if !s.Contains(5) || s.Contains(8) {
		t.Fatalf("unexpected membership")
	}
}
