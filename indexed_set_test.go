package epirt

import "testing"

func TestIndexedSetAddRemoveLen(t *testing.T) {
	s := NewIndexedSet()
	s.Add(1)
	s.Add(2)
	s.Add(3)
	if got := s.Len(); got != 3 {
		t.Fatalf(UnequalIntParameterError, "Len after three adds", 3, got)
	}
	s.Remove(2)
	if got := s.Len(); got != 2 {
		t.Fatalf(UnequalIntParameterError, "Len after remove", 2, got)
	}
	if s.Contains(2) {
		t.Fatalf(UnexpectedErrorWhileError, "checking removed element", "still present")
	}
	if !s.Contains(1) || !s.Contains(3) {
		t.Fatalf(UnexpectedErrorWhileError, "checking surviving elements", "missing")
	}
}

func TestIndexedSetSwapRemovePreservesOthers(t *testing.T) {
	s := NewIndexedSet()
	for i := 0; i < 10; i++ {
		s.Add(i)
	}
	s.Remove(0)
	s.Remove(9)
	for i := 1; i < 9; i++ {
		if !s.Contains(i) {
			t.Fatalf(UnexpectedErrorWhileError, "checking surviving element after swap-remove", "missing")
		}
	}
	if s.Len() != 8 {
		t.Fatalf(UnequalIntParameterError, "Len after two removes", 8, s.Len())
	}
}

func TestIndexedSetSampleReturnsMember(t *testing.T) {
	s := NewIndexedSet()
	s.Add(5)
	s.Add(6)
	s.Add(7)
	rng := NewRNG(3)
	for i := 0; i < 50; i++ {
		x := s.Sample(rng)
		if !s.Contains(x) {
			t.Fatalf(UnexpectedErrorWhileError, "sampling", "returned a non-member")
		}
	}
}

func TestIndexedSetAddDuplicatePanics(t *testing.T) {
	s := NewIndexedSet()
	s.Add(1)
	defer func() {
		if recover() == nil {
			t.Fatalf(ExpectedErrorWhileError, "adding a duplicate element")
		}
	}()
	s.Add(1)
}

func TestIndexedSetRemoveAbsentPanics(t *testing.T) {
	s := NewIndexedSet()
	defer func() {
		if recover() == nil {
			t.Fatalf(ExpectedErrorWhileError, "removing an absent element")
		}
	}()
	s.Remove(1)
}

func TestIndexedSetSampleEmptyPanics(t *testing.T) {
	s := NewIndexedSet()
	defer func() {
		if recover() == nil {
			t.Fatalf(ExpectedErrorWhileError, "sampling an empty set")
		}
	}()
	s.Sample(NewRNG(1))
}
