package promise

import (
	"errors"
	"testing"
)

func TestAwaitResolves(t *testing.T) {
	p := New(func() (int, error) { return 42, nil })
	v, err := p.Await()
	if err != nil {
		t.Fatal(err)
	}
	if v != 42 {
		t.Errorf("expected 42, got %d", v)
	}
}

func TestAwaitRejects(t *testing.T) {
	wantErr := errors.New("boom")
	p := New(func() (int, error) { return 0, wantErr })
	_, err := p.Await()
	if err != wantErr {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

func TestThenChainsOnSuccess(t *testing.T) {
	p := New(func() (int, error) { return 2, nil })
	doubled := Then(p, func(v int) (int, error) { return v * 2, nil })
	v, err := doubled.Await()
	if err != nil {
		t.Fatal(err)
	}
	if v != 4 {
		t.Errorf("expected 4, got %d", v)
	}
}

func TestThenSkipsOnRejection(t *testing.T) {
	wantErr := errors.New("boom")
	p := New(func() (int, error) { return 0, wantErr })
	called := false
	chained := Then(p, func(v int) (int, error) { called = true; return v, nil })
	_, err := chained.Await()
	if err != wantErr {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
	if called {
		t.Error("expected Then's function not to run after a rejection")
	}
}

func TestCatchRecovers(t *testing.T) {
	p := New(func() (int, error) { return 0, errors.New("boom") })
	recovered := Catch(p, func(err error) (int, error) { return 99, nil })
	v, err := recovered.Await()
	if err != nil {
		t.Fatal(err)
	}
	if v != 99 {
		t.Errorf("expected 99, got %d", v)
	}
}

func TestFinallyAlwaysRuns(t *testing.T) {
	ran := false
	p := New(func() (int, error) { return 1, nil })
	Finally(p, func() { ran = true }).Await()
	if !ran {
		t.Error("expected Finally's function to run")
	}
}

func TestAllPreservesOrder(t *testing.T) {
	ps := []*Promise[int]{Resolved(1), Resolved(2), Resolved(3)}
	out, err := All(ps).Await()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Errorf("unexpected order: %v", out)
	}
}

func TestAllRejectsOnFirstError(t *testing.T) {
	wantErr := errors.New("boom")
	ps := []*Promise[int]{Resolved(1), Rejected[int](wantErr)}
	_, err := All(ps).Await()
	if err != wantErr {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

func TestAnyResolvesOnFirstSuccess(t *testing.T) {
	ps := []*Promise[int]{Rejected[int](errors.New("a")), Resolved(5)}
	v, err := Any(ps).Await()
	if err != nil {
		t.Fatal(err)
	}
	if v != 5 {
		t.Errorf("expected 5, got %d", v)
	}
}

func TestAnyRejectsWhenAllFail(t *testing.T) {
	ps := []*Promise[int]{Rejected[int](errors.New("a")), Rejected[int](errors.New("b"))}
	_, err := Any(ps).Await()
	if err == nil {
		t.Error("expected an error when every input rejects")
	}
}

func TestSequenceRunsInOrderAndStopsOnError(t *testing.T) {
	var ran []int
	thunks := []func() (int, error){
		func() (int, error) { ran = append(ran, 1); return 1, nil },
		func() (int, error) { ran = append(ran, 2); return 0, errors.New("boom") },
		func() (int, error) { ran = append(ran, 3); return 3, nil },
	}
	_, err := Sequence(thunks).Await()
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(ran) != 2 {
		t.Errorf("expected the third thunk to be skipped, ran=%v", ran)
	}
}

func TestMapPreservesOrderUnderConcurrency(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	out, err := Map(items, 2, func(v int) (int, error) { return v * v, nil }).Await()
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 4, 9, 16, 25}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, out)
		}
	}
}
