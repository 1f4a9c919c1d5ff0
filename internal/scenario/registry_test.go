package scenario

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestRegistry(seed uint64, builders ...string) *Registry[string, string] {
	r := NewRegistry[string, string](rand.New(rand.NewPCG(seed, seed+1)))
	for _, b := range builders {
		r.Register("task", b)
	}
	return r
}

func TestPickWithoutBuilders(t *testing.T) {
	r := newTestRegistry(1)
	if b, ok := r.Pick("task"); ok {
		t.Errorf("Pick on empty registry returned %q", b)
	}
}

func TestNoRepeatWithinThreeConsecutivePicks(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		r := newTestRegistry(seed, "a", "b", "c")
		seen := map[string]bool{}
		var picks []string
		for i := 0; i < 40; i++ {
			b, ok := r.Pick("task")
			if !ok {
				t.Fatal("Pick failed")
			}
			picks = append(picks, b)
			seen[b] = true
		}
		// With three candidates the first three picks already cover all.
		for i := 2; i < len(picks); i++ {
			window := picks[i-2 : i+1]
			if window[0] == window[1] || window[1] == window[2] || window[0] == window[2] {
				t.Fatalf("seed %d: repeated candidate in %v (all picks %v)", seed, window, picks)
			}
		}
		if len(seen) != 3 {
			t.Errorf("seed %d: only %d candidates served", seed, len(seen))
		}
	}
}

func TestWeightsDecay(t *testing.T) {
	r := newTestRegistry(7, "a", "b")
	first, _ := r.Pick("task")
	second, _ := r.Pick("task")
	if first == second {
		t.Fatalf("second pick repeated %q", first)
	}

	want := []float64{0.65, 1}
	if first == "b" {
		want = []float64{1, 0.65}
	}
	if diff := cmp.Diff(want, r.Weights("task"), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("weights (-want +got):\n%s", diff)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	r := newTestRegistry(3, "only")
	for i := 0; i < 20; i++ {
		r.Pick("task")
	}
	// Five entries: 1 + .65 + .65^2 + .65^3 + .65^4.
	want := 1 + 0.65 + 0.4225 + 0.274625 + 0.17850625
	if diff := cmp.Diff([]float64{want}, r.Weights("task"), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("weights (-want +got):\n%s", diff)
	}
}

func TestRegisterClearsHistory(t *testing.T) {
	r := newTestRegistry(5, "a", "b")
	r.Pick("task")
	r.Pick("task")
	r.Register("task", "c")

	if diff := cmp.Diff([]float64{0, 0, 0}, r.Weights("task")); diff != "" {
		t.Errorf("weights after Register (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, r.Builders("task")); diff != "" {
		t.Errorf("builders (-want +got):\n%s", diff)
	}
}

func TestKeysKeepRegistrationOrder(t *testing.T) {
	r := NewRegistry[string, int](nil)
	r.Register("single", 1)
	r.Register("multiple", 2)
	r.Register("single", 3)
	if diff := cmp.Diff([]string{"single", "multiple"}, r.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestClearRemovesBuilders(t *testing.T) {
	r := newTestRegistry(5, "a", "b")
	r.Pick("task")
	r.Clear()
	if got := r.Keys(); len(got) != 0 {
		t.Errorf("Keys() after Clear = %v", got)
	}
	if _, ok := r.Pick("task"); ok {
		t.Error("Pick succeeded after Clear")
	}
	r.Register("task", "c")
	if diff := cmp.Diff([]string{"c"}, r.Builders("task")); diff != "" {
		t.Errorf("builders (-want +got):\n%s", diff)
	}
}
