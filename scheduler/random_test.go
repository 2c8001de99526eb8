package scheduler

import (
	"testing"

	"pumpmc/pump"
	"pumpmc/transition"

	"golang.org/x/exp/slices"
)

func TestRandomSchedulerFromInit(t *testing.T) {
	sch := NewRandom(1)
	for i := 0; i < 50; i++ {
		label, s, err := sch.Next(pump.Init())
		if err != nil {
			t.Fatalf("Did not expect to receive an error. Got %v", err)
		}
		if label.Action != pump.StartMonitoring && label.Action != pump.DetectHardwareFault {
			t.Errorf("Selected a transition that is not enabled from the initial state: %v", label)
		}
		if res := transition.Apply(pump.Init(), label); res.NewState != s {
			t.Errorf("Returned state does not match the selected label %v", label)
		}
	}
}

func TestRandomSchedulerNoAction(t *testing.T) {
	stuck := pump.Init()
	stuck.Mode = pump.Suspended
	stuck.ReservoirLevel = 0

	label, s, err := NewRandom(3).Next(stuck)
	if err != nil {
		t.Fatalf("Did not expect to receive an error. Got %v", err)
	}
	if label != pump.Plain(pump.NoAction) || s != stuck {
		t.Errorf("Expected NoAction and an unchanged state. Got %v", label)
	}
}

func TestRandomSchedulerSamplesCandidates(t *testing.T) {
	monitoring := pump.Init()
	monitoring.Mode = pump.Monitoring

	sch := NewRandom(7)
	for i := 0; i < 500; i++ {
		label, _, _ := sch.Next(monitoring)
		if !label.Action.Parameterized() {
			continue
		}
		if !slices.Contains(transition.Candidates(label.Action), label.Param()) {
			t.Errorf("Sampled a parameter outside of the candidate set: %v", label)
		}
	}
}

func TestRandomSchedulerDeterministic(t *testing.T) {
	walk := func(seed int64) []pump.Label {
		sch := NewRandom(seed)
		s := pump.Init()
		labels := []pump.Label{}
		for i := 0; i < 200; i++ {
			var label pump.Label
			label, s, _ = sch.Next(s)
			labels = append(labels, label)
		}
		return labels
	}
	if !slices.Equal(walk(42), walk(42)) {
		t.Errorf("Expected two walks with the same seed to select the same labels")
	}
}
