package scheduler

import (
	"errors"
	"testing"

	"pumpmc/pump"
)

func TestReplayScheduler(t *testing.T) {
	run := []pump.Label{
		pump.Plain(pump.StartMonitoring),
		pump.RequestBolusLabel(50),
		pump.Plain(pump.ConfirmDelivery),
	}
	sch := NewReplay(run)
	s := pump.Init()
	for i, expected := range run {
		label, next, err := sch.Next(s)
		if err != nil {
			t.Fatalf("Received unexpected error at index %v: %v", i, err)
		}
		if label != expected {
			t.Errorf("Received unexpected label at index %v. Got %v, expected %v", i, label, expected)
		}
		s = next
	}
	if s.Mode != pump.Delivering || s.PendingBolus != 50 {
		t.Errorf("Unexpected final state:\n%v", s)
	}
	if _, _, err := sch.Next(s); !errors.Is(err, RunEndedError) {
		t.Errorf("Expected to get a RunEndedError. Got: %v", err)
	}
}

func TestReplaySchedulerGuardFailure(t *testing.T) {
	sch := NewReplay([]pump.Label{pump.Plain(pump.StartMonitoring), pump.Plain(pump.ConfirmDelivery)})
	s := pump.Init()
	_, s, err := sch.Next(s)
	if err != nil {
		t.Fatalf("Received unexpected error: %v", err)
	}

	label, after, err := sch.Next(s)
	var guardErr *GuardError
	if !errors.As(err, &guardErr) {
		t.Fatalf("Expected a GuardError. Got: %v", err)
	}
	if guardErr.Index != 1 || guardErr.Label != pump.Plain(pump.ConfirmDelivery) || guardErr.State != s {
		t.Errorf("Unexpected guard error: %+v", guardErr)
	}
	if label != pump.Plain(pump.ConfirmDelivery) || after != s {
		t.Errorf("Expected the state to be unchanged after a guard failure")
	}
	if sch.Remaining() != 1 {
		t.Errorf("Expected the script not to advance on failure. Remaining: %v", sch.Remaining())
	}
}

func TestReplaySchedulerNoAction(t *testing.T) {
	sch := NewReplay([]pump.Label{pump.Plain(pump.NoAction)})
	label, s, err := sch.Next(pump.Init())
	if err != nil || label.Action != pump.NoAction || s != pump.Init() {
		t.Errorf("Expected NoAction to succeed without changing the state. Got %v, %v", label, err)
	}
}
