package pump

import (
	"errors"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	s := Init()
	if s.Mode != Idle || s.GlucoseLevel != GlucoseTarget || s.ReservoirLevel != InitialReservoir {
		t.Errorf("Unexpected initial state:\n%v", s)
	}
	if s.CurrentDelivery != NoDelivery || s.AlarmCondition != NoAlarm || s.AlarmAcknowledged {
		t.Errorf("Unexpected initial state:\n%v", s)
	}
	if s.DeliveredAmount != 0 || s.PendingBolus != 0 || s.BasalRate != 0 || s.TotalDeliveredToday != 0 {
		t.Errorf("Expected zero counters in the initial state:\n%v", s)
	}
}

func TestFingerprint(t *testing.T) {
	a, b := Init(), Init()
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("Equal states must have equal fingerprints")
	}
	b.AlarmAcknowledged = true
	if a.Fingerprint() == b.Fingerprint() {
		t.Errorf("Expected different fingerprints for states that differ in AlarmAcknowledged")
	}
	c := Init()
	c.PendingBolus, c.DeliveredAmount = 10, 0
	d := Init()
	d.PendingBolus, d.DeliveredAmount = 0, 10
	if c.Fingerprint() == d.Fingerprint() {
		t.Errorf("Expected fingerprints to depend on field position")
	}
}

func TestStateString(t *testing.T) {
	out := Init().String()
	for _, want := range []string{"mode:                  Idle", "reservoir_level:       200.00 units", "alarm_condition:       NoAlarm"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected state dump to contain %q. Got:\n%v", want, out)
		}
	}
}

func TestParseNames(t *testing.T) {
	for m := Idle; m <= AlarmActive; m++ {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("Mode %v: got %v, %v", m, got, err)
		}
	}
	for d := NoDelivery; d <= BolusDelivery; d++ {
		got, err := ParseDeliveryType(d.String())
		if err != nil || got != d {
			t.Errorf("DeliveryType %v: got %v, %v", d, got, err)
		}
	}
	for a := NoAlarm; a <= MaxDoseExceeded; a++ {
		got, err := ParseAlarmCondition(a.String())
		if err != nil || got != a {
			t.Errorf("AlarmCondition %v: got %v, %v", a, got, err)
		}
	}
	if _, err := ParseMode("Sleeping"); !errors.Is(err, ErrUnknownName) {
		t.Errorf("Expected ErrUnknownName. Got %v", err)
	}
}
