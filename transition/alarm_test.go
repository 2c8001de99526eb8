package transition

import (
	"testing"

	"pumpmc/pump"
)

func TestSeverity(t *testing.T) {
	for i, test := range severityTest {
		if got := Severity(test.condition); got != test.expected {
			t.Errorf("Unexpected severity in test %v for %v. Got %v, expected %v", i, test.condition, got, test.expected)
		}
		if got := IsCriticalAlarm(test.condition); got != (test.expected == pump.Critical) {
			t.Errorf("Unexpected IsCriticalAlarm in test %v for %v. Got %v", i, test.condition, got)
		}
	}
}

func TestDetectAlarm(t *testing.T) {
	for i, test := range detectAlarmTest {
		s := pump.Init()
		s.GlucoseLevel = test.glucose
		s.ReservoirLevel = test.reservoir
		if got := DetectAlarm(s); got != test.expected {
			t.Errorf("Unexpected alarm in test %v. Got %v, expected %v", i, got, test.expected)
		}
	}
}

func TestCorrectionBolus(t *testing.T) {
	for i, test := range correctionBolusTest {
		if got := CorrectionBolus(test.glucose); got != test.expected {
			t.Errorf("Unexpected correction bolus in test %v for glucose %v. Got %d, expected %d", i, test.glucose, got, test.expected)
		}
	}
}

func TestIsBolusAllowed(t *testing.T) {
	for i, test := range bolusAllowedTest {
		s := pump.Init()
		s.Mode = pump.Monitoring
		s.ReservoirLevel = test.reservoir
		s.TotalDeliveredToday = test.deliveredToday
		got := IsBolusAllowed(s, test.amount)
		if got != test.expected {
			t.Errorf("Unexpected bolus check in test %v. Got %+v, expected %+v", i, got, test.expected)
		}
		if got.Allowed != (got.Reason == pump.NoAlarm) {
			t.Errorf("Reason must be NoAlarm iff the bolus is allowed in test %v. Got %+v", i, got)
		}
	}
}

var severityTest = []struct {
	condition pump.AlarmCondition
	expected  pump.AlarmSeverity
}{
	{pump.NoAlarm, pump.Advisory},
	{pump.LowReservoir, pump.Advisory},
	{pump.HighGlucose, pump.Alert},
	{pump.LowGlucose, pump.Alert},
	{pump.EmptyReservoir, pump.Critical},
	{pump.Occlusion, pump.Critical},
	{pump.HardwareFault, pump.Critical},
	{pump.MaxDoseExceeded, pump.Critical},
}

var detectAlarmTest = []struct {
	glucose   pump.GlucoseLevel
	reservoir pump.Units
	expected  pump.AlarmCondition
}{
	{120, pump.InitialReservoir, pump.NoAlarm},
	{120, 400, pump.LowReservoir},
	{120, 500, pump.LowReservoir},
	{120, 501, pump.NoAlarm},
	{120, 0, pump.EmptyReservoir},
	{120, -10, pump.EmptyReservoir},
	{50, pump.InitialReservoir, pump.LowGlucose},
	{54, pump.InitialReservoir, pump.LowGlucose},
	{55, pump.InitialReservoir, pump.NoAlarm},
	{350, pump.InitialReservoir, pump.HighGlucose},
	{300, pump.InitialReservoir, pump.HighGlucose},
	{299, pump.InitialReservoir, pump.NoAlarm},
	// Priority: empty reservoir beats glucose, glucose beats low reservoir
	{40, 0, pump.EmptyReservoir},
	{40, 400, pump.LowGlucose},
	{350, 400, pump.HighGlucose},
}

var correctionBolusTest = []struct {
	glucose  pump.GlucoseLevel
	expected pump.Units
}{
	{100, 0},
	{120, 0},
	{121, 2},
	{170, 100},
	{220, 200},
	{350, 460},
}

var bolusAllowedTest = []struct {
	reservoir      pump.Units
	deliveredToday pump.Units
	amount         pump.Units
	expected       pump.BolusCheck
}{
	{pump.InitialReservoir, 0, 100, pump.BolusCheck{Allowed: true, Reason: pump.NoAlarm}},
	{pump.InitialReservoir, 0, 2500, pump.BolusCheck{Allowed: true, Reason: pump.NoAlarm}},
	{pump.InitialReservoir, 0, 3000, pump.BolusCheck{Allowed: false, Reason: pump.MaxDoseExceeded}},
	{50, 0, 100, pump.BolusCheck{Allowed: false, Reason: pump.EmptyReservoir}},
	{100, 0, 100, pump.BolusCheck{Allowed: true, Reason: pump.NoAlarm}},
	{pump.InitialReservoir, 9900, 200, pump.BolusCheck{Allowed: false, Reason: pump.MaxDoseExceeded}},
	{pump.InitialReservoir, 9900, 100, pump.BolusCheck{Allowed: true, Reason: pump.NoAlarm}},
	// The single bolus limit is checked before the reservoir
	{50, 0, 3000, pump.BolusCheck{Allowed: false, Reason: pump.MaxDoseExceeded}},
	// The reservoir is checked before the daily limit
	{50, 9990, 100, pump.BolusCheck{Allowed: false, Reason: pump.EmptyReservoir}},
}
