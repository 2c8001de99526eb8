// Package transition holds the pure, guarded state transitions of the pump.
//
// Every transition maps a pump.State (and, for parameterized actions, one
// value) to a pump.Result. A transition whose guard does not hold is not an
// error: it returns Success false together with the unchanged input state.
package transition

import "pumpmc/pump"

// Severity classifies an alarm condition.
func Severity(c pump.AlarmCondition) pump.AlarmSeverity {
	switch c {
	case pump.NoAlarm, pump.LowReservoir:
		return pump.Advisory
	case pump.HighGlucose, pump.LowGlucose:
		return pump.Alert
	default:
		// EmptyReservoir, Occlusion, HardwareFault, MaxDoseExceeded
		return pump.Critical
	}
}

func IsCriticalAlarm(c pump.AlarmCondition) bool {
	return Severity(c) == pump.Critical
}

// DetectAlarm diagnoses the most important condition present in s.
//
// Conditions are checked in priority order and only the first match is reported:
// empty reservoir, critically low glucose, critically high glucose, low reservoir.
func DetectAlarm(s pump.State) pump.AlarmCondition {
	switch {
	case s.ReservoirLevel <= 0:
		return pump.EmptyReservoir
	case s.GlucoseLevel <= pump.GlucoseCriticalLow:
		return pump.LowGlucose
	case s.GlucoseLevel >= pump.GlucoseCriticalHigh:
		return pump.HighGlucose
	case s.ReservoirLevel <= pump.LowReservoirThreshold:
		return pump.LowReservoir
	default:
		return pump.NoAlarm
	}
}
