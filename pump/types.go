package pump

import (
	"errors"
	"fmt"
)

// Glucose reading in mg/dL.
type GlucoseLevel int64

// Insulin quantity in hundredths of a unit, e.g. 150 is 1.50 units.
type Units int64

// Coarse operating phase of the pump.
type Mode int

const (
	Idle Mode = iota
	Monitoring
	CalculatingDose
	Delivering
	Suspended
	AlarmActive
)

var modeNames = [...]string{"Idle", "Monitoring", "CalculatingDose", "Delivering", "Suspended", "AlarmActive"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// What is currently being infused.
type DeliveryType int

const (
	NoDelivery DeliveryType = iota
	BasalDelivery
	BolusDelivery
)

var deliveryNames = [...]string{"NoDelivery", "BasalDelivery", "BolusDelivery"}

func (d DeliveryType) String() string {
	if d < 0 || int(d) >= len(deliveryNames) {
		return fmt.Sprintf("DeliveryType(%d)", int(d))
	}
	return deliveryNames[d]
}

// A diagnosed alarm condition.
type AlarmCondition int

const (
	NoAlarm AlarmCondition = iota
	LowReservoir
	EmptyReservoir
	Occlusion
	HighGlucose
	LowGlucose
	HardwareFault
	MaxDoseExceeded
)

var alarmNames = [...]string{
	"NoAlarm", "LowReservoir", "EmptyReservoir", "Occlusion",
	"HighGlucose", "LowGlucose", "HardwareFault", "MaxDoseExceeded",
}

func (a AlarmCondition) String() string {
	if a < 0 || int(a) >= len(alarmNames) {
		return fmt.Sprintf("AlarmCondition(%d)", int(a))
	}
	return alarmNames[a]
}

// Severity class of an alarm condition.
type AlarmSeverity int

const (
	Advisory AlarmSeverity = iota
	Alert
	Critical
)

var severityNames = [...]string{"Advisory", "Alert", "Critical"}

func (s AlarmSeverity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("AlarmSeverity(%d)", int(s))
	}
	return severityNames[s]
}

// The outcome of applying a transition.
//
// When Success is false the transition was not enabled and NewState equals the input state.
type Result struct {
	Success  bool
	NewState State
}

// The outcome of the pre-delivery bolus safety check.
// Reason is NoAlarm if and only if Allowed is true.
type BolusCheck struct {
	Allowed bool
	Reason  AlarmCondition
}

var ErrUnknownName = errors.New("pump: unknown name")

func parseName(names []string, kind, s string) (int, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %v %q", ErrUnknownName, kind, s)
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	i, err := parseName(modeNames[:], "mode", s)
	return Mode(i), err
}

func ParseDeliveryType(s string) (DeliveryType, error) {
	i, err := parseName(deliveryNames[:], "delivery type", s)
	return DeliveryType(i), err
}

func ParseAlarmCondition(s string) (AlarmCondition, error) {
	i, err := parseName(alarmNames[:], "alarm condition", s)
	return AlarmCondition(i), err
}
