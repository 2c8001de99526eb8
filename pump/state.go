package pump

import (
	"fmt"
	"strings"

	"github.com/segmentio/fasthash/fnv1a"
)

// The state of the pump at one point of a trace.
//
// State is a plain value. Transitions copy it and override fields, so a State
// can be shared freely between traces and compared with ==.
type State struct {
	Mode                Mode
	GlucoseLevel        GlucoseLevel
	ReservoirLevel      Units
	CurrentDelivery     DeliveryType
	DeliveredAmount     Units
	PendingBolus        Units
	BasalRate           Units
	AlarmCondition      AlarmCondition
	AlarmAcknowledged   bool
	TotalDeliveredToday Units
}

// Init returns the state the pump starts in: idle, on target, with a full reservoir.
func Init() State {
	return State{
		Mode:            Idle,
		GlucoseLevel:    GlucoseTarget,
		ReservoirLevel:  InitialReservoir,
		CurrentDelivery: NoDelivery,
		AlarmCondition:  NoAlarm,
	}
}

// Fingerprint hashes every field of the state.
// Equal states always have equal fingerprints.
func (s State) Fingerprint() uint64 {
	h := fnv1a.Init64
	h = fnv1a.AddUint64(h, uint64(s.Mode))
	h = fnv1a.AddUint64(h, uint64(s.GlucoseLevel))
	h = fnv1a.AddUint64(h, uint64(s.ReservoirLevel))
	h = fnv1a.AddUint64(h, uint64(s.CurrentDelivery))
	h = fnv1a.AddUint64(h, uint64(s.DeliveredAmount))
	h = fnv1a.AddUint64(h, uint64(s.PendingBolus))
	h = fnv1a.AddUint64(h, uint64(s.BasalRate))
	h = fnv1a.AddUint64(h, uint64(s.AlarmCondition))
	if s.AlarmAcknowledged {
		h = fnv1a.AddUint64(h, 1)
	} else {
		h = fnv1a.AddUint64(h, 0)
	}
	return fnv1a.AddUint64(h, uint64(s.TotalDeliveredToday))
}

func (u Units) String() string {
	return fmt.Sprintf("%.2f", float64(u)/100)
}

// String renders a field-by-field dump of the state, one field per line.
func (s State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "  mode:                  %v\n", s.Mode)
	fmt.Fprintf(&b, "  glucose_level:         %d mg/dL\n", s.GlucoseLevel)
	fmt.Fprintf(&b, "  reservoir_level:       %v units\n", s.ReservoirLevel)
	fmt.Fprintf(&b, "  current_delivery:      %v\n", s.CurrentDelivery)
	fmt.Fprintf(&b, "  delivered_amount:      %v units\n", s.DeliveredAmount)
	fmt.Fprintf(&b, "  pending_bolus:         %v units\n", s.PendingBolus)
	fmt.Fprintf(&b, "  basal_rate:            %v units/step\n", s.BasalRate)
	fmt.Fprintf(&b, "  alarm_condition:       %v\n", s.AlarmCondition)
	fmt.Fprintf(&b, "  alarm_acknowledged:    %v\n", s.AlarmAcknowledged)
	fmt.Fprintf(&b, "  total_delivered_today: %v units", s.TotalDeliveredToday)
	return b.String()
}
