package transition

import "pumpmc/pump"

func ok(s pump.State) pump.Result {
	return pump.Result{Success: true, NewState: s}
}

func disabled(s pump.State) pump.Result {
	return pump.Result{Success: false, NewState: s}
}

// raiseAlarm puts the pump into AlarmActive for condition c.
// Delivery is left untouched; callers that must stop it do so explicitly.
func raiseAlarm(s pump.State, c pump.AlarmCondition) pump.State {
	s.Mode = pump.AlarmActive
	s.AlarmCondition = c
	s.AlarmAcknowledged = false
	return s
}

func StartMonitoring(s pump.State) pump.Result {
	if s.Mode != pump.Idle {
		return disabled(s)
	}
	s.Mode = pump.Monitoring
	return ok(s)
}

// ProcessGlucose records a new reading and diagnoses the updated state.
//
// A critical diagnosis stops all delivery and raises the alarm; any other
// diagnosis only sets the alarm condition, and a clean diagnosis clears it.
func ProcessGlucose(s pump.State, reading pump.GlucoseLevel) pump.Result {
	if s.Mode != pump.Monitoring && s.Mode != pump.Delivering {
		return disabled(s)
	}
	s.GlucoseLevel = reading
	alarm := DetectAlarm(s)
	switch {
	case IsCriticalAlarm(alarm):
		s = raiseAlarm(s, alarm)
		s.CurrentDelivery = pump.NoDelivery
		s.PendingBolus = 0
	case alarm != pump.NoAlarm:
		s.AlarmCondition = alarm
	default:
		s.AlarmCondition = pump.NoAlarm
	}
	return ok(s)
}

// RequestBolus asks for a bolus of amount. A rejected request is still a
// successful transition: it raises the alarm named by the safety check.
func RequestBolus(s pump.State, amount pump.Units) pump.Result {
	if s.Mode != pump.Monitoring {
		return disabled(s)
	}
	check := IsBolusAllowed(s, amount)
	if !check.Allowed {
		return ok(raiseAlarm(s, check.Reason))
	}
	s.Mode = pump.CalculatingDose
	s.PendingBolus = amount
	return ok(s)
}

func ConfirmDelivery(s pump.State) pump.Result {
	if s.Mode != pump.CalculatingDose || s.PendingBolus <= 0 {
		return disabled(s)
	}
	s.Mode = pump.Delivering
	s.CurrentDelivery = pump.BolusDelivery
	s.DeliveredAmount = 0
	return ok(s)
}

// DeliverIncrement infuses one fixed increment of the pending bolus.
//
// DeliveredAmount counts only the current bolus and is reset once the bolus
// completes, while TotalDeliveredToday keeps accumulating.
func DeliverIncrement(s pump.State) pump.Result {
	const step = pump.DeliveryIncrement
	if s.Mode != pump.Delivering {
		return disabled(s)
	}
	if s.ReservoirLevel < step {
		s = raiseAlarm(s, pump.EmptyReservoir)
		s.CurrentDelivery = pump.NoDelivery
		return ok(s)
	}

	delivered := s.DeliveredAmount + step
	remaining := s.PendingBolus - delivered
	s.ReservoirLevel -= step
	s.TotalDeliveredToday += step
	if remaining <= 0 {
		s.Mode = pump.Monitoring
		s.CurrentDelivery = pump.NoDelivery
		s.DeliveredAmount = 0
		s.PendingBolus = 0
		return ok(s)
	}
	s.DeliveredAmount = delivered
	return ok(s)
}

func HandleOcclusion(s pump.State) pump.Result {
	if s.Mode != pump.Delivering {
		return disabled(s)
	}
	s = raiseAlarm(s, pump.Occlusion)
	s.CurrentDelivery = pump.NoDelivery
	return ok(s)
}

func CancelDelivery(s pump.State) pump.Result {
	if s.Mode != pump.Delivering && s.Mode != pump.CalculatingDose {
		return disabled(s)
	}
	s.Mode = pump.Monitoring
	s.CurrentDelivery = pump.NoDelivery
	s.PendingBolus = 0
	s.DeliveredAmount = 0
	return ok(s)
}

// AcknowledgeAlarm acknowledges the active alarm.
//
// EmptyReservoir, HardwareFault and Occlusion cannot be resumed from directly:
// the pump is suspended and the condition stays latched until ResumePump.
// Any other condition is cleared and monitoring continues.
func AcknowledgeAlarm(s pump.State) pump.Result {
	if s.Mode != pump.AlarmActive {
		return disabled(s)
	}
	s.AlarmAcknowledged = true
	switch s.AlarmCondition {
	case pump.EmptyReservoir, pump.HardwareFault, pump.Occlusion:
		s.Mode = pump.Suspended
	default:
		s.Mode = pump.Monitoring
		s.AlarmCondition = pump.NoAlarm
	}
	return ok(s)
}

func SuspendPump(s pump.State) pump.Result {
	if s.Mode == pump.Suspended || s.Mode == pump.Idle {
		return disabled(s)
	}
	s.Mode = pump.Suspended
	s.CurrentDelivery = pump.NoDelivery
	s.PendingBolus = 0
	s.DeliveredAmount = 0
	return ok(s)
}

// ResumePump returns a suspended pump to monitoring. An empty reservoir keeps it suspended.
func ResumePump(s pump.State) pump.Result {
	if s.Mode != pump.Suspended || s.ReservoirLevel <= 0 {
		return disabled(s)
	}
	s.Mode = pump.Monitoring
	s.AlarmCondition = pump.NoAlarm
	s.AlarmAcknowledged = false
	return ok(s)
}

// StartBasal configures the basal rate. The mode does not change.
func StartBasal(s pump.State, rate pump.Units) pump.Result {
	if s.Mode != pump.Monitoring {
		return disabled(s)
	}
	s.BasalRate = rate
	return ok(s)
}

// DeliverBasal infuses one step of basal insulin at the configured rate.
// Basal delivery runs while monitoring; the mode does not change.
func DeliverBasal(s pump.State) pump.Result {
	if s.Mode != pump.Monitoring {
		return disabled(s)
	}
	s.CurrentDelivery = pump.BasalDelivery
	s.ReservoirLevel -= s.BasalRate
	s.TotalDeliveredToday += s.BasalRate
	return ok(s)
}

// DetectHardwareFault raises a hardware fault and stops delivery.
// It is not enabled while an alarm is active or the pump is suspended.
func DetectHardwareFault(s pump.State) pump.Result {
	if s.Mode == pump.AlarmActive || s.Mode == pump.Suspended {
		return disabled(s)
	}
	s = raiseAlarm(s, pump.HardwareFault)
	s.CurrentDelivery = pump.NoDelivery
	return ok(s)
}
