package transition

import "pumpmc/pump"

// Actions lists every action a step may choose from, in a fixed order.
// Callers must not modify it.
var Actions = []pump.Action{
	pump.StartMonitoring,
	pump.ProcessGlucose,
	pump.RequestBolus,
	pump.ConfirmDelivery,
	pump.DeliverIncrement,
	pump.HandleOcclusion,
	pump.CancelDelivery,
	pump.AcknowledgeAlarm,
	pump.SuspendPump,
	pump.ResumePump,
	pump.StartBasal,
	pump.DeliverBasal,
	pump.DetectHardwareFault,
}

// Candidates returns the parameter values a parameterized action is chosen from.
// Returns nil for actions without parameters.
func Candidates(a pump.Action) []int64 {
	switch a {
	case pump.ProcessGlucose:
		out := make([]int64, len(pump.GlucoseReadings))
		for i, r := range pump.GlucoseReadings {
			out[i] = int64(r)
		}
		return out
	case pump.RequestBolus:
		return unitsToInt64(pump.BolusAmounts)
	case pump.StartBasal:
		return unitsToInt64(pump.BasalRates)
	default:
		return nil
	}
}

func unitsToInt64(units []pump.Units) []int64 {
	out := make([]int64, len(units))
	for i, u := range units {
		out[i] = int64(u)
	}
	return out
}

// Apply performs the transition named by label using the parameter embedded in it.
//
// NoAction always succeeds and leaves the state unchanged.
// A label with an unknown action is treated as not enabled.
func Apply(s pump.State, label pump.Label) pump.Result {
	switch label.Action {
	case pump.NoAction:
		return ok(s)
	case pump.StartMonitoring:
		return StartMonitoring(s)
	case pump.ProcessGlucose:
		return ProcessGlucose(s, label.Reading)
	case pump.RequestBolus:
		return RequestBolus(s, label.Amount)
	case pump.ConfirmDelivery:
		return ConfirmDelivery(s)
	case pump.DeliverIncrement:
		return DeliverIncrement(s)
	case pump.HandleOcclusion:
		return HandleOcclusion(s)
	case pump.CancelDelivery:
		return CancelDelivery(s)
	case pump.AcknowledgeAlarm:
		return AcknowledgeAlarm(s)
	case pump.SuspendPump:
		return SuspendPump(s)
	case pump.ResumePump:
		return ResumePump(s)
	case pump.StartBasal:
		return StartBasal(s, label.Rate)
	case pump.DeliverBasal:
		return DeliverBasal(s)
	case pump.DetectHardwareFault:
		return DetectHardwareFault(s)
	default:
		return disabled(s)
	}
}

// A labelled successor of a state.
type Successor struct {
	Label pump.Label
	State pump.State
}

// Enabled returns every successor of s, expanding parameterized actions over
// all of their candidate values. The order follows Actions and then the
// candidate order.
func Enabled(s pump.State) []Successor {
	out := []Successor{}
	for _, a := range Actions {
		labels := []pump.Label{pump.Plain(a)}
		if a.Parameterized() {
			labels = labels[:0]
			for _, p := range Candidates(a) {
				labels = append(labels, pump.WithParam(a, p))
			}
		}
		for _, l := range labels {
			if res := Apply(s, l); res.Success {
				out = append(out, Successor{Label: l, State: res.NewState})
			}
		}
	}
	return out
}
