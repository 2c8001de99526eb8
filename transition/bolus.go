package transition

import "pumpmc/pump"

// CorrectionBolus sizes a correction dose for a glucose reading:
// one hundredth of a unit per 0.5 mg/dL above target, truncated.
func CorrectionBolus(glucose pump.GlucoseLevel) pump.Units {
	if glucose <= pump.GlucoseTarget {
		return 0
	}
	excess := glucose - pump.GlucoseTarget
	return pump.Units((excess * 100) / 50)
}

// IsBolusAllowed runs the pre-delivery safety check for a bolus of amount.
// The first failing condition decides the rejection reason.
func IsBolusAllowed(s pump.State, amount pump.Units) pump.BolusCheck {
	switch {
	case amount > pump.MaxSingleBolus:
		return pump.BolusCheck{Allowed: false, Reason: pump.MaxDoseExceeded}
	case amount > s.ReservoirLevel:
		return pump.BolusCheck{Allowed: false, Reason: pump.EmptyReservoir}
	case s.TotalDeliveredToday+amount > pump.MaxDailyDose:
		return pump.BolusCheck{Allowed: false, Reason: pump.MaxDoseExceeded}
	default:
		return pump.BolusCheck{Allowed: true, Reason: pump.NoAlarm}
	}
}
