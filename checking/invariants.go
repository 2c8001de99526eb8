package checking

import (
	"pumpmc/pump"
	"pumpmc/transition"
)

func noDelivery(s pump.State) bool { return s.CurrentDelivery == pump.NoDelivery }

var (
	ReservoirNonNegative = Invariant{
		Name:  "reservoirNonNegative",
		Holds: func(s pump.State) bool { return s.ReservoirLevel >= 0 },
	}

	BolusWithinLimit = Invariant{
		Name:  "bolusWithinLimit",
		Holds: func(s pump.State) bool { return s.PendingBolus <= pump.MaxSingleBolus },
	}

	DailyDoseWithinLimit = Invariant{
		Name:  "dailyDoseWithinLimit",
		Holds: func(s pump.State) bool { return s.TotalDeliveredToday <= pump.MaxDailyDose },
	}

	// Basal delivery runs while monitoring, so only a bolus requires the Delivering mode.
	DeliveryOnlyWhenDelivering = Invariant{
		Name: "deliveryOnlyWhenDelivering",
		Holds: Implies(
			func(s pump.State) bool { return s.CurrentDelivery == pump.BolusDelivery },
			func(s pump.State) bool { return s.Mode == pump.Delivering },
		),
	}

	CriticalAlarmStopsDelivery = Invariant{
		Name: "criticalAlarmStopsDelivery",
		Holds: Implies(
			func(s pump.State) bool { return transition.IsCriticalAlarm(s.AlarmCondition) },
			noDelivery,
		),
	}

	NoDeliveryWhenEmpty = Invariant{
		Name: "noDeliveryWhenEmpty",
		Holds: Implies(
			func(s pump.State) bool { return s.ReservoirLevel <= 0 },
			noDelivery,
		),
	}
)

// Invariants returns the safety invariants of the pump in reporting order.
func Invariants() []Invariant {
	return []Invariant{
		ReservoirNonNegative,
		BolusWithinLimit,
		DailyDoseWithinLimit,
		DeliveryOnlyWhenDelivering,
		CriticalAlarmStopsDelivery,
		NoDeliveryWhenEmpty,
	}
}
