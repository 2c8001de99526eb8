package pump

// Glucose thresholds (mg/dL)
const (
	GlucoseLow          GlucoseLevel = 70
	GlucoseHigh         GlucoseLevel = 180
	GlucoseCriticalLow  GlucoseLevel = 54
	GlucoseCriticalHigh GlucoseLevel = 300
	GlucoseTarget       GlucoseLevel = 120
)

// Insulin limits, in hundredths of a unit
const (
	MaxSingleBolus        Units = 2500  // 25.00 units
	MaxDailyDose          Units = 10000 // 100.00 units
	LowReservoirThreshold Units = 500   // 5.00 units
	InitialReservoir      Units = 20000 // 200.00 units, a full cartridge

	// Amount infused by a single DeliverIncrement.
	DeliveryIncrement Units = 10
)

// Candidate values for the nondeterministically chosen parameters.
// Callers must not modify them.
var (
	BasalRates      = []Units{10, 25, 50, 75, 100}
	BolusAmounts    = []Units{50, 100, 200, 500, 1000, 2000, 2500, 3000}
	GlucoseReadings = []GlucoseLevel{40, 54, 70, 100, 120, 150, 180, 250, 300, 350}
)
