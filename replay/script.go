package replay

import (
	"encoding/json"
	"fmt"
	"io"

	"pumpmc/pump"
)

// A trace supplied by the external tool.
//
// Labels use the textual label form, e.g. "RequestBolus(50)". Expected, if
// present, holds the state the model reached after each label.
type Script struct {
	Labels   []pump.Label
	Expected []pump.State
}

type scriptFile struct {
	Labels   []string        `json:"labels"`
	Expected []expectedState `json:"expected,omitempty"`
}

type expectedState struct {
	Mode                string `json:"mode"`
	GlucoseLevel        int64  `json:"glucose_level"`
	ReservoirLevel      int64  `json:"reservoir_level"`
	CurrentDelivery     string `json:"current_delivery"`
	DeliveredAmount     int64  `json:"delivered_amount"`
	PendingBolus        int64  `json:"pending_bolus"`
	BasalRate           int64  `json:"basal_rate"`
	AlarmCondition      string `json:"alarm_condition"`
	AlarmAcknowledged   bool   `json:"alarm_acknowledged"`
	TotalDeliveredToday int64  `json:"total_delivered_today"`
}

// LoadScript reads a JSON script of the form
//
//	{"labels": ["StartMonitoring", "RequestBolus(50)"], "expected": [{...}, {...}]}
//
// Amounts are in hundredths of a unit.
func LoadScript(r io.Reader) (Script, error) {
	var file scriptFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return Script{}, fmt.Errorf("replay: decoding script: %w", err)
	}

	script := Script{Labels: make([]pump.Label, len(file.Labels))}
	for i, text := range file.Labels {
		label, err := pump.ParseLabel(text)
		if err != nil {
			return Script{}, fmt.Errorf("replay: label %v: %w", i, err)
		}
		script.Labels[i] = label
	}

	if len(file.Expected) == 0 {
		return script, nil
	}
	if len(file.Expected) != len(file.Labels) {
		return Script{}, fmt.Errorf("replay: script has %v labels but %v expected states", len(file.Labels), len(file.Expected))
	}
	script.Expected = make([]pump.State, len(file.Expected))
	for i, e := range file.Expected {
		s, err := e.state()
		if err != nil {
			return Script{}, fmt.Errorf("replay: expected state %v: %w", i, err)
		}
		script.Expected[i] = s
	}
	return script, nil
}

// OracleSteps pairs every label with its expected state.
// Returns nil if the script carries no expected states.
func (s Script) OracleSteps() []OracleStep {
	if len(s.Expected) == 0 {
		return nil
	}
	steps := make([]OracleStep, len(s.Labels))
	for i := range s.Labels {
		steps[i] = OracleStep{Label: s.Labels[i], Expected: s.Expected[i]}
	}
	return steps
}

func (e expectedState) state() (pump.State, error) {
	mode, err := pump.ParseMode(e.Mode)
	if err != nil {
		return pump.State{}, err
	}
	delivery, err := pump.ParseDeliveryType(e.CurrentDelivery)
	if err != nil {
		return pump.State{}, err
	}
	alarm, err := pump.ParseAlarmCondition(e.AlarmCondition)
	if err != nil {
		return pump.State{}, err
	}
	return pump.State{
		Mode:                mode,
		GlucoseLevel:        pump.GlucoseLevel(e.GlucoseLevel),
		ReservoirLevel:      pump.Units(e.ReservoirLevel),
		CurrentDelivery:     delivery,
		DeliveredAmount:     pump.Units(e.DeliveredAmount),
		PendingBolus:        pump.Units(e.PendingBolus),
		BasalRate:           pump.Units(e.BasalRate),
		AlarmCondition:      alarm,
		AlarmAcknowledged:   e.AlarmAcknowledged,
		TotalDeliveredToday: pump.Units(e.TotalDeliveredToday),
	}, nil
}
