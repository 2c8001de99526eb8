package replay

import (
	"fmt"

	"pumpmc/pump"
	"pumpmc/transition"

	"github.com/anishathalye/porcupine"
	"go.uber.org/multierr"
)

// A step of a trace produced by the external model: the label it took and
// the state the model reached.
type OracleStep struct {
	Label    pump.Label
	Expected pump.State
}

// A state field on which the implementation and the model disagree.
type MismatchError struct {
	Index int
	Label pump.Label
	Field string
	Got   any
	Want  any
}

func (me *MismatchError) Error() string {
	return fmt.Sprintf("replay: step %v (%v): %v is %v, model has %v", me.Index, me.Label, me.Field, me.Got, me.Want)
}

// CompareOracle replays a trace produced by the external model and compares
// every resulting state with the model's, field by field.
//
// All mismatches are reported, aggregated with multierr. After a mismatching
// step the comparison continues from the model's state, so every step is
// judged on its own. A label that is not enabled is reported as a
// *DiscrepancyError with Kind GuardFailed.
//
// The whole history is also checked as a sequential history with porcupine;
// if it is rejected while no individual step failed, an error is returned.
func CompareOracle(init pump.State, trace []OracleStep) error {
	var err error
	state := init
	for i, step := range trace {
		res := transition.Apply(state, step.Label)
		if !res.Success {
			err = multierr.Append(err, &DiscrepancyError{
				Kind:   GuardFailed,
				Index:  i,
				Label:  step.Label,
				Before: state,
				After:  state,
			})
		} else {
			err = multierr.Append(err, diff(i, step.Label, res.NewState, step.Expected))
		}
		state = step.Expected
	}

	if err == nil && !Accepts(init, trace) {
		err = fmt.Errorf("replay: history of %v steps rejected by the pump model", len(trace))
	}
	return err
}

func diff(index int, label pump.Label, got, want pump.State) error {
	var err error
	check := func(field string, g, w any) {
		if g != w {
			err = multierr.Append(err, &MismatchError{Index: index, Label: label, Field: field, Got: g, Want: w})
		}
	}
	check("mode", got.Mode, want.Mode)
	check("glucose_level", got.GlucoseLevel, want.GlucoseLevel)
	check("reservoir_level", got.ReservoirLevel, want.ReservoirLevel)
	check("current_delivery", got.CurrentDelivery, want.CurrentDelivery)
	check("delivered_amount", got.DeliveredAmount, want.DeliveredAmount)
	check("pending_bolus", got.PendingBolus, want.PendingBolus)
	check("basal_rate", got.BasalRate, want.BasalRate)
	check("alarm_condition", got.AlarmCondition, want.AlarmCondition)
	check("alarm_acknowledged", got.AlarmAcknowledged, want.AlarmAcknowledged)
	check("total_delivered_today", got.TotalDeliveredToday, want.TotalDeliveredToday)
	return err
}

// Model returns a porcupine model of the pump starting from init.
// The input of an operation is a pump.Label and the output the resulting pump.State.
func Model(init pump.State) porcupine.Model {
	return porcupine.Model{
		Init: func() interface{} {
			return init
		},
		Step: func(state, input, output interface{}) (bool, interface{}) {
			s := state.(pump.State)
			res := transition.Apply(s, input.(pump.Label))
			if !res.Success {
				return false, s
			}
			return res.NewState == output.(pump.State), res.NewState
		},
		DescribeOperation: func(input, output interface{}) string {
			return input.(pump.Label).String()
		},
		DescribeState: func(state interface{}) string {
			return state.(pump.State).String()
		},
	}
}

// History converts the trace into a sequential porcupine history of a single client.
func History(trace []OracleStep) []porcupine.Operation {
	ops := make([]porcupine.Operation, len(trace))
	for i, step := range trace {
		ops[i] = porcupine.Operation{
			ClientId: 0,
			Input:    step.Label,
			Call:     int64(2 * i),
			Output:   step.Expected,
			Return:   int64(2*i + 1),
		}
	}
	return ops
}

// Accepts returns true if the pump model can produce the trace from init.
func Accepts(init pump.State, trace []OracleStep) bool {
	return porcupine.CheckOperations(Model(init), History(trace))
}
