package oracle

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"pumpmc/explorer"
	"pumpmc/pump"
	"pumpmc/replay"
	"pumpmc/simulator"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"google.golang.org/protobuf/types/known/structpb"
)

var ErrMalformed = errors.New("oracle: malformed message")

// State field names, in the order they are encoded.
var stateFields = []string{
	"mode",
	"glucose_level",
	"reservoir_level",
	"current_delivery",
	"delivered_amount",
	"pending_bolus",
	"basal_rate",
	"alarm_condition",
	"alarm_acknowledged",
	"total_delivered_today",
}

func number(n int64) *structpb.Value {
	return structpb.NewNumberValue(float64(n))
}

func EncodeState(s pump.State) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"mode":                  structpb.NewStringValue(s.Mode.String()),
		"glucose_level":         number(int64(s.GlucoseLevel)),
		"reservoir_level":       number(int64(s.ReservoirLevel)),
		"current_delivery":      structpb.NewStringValue(s.CurrentDelivery.String()),
		"delivered_amount":      number(int64(s.DeliveredAmount)),
		"pending_bolus":         number(int64(s.PendingBolus)),
		"basal_rate":            number(int64(s.BasalRate)),
		"alarm_condition":       structpb.NewStringValue(s.AlarmCondition.String()),
		"alarm_acknowledged":    structpb.NewBoolValue(s.AlarmAcknowledged),
		"total_delivered_today": number(int64(s.TotalDeliveredToday)),
	}}
}

// DecodeState is the inverse of EncodeState. Every field must be present and no other.
func DecodeState(msg *structpb.Struct) (pump.State, error) {
	fields := msg.GetFields()
	keys := maps.Keys(fields)
	slices.Sort(keys)
	for _, k := range keys {
		if !slices.Contains(stateFields, k) {
			return pump.State{}, fmt.Errorf("%w: unknown state field %q", ErrMalformed, k)
		}
	}

	d := decoder{fields: fields}
	mode, delivery, alarm := d.str("mode"), d.str("current_delivery"), d.str("alarm_condition")
	s := pump.State{
		GlucoseLevel:        pump.GlucoseLevel(d.integer("glucose_level")),
		ReservoirLevel:      pump.Units(d.integer("reservoir_level")),
		DeliveredAmount:     pump.Units(d.integer("delivered_amount")),
		PendingBolus:        pump.Units(d.integer("pending_bolus")),
		BasalRate:           pump.Units(d.integer("basal_rate")),
		AlarmAcknowledged:   d.boolean("alarm_acknowledged"),
		TotalDeliveredToday: pump.Units(d.integer("total_delivered_today")),
	}
	if d.err != nil {
		return pump.State{}, d.err
	}
	var err error
	if s.Mode, err = pump.ParseMode(mode); err != nil {
		return pump.State{}, err
	}
	if s.CurrentDelivery, err = pump.ParseDeliveryType(delivery); err != nil {
		return pump.State{}, err
	}
	if s.AlarmCondition, err = pump.ParseAlarmCondition(alarm); err != nil {
		return pump.State{}, err
	}
	return s, nil
}

// Collects the first error while reading fields of a struct.
type decoder struct {
	fields map[string]*structpb.Value
	err    error
}

func (d *decoder) get(key string, optional bool) *structpb.Value {
	v, ok := d.fields[key]
	if !ok && !optional && d.err == nil {
		d.err = fmt.Errorf("%w: missing field %q", ErrMalformed, key)
	}
	return v
}

func (d *decoder) fail(key, want string) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: field %q is not %v", ErrMalformed, key, want)
	}
}

func (d *decoder) integer(key string) int64 {
	return d.optionalInteger(key, 0, false)
}

func (d *decoder) optionalInteger(key string, def int64, optional bool) int64 {
	v := d.get(key, optional)
	if v == nil {
		return def
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) >= math.MaxInt64 {
		d.fail(key, "an integer")
		return 0
	}
	return int64(n.NumberValue)
}

// bigInteger reads an int64 that may exceed the exact range of a float64.
// It is encoded as a decimal string; plain numbers are accepted as well.
func (d *decoder) bigInteger(key string, def int64, optional bool) int64 {
	v := d.get(key, optional)
	if v == nil {
		return def
	}
	if s, ok := v.GetKind().(*structpb.Value_StringValue); ok {
		n, err := strconv.ParseInt(s.StringValue, 10, 64)
		if err != nil {
			d.fail(key, "an integer")
			return 0
		}
		return n
	}
	return d.optionalInteger(key, def, optional)
}

func bigNumber(n int64) *structpb.Value {
	return structpb.NewStringValue(strconv.FormatInt(n, 10))
}

func (d *decoder) boolean(key string) bool {
	v := d.get(key, false)
	if v == nil {
		return false
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		d.fail(key, "a bool")
		return false
	}
	return b.BoolValue
}

func (d *decoder) str(key string) string {
	v := d.get(key, false)
	if v == nil {
		return ""
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		d.fail(key, "a string")
		return ""
	}
	return s.StringValue
}

func (d *decoder) list(key string, optional bool) []*structpb.Value {
	v := d.get(key, optional)
	if v == nil {
		return nil
	}
	l, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		d.fail(key, "a list")
		return nil
	}
	return l.ListValue.GetValues()
}

func EncodeLabels(labels []pump.Label) *structpb.Value {
	values := make([]*structpb.Value, len(labels))
	for i, l := range labels {
		values[i] = structpb.NewStringValue(l.String())
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

func DecodeLabels(values []*structpb.Value) ([]pump.Label, error) {
	labels := make([]pump.Label, len(values))
	for i, v := range values {
		text, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%w: label %v is not a string", ErrMalformed, i)
		}
		l, err := pump.ParseLabel(text.StringValue)
		if err != nil {
			return nil, err
		}
		labels[i] = l
	}
	return labels, nil
}

func encodeSteps(steps []replay.Step) *structpb.Value {
	values := make([]*structpb.Value, len(steps))
	for i, step := range steps {
		values[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"label": structpb.NewStringValue(step.Label.String()),
			"state": structpb.NewStructValue(EncodeState(step.State)),
		}})
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

// decodeSteps reads a list of {label, state} structs. Used both for replay
// results and for traces of expected states.
func decodeSteps(values []*structpb.Value) ([]replay.OracleStep, error) {
	steps := make([]replay.OracleStep, len(values))
	for i, v := range values {
		fields := v.GetStructValue().GetFields()
		label, err := pump.ParseLabel(fields["label"].GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("step %v: %w", i, err)
		}
		s, err := DecodeState(fields["state"].GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("step %v: %w", i, err)
		}
		steps[i] = replay.OracleStep{Label: label, Expected: s}
	}
	return steps, nil
}

// The outcome of a remote simulation.
type SimulationSummary struct {
	RunID      string
	Seed       int64
	MaxSteps   int
	MaxSamples int
	Traces     int
	ElapsedMs  int64
	Invariants []string

	// Empty if no invariant was violated
	Violation string
	Trace     int
	Step      int
	State     pump.State
	Witness   []pump.Label
}

func (s SimulationSummary) Ok() bool {
	return s.Violation == ""
}

func encodeReport(r simulator.Report) *structpb.Struct {
	invariants := make([]*structpb.Value, len(r.Invariants))
	for i, name := range r.Invariants {
		invariants[i] = structpb.NewStringValue(name)
	}
	fields := map[string]*structpb.Value{
		"run_id":      structpb.NewStringValue(r.RunID.String()),
		"seed":        bigNumber(r.Seed),
		"max_steps":   number(int64(r.MaxSteps)),
		"max_samples": number(int64(r.MaxSamples)),
		"traces":      number(int64(r.Traces)),
		"elapsed_ms":  number(r.Elapsed.Milliseconds()),
		"invariants":  structpb.NewListValue(&structpb.ListValue{Values: invariants}),
	}
	if v := r.Violation; v != nil {
		fields["violation"] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"invariant": structpb.NewStringValue(v.Invariant),
			"trace":     number(int64(v.Trace)),
			"step":      number(int64(v.Step)),
			"state":     structpb.NewStructValue(EncodeState(v.State)),
			"witness":   EncodeLabels(v.Export()),
		}})
	}
	return &structpb.Struct{Fields: fields}
}

func decodeReport(msg *structpb.Struct) (SimulationSummary, error) {
	d := decoder{fields: msg.GetFields()}
	summary := SimulationSummary{
		RunID:      d.str("run_id"),
		Seed:       d.bigInteger("seed", 0, false),
		MaxSteps:   int(d.integer("max_steps")),
		MaxSamples: int(d.integer("max_samples")),
		Traces:     int(d.integer("traces")),
		ElapsedMs:  d.integer("elapsed_ms"),
	}
	for _, v := range d.list("invariants", false) {
		summary.Invariants = append(summary.Invariants, v.GetStringValue())
	}
	if d.err != nil {
		return SimulationSummary{}, d.err
	}
	v, err := decodeViolation(msg)
	if err != nil {
		return SimulationSummary{}, err
	}
	summary.Violation, summary.Trace, summary.Step, summary.State, summary.Witness = v.invariant, v.trace, v.step, v.state, v.witness
	return summary, nil
}

type violation struct {
	invariant   string
	trace, step int
	state       pump.State
	witness     []pump.Label
}

// decodeViolation reads the optional "violation" field of msg.
// Returns the zero violation if it is absent.
func decodeViolation(msg *structpb.Struct) (violation, error) {
	fields := msg.GetFields()["violation"].GetStructValue().GetFields()
	if fields == nil {
		return violation{}, nil
	}
	d := decoder{fields: fields}
	v := violation{
		invariant: d.str("invariant"),
		trace:     int(d.optionalInteger("trace", 0, true)),
		step:      int(d.optionalInteger("step", 0, true)),
	}
	labels := d.list("witness", false)
	if d.err != nil {
		return violation{}, d.err
	}
	var err error
	if v.witness, err = DecodeLabels(labels); err != nil {
		return violation{}, err
	}
	if v.state, err = DecodeState(fields["state"].GetStructValue()); err != nil {
		return violation{}, err
	}
	return v, nil
}

// The outcome of a remote exploration.
type ExploreSummary struct {
	MaxDepth    int
	States      int
	Transitions int

	// Empty if no invariant was violated
	Violation string
	State     pump.State
	Witness   []pump.Label
}

func (s ExploreSummary) Ok() bool {
	return s.Violation == ""
}

func encodeExplore(r explorer.Result) *structpb.Struct {
	fields := map[string]*structpb.Value{
		"max_depth":   number(int64(r.MaxDepth)),
		"states":      number(int64(r.States)),
		"transitions": number(int64(r.Transitions)),
	}
	if !r.Ok() {
		fields["violation"] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"invariant": structpb.NewStringValue(r.Violation),
			"state":     structpb.NewStructValue(EncodeState(r.State)),
			"witness":   EncodeLabels(r.Witness),
		}})
	}
	return &structpb.Struct{Fields: fields}
}

func decodeExplore(msg *structpb.Struct) (ExploreSummary, error) {
	d := decoder{fields: msg.GetFields()}
	summary := ExploreSummary{
		MaxDepth:    int(d.integer("max_depth")),
		States:      int(d.integer("states")),
		Transitions: int(d.integer("transitions")),
	}
	if d.err != nil {
		return ExploreSummary{}, d.err
	}
	v, err := decodeViolation(msg)
	if err != nil {
		return ExploreSummary{}, err
	}
	summary.Violation, summary.State, summary.Witness = v.invariant, v.state, v.witness
	return summary, nil
}
