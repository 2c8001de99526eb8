package pump

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Identifies which transition a Label refers to.
type Action int

const (
	NoAction Action = iota
	StartMonitoring
	ProcessGlucose
	RequestBolus
	ConfirmDelivery
	DeliverIncrement
	HandleOcclusion
	CancelDelivery
	AcknowledgeAlarm
	SuspendPump
	ResumePump
	StartBasal
	DeliverBasal
	DetectHardwareFault
)

var actionNames = [...]string{
	"NoAction", "StartMonitoring", "ProcessGlucose", "RequestBolus", "ConfirmDelivery",
	"DeliverIncrement", "HandleOcclusion", "CancelDelivery", "AcknowledgeAlarm",
	"SuspendPump", "ResumePump", "StartBasal", "DeliverBasal", "DetectHardwareFault",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Parameterized reports whether the action carries a parameter.
func (a Action) Parameterized() bool {
	return a == ProcessGlucose || a == RequestBolus || a == StartBasal
}

// A transition label with its resolved parameter.
//
// Only the payload field matching Action is meaningful: Reading for
// ProcessGlucose, Amount for RequestBolus and Rate for StartBasal.
// The other fields are always zero, so labels can be compared with ==.
type Label struct {
	Action  Action
	Reading GlucoseLevel
	Amount  Units
	Rate    Units
}

// Plain creates the label of an action without parameters.
func Plain(a Action) Label {
	return Label{Action: a}
}

func ProcessGlucoseLabel(reading GlucoseLevel) Label {
	return Label{Action: ProcessGlucose, Reading: reading}
}

func RequestBolusLabel(amount Units) Label {
	return Label{Action: RequestBolus, Amount: amount}
}

func StartBasalLabel(rate Units) Label {
	return Label{Action: StartBasal, Rate: rate}
}

// WithParam creates a label for a, setting the payload field that a uses.
// The parameter is ignored for actions without parameters.
func WithParam(a Action, param int64) Label {
	switch a {
	case ProcessGlucose:
		return ProcessGlucoseLabel(GlucoseLevel(param))
	case RequestBolus:
		return RequestBolusLabel(Units(param))
	case StartBasal:
		return StartBasalLabel(Units(param))
	default:
		return Plain(a)
	}
}

// Param returns the parameter carried by the label, or 0 if it has none.
func (l Label) Param() int64 {
	switch l.Action {
	case ProcessGlucose:
		return int64(l.Reading)
	case RequestBolus:
		return int64(l.Amount)
	case StartBasal:
		return int64(l.Rate)
	default:
		return 0
	}
}

func (l Label) String() string {
	if l.Action.Parameterized() {
		return fmt.Sprintf("%v(%d)", l.Action, l.Param())
	}
	return l.Action.String()
}

var (
	ErrUnknownAction = errors.New("pump: unknown action")
	ErrBadParameter  = errors.New("pump: malformed action parameter")
)

// ParseLabel parses the String form of a label, e.g. "RequestBolus(50)" or "ConfirmDelivery".
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	name, arg, hasArg := strings.Cut(s, "(")
	action, ok := actionByName(strings.TrimSpace(name))
	if !ok {
		return Label{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	if !action.Parameterized() {
		if hasArg {
			return Label{}, fmt.Errorf("%w: %v takes no parameter", ErrBadParameter, action)
		}
		return Plain(action), nil
	}
	if !hasArg || !strings.HasSuffix(arg, ")") {
		return Label{}, fmt.Errorf("%w: %v requires a parameter", ErrBadParameter, action)
	}
	param, err := strconv.ParseInt(strings.TrimSpace(strings.TrimSuffix(arg, ")")), 10, 64)
	if err != nil {
		return Label{}, fmt.Errorf("%w: %q: %v", ErrBadParameter, s, err)
	}
	return WithParam(action, param), nil
}

func actionByName(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return NoAction, false
}
