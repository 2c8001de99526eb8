package pump

import (
	"errors"
	"testing"
)

func TestParseLabel(t *testing.T) {
	for i, test := range parseLabelTest {
		got, err := ParseLabel(test.in)
		if test.err != nil {
			if !errors.Is(err, test.err) {
				t.Errorf("Expected error %v in test %v. Got %v", test.err, i, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Did not expect an error in test %v. Got %v", i, err)
			continue
		}
		if got != test.expected {
			t.Errorf("Unexpected label in test %v. Got %#v, expected %#v", i, got, test.expected)
		}
	}
}

func TestLabelStringRoundTrip(t *testing.T) {
	for a := NoAction; a <= DetectHardwareFault; a++ {
		l := WithParam(a, 42)
		parsed, err := ParseLabel(l.String())
		if err != nil || parsed != l {
			t.Errorf("Label %v did not survive a round trip. Got %v, %v", l, parsed, err)
		}
	}
}

func TestWithParamIgnoredForPlainActions(t *testing.T) {
	if l := WithParam(ConfirmDelivery, 7); l != Plain(ConfirmDelivery) || l.Param() != 0 {
		t.Errorf("Expected the parameter to be dropped. Got %#v", l)
	}
}

var parseLabelTest = []struct {
	in       string
	expected Label
	err      error
}{
	{"StartMonitoring", Plain(StartMonitoring), nil},
	{" ConfirmDelivery ", Plain(ConfirmDelivery), nil},
	{"ProcessGlucose(120)", ProcessGlucoseLabel(120), nil},
	{"RequestBolus( 50 )", RequestBolusLabel(50), nil},
	{"StartBasal(25)", StartBasalLabel(25), nil},
	{"NoAction", Plain(NoAction), nil},
	{"Reboot", Label{}, ErrUnknownAction},
	{"RequestBolus", Label{}, ErrBadParameter},
	{"RequestBolus(abc)", Label{}, ErrBadParameter},
	{"RequestBolus(50", Label{}, ErrBadParameter},
	{"SuspendPump(1)", Label{}, ErrBadParameter},
}
