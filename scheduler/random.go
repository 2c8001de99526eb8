package scheduler

import (
	"math/rand"

	"pumpmc/pump"
	"pumpmc/transition"

	"golang.org/x/exp/slices"
)

// A scheduler that nondeterministically picks one enabled transition.
//
// It shuffles the full set of actions and applies the first one whose guard
// holds. Parameterized actions sample their parameter uniformly from the
// candidate set. It guarantees progress when any action is enabled, but
// provides no fairness between enabled actions.
type Random struct {
	rand *rand.Rand
}

// Create a new Random scheduler.
//
// The seed initializes the single random source used for every call to Next.
// The source is never reseeded, so a sequence of traces is reproducible only as
// a whole: changing one trace shifts the random stream of all later traces.
func NewRandom(seed int64) *Random {
	return NewRandomFrom(rand.New(rand.NewSource(seed)))
}

// Create a new Random scheduler drawing from the provided source.
func NewRandomFrom(r *rand.Rand) *Random {
	return &Random{rand: r}
}

// Select the next transition from s.
//
// Returns the NoAction label and s if no action is enabled. Never returns an error.
func (r *Random) Next(s pump.State) (pump.Label, pump.State, error) {
	actions := slices.Clone(transition.Actions)
	r.rand.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
	})

	for _, action := range actions {
		// The parameter is drawn before the guard is evaluated.
		label := r.resolve(action)
		if res := transition.Apply(s, label); res.Success {
			return label, res.NewState, nil
		}
	}
	return pump.Plain(pump.NoAction), s, nil
}

func (r *Random) resolve(action pump.Action) pump.Label {
	candidates := transition.Candidates(action)
	if len(candidates) == 0 {
		return pump.Plain(action)
	}
	return pump.WithParam(action, candidates[r.rand.Intn(len(candidates))])
}
