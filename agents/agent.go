package agents

// Kind tags the closed set of agent strategies. Behaviour is selected
// at construction and never changes over an agent's lifetime.
type Kind int

const (
	// KindBanker tracks the mint policy's optimal issuance level.
	KindBanker Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindBanker:
		return "banker"
	default:
		return "unknown"
	}
}

// Agent is one market participant driven by the simulation schedule.
// Step runs the agent's whole turn for the current tick; it never
// blocks and reacts to rejected operations by adapting next tick.
type Agent interface {
	Party() string
	Kind() Kind
	Step()
}
