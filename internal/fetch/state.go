package fetch

import "github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"

// Phase is the display phase of the fetch cycle state machine.
type Phase int

const (
	PhaseEmpty            Phase = iota // Nothing rendered, possibly an advisory
	PhaseLoading                       // Fresh selection, first fetch pending
	PhaseReady                         // Live data rendered
	PhaseReadyWithWarning              // Last good data rendered, advisory active
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseReadyWithWarning:
		return "ready_with_warning"
	default:
		return "empty"
	}
}

// canTransition is the phase transition table. Ready never degrades to
// Empty; only Reset (a hard selection change) leaves Ready downward, via
// Loading.
func canTransition(from, to Phase) bool {
	if from == to {
		return true
	}
	switch from {
	case PhaseEmpty:
		return to == PhaseLoading || to == PhaseReady
	case PhaseLoading:
		return to == PhaseEmpty || to == PhaseReady
	case PhaseReady:
		return to == PhaseLoading || to == PhaseReadyWithWarning
	case PhaseReadyWithWarning:
		return to == PhaseLoading || to == PhaseReady
	}
	return false
}

// CycleState is the externally visible fetch state for status widgets.
// HasData is a ratchet: once true it stays true until the next selection
// change.
type CycleState struct {
	Symbol    string
	Preset    model.TimeframePreset
	Phase     Phase
	HasData   bool
	Source    string // Data source tag of the last applied series
	LastError string // Advisory message, empty when healthy
}
