package orchestrator

import (
	"sync"

	"stellar-gasless-go/internal/txbuilder"

	"github.com/google/uuid"
)

// Phase is the position of a payment intent in its state machine.
// Phases only move forward; a failed intent is resubmitted as a brand-new
// intent, never replayed.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBuilding
	PhaseSigning
	PhaseRelaying
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBuilding:
		return "building"
	case PhaseSigning:
		return "signing"
	case PhaseRelaying:
		return "relaying"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is the one-line human-readable string shown for the phase.
func (p Phase) Status() string {
	switch p {
	case PhaseIdle:
		return "Ready"
	case PhaseBuilding:
		return "Building transaction..."
	case PhaseSigning:
		return "Check your wallet to sign..."
	case PhaseRelaying:
		return "Sponsoring fee & submitting..."
	case PhaseSucceeded:
		return "Success!"
	case PhaseFailed:
		return "Transaction failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the phase is final.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// FailureKind classifies a terminal failure.
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureValidation: bad amount or address shape, caught before any
	// network call.
	FailureValidation
	// FailureSenderNotFound: the sender has no ledger entry.
	FailureSenderNotFound
	// FailureSignerRefused: the user declined or the signer was busy.
	FailureSignerRefused
	// FailureSigner: the signer broke in some other way.
	FailureSigner
	// FailureRelayRejected: the relayer answered success:false; the
	// message is shown to the user verbatim.
	FailureRelayRejected
	// FailureTransport: a network error or timeout at an HTTP boundary.
	// Not auto-retried: a resubmitted payment needs a fresh intent with
	// a fresh validity window.
	FailureTransport
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureValidation:
		return "validation"
	case FailureSenderNotFound:
		return "sender_not_found"
	case FailureSignerRefused:
		return "signer_refused"
	case FailureSigner:
		return "signer_error"
	case FailureRelayRejected:
		return "relay_rejected"
	case FailureTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Outcome is the single coherent result of a payment attempt.
type Outcome struct {
	Hash        string
	ExplorerURL string
	Shape       txbuilder.Shape
	Failure     FailureKind
	Cause       string
}

// Succeeded reports whether the attempt landed on the ledger.
func (o *Outcome) Succeeded() bool {
	return o != nil && o.Failure == FailureNone
}

// Intent is one in-memory payment attempt. It tracks no partial progress
// across phases and is never persisted; discarding it is the only cleanup.
type Intent struct {
	ID          string
	Sender      string
	Destination string
	Asset       string
	Amount      string

	mu      sync.Mutex
	phase   Phase
	outcome *Outcome
}

// NewIntent creates an idle payment intent.
func NewIntent(sender, destination, asset, amount string) *Intent {
	return &Intent{
		ID:          uuid.NewString(),
		Sender:      sender,
		Destination: destination,
		Asset:       asset,
		Amount:      amount,
		phase:       PhaseIdle,
	}
}

// Phase returns the intent's current phase.
func (i *Intent) Phase() Phase {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.phase
}

// Outcome returns the terminal outcome, or nil before a terminal phase.
func (i *Intent) Outcome() *Outcome {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.outcome
}

// begin moves Idle -> Building. Any other starting phase means a second
// submit raced or replayed this intent.
func (i *Intent) begin() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.phase != PhaseIdle {
		return false
	}
	i.phase = PhaseBuilding
	return true
}

func (i *Intent) advance(p Phase) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.phase = p
}

func (i *Intent) succeed(o *Outcome) *Outcome {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.phase = PhaseSucceeded
	i.outcome = o
	return o
}

func (i *Intent) fail(kind FailureKind, cause string) *Outcome {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.phase = PhaseFailed
	i.outcome = &Outcome{Failure: kind, Cause: cause}
	return i.outcome
}
