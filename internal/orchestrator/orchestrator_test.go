package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"stellar-gasless-go/internal/models"
	"stellar-gasless-go/internal/signer"
	"stellar-gasless-go/internal/txbuilder"
)

const (
	testSender = "GBBD47IF6LWK7P7MDEVSCWR7DPUWV3NY3DTQEVFL4NAT4AQH3ZLLFLA5"
	testDest   = "GB3Q6QDZYTHWT7E5PVS3W7FUT5GVAFC5KSZFFLPU25GO7VTC3NM2ZTVO"
)

type fakeBuilder struct {
	result *txbuilder.BuildResult
	err    error
	calls  int
}

func (f *fakeBuilder) Build(ctx context.Context, sender, destination, symbol, amount string) (*txbuilder.BuildResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeSigner struct {
	signed string
	err    error
	calls  int
}

func (f *fakeSigner) Connect(ctx context.Context, session *signer.Session) (string, error) {
	return testSender, nil
}

func (f *fakeSigner) Sign(ctx context.Context, session *signer.Session, envelopeXDR string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.signed, nil
}

type fakeRelay struct {
	result      models.RelayResult
	claimXDR    string
	claimErr    error
	submitCalls int
	lastSigned  string
}

func (f *fakeRelay) Submit(ctx context.Context, signedXDR string) models.RelayResult {
	f.submitCalls++
	f.lastSigned = signedXDR
	return f.result
}

func (f *fakeRelay) BuildClaim(ctx context.Context, claimant, balanceID string) (string, error) {
	return f.claimXDR, f.claimErr
}

func builtDirect() *txbuilder.BuildResult {
	return &txbuilder.BuildResult{
		EnvelopeXDR: "unsigned-envelope",
		Shape:       txbuilder.ShapeDirect,
		Amount:      "10",
		Destination: testDest,
	}
}

func newTestService(builder *fakeBuilder, signers *fakeSigner, relay *fakeRelay) *Service {
	return NewService(builder, signers, relay, time.Second)
}

func TestSubmitHappyPath(t *testing.T) {
	relay := &fakeRelay{result: models.RelayResult{
		Success:     true,
		Hash:        "abc123",
		ExplorerURL: "https://stellar.expert/explorer/testnet/tx/abc123",
	}}
	service := newTestService(
		&fakeBuilder{result: builtDirect()},
		&fakeSigner{signed: "signed-envelope"},
		relay,
	)

	intent := NewIntent(testSender, testDest, "USDC", "10")
	outcome, err := service.Submit(context.Background(), intent, signer.NewSession())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if !outcome.Succeeded() {
		t.Fatalf("Expected success, got %+v", outcome)
	}
	if outcome.Hash != "abc123" || outcome.Shape != txbuilder.ShapeDirect {
		t.Errorf("Unexpected outcome: %+v", outcome)
	}
	if intent.Phase() != PhaseSucceeded {
		t.Errorf("Phase = %s, want succeeded", intent.Phase())
	}
	if relay.lastSigned != "signed-envelope" {
		t.Errorf("Relayer received %q, want the signed envelope", relay.lastSigned)
	}
}

func TestSubmitValidationFailureSkipsSignerAndRelay(t *testing.T) {
	signers := &fakeSigner{signed: "signed-envelope"}
	relay := &fakeRelay{}
	service := newTestService(
		&fakeBuilder{err: fmt.Errorf("%w: amount must be positive", txbuilder.ErrValidation)},
		signers,
		relay,
	)

	intent := NewIntent(testSender, testDest, "USDC", "0")
	outcome, err := service.Submit(context.Background(), intent, signer.NewSession())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if outcome.Failure != FailureValidation {
		t.Errorf("Failure = %s, want validation", outcome.Failure)
	}
	if signers.calls != 0 || relay.submitCalls != 0 {
		t.Error("Validation failure must stop the pipeline before signing")
	}
	if intent.Phase() != PhaseFailed {
		t.Errorf("Phase = %s, want failed", intent.Phase())
	}
}

func TestSubmitSenderNotFound(t *testing.T) {
	service := newTestService(
		&fakeBuilder{err: fmt.Errorf("%w: %s", txbuilder.ErrSenderNotFound, testSender)},
		&fakeSigner{},
		&fakeRelay{},
	)

	outcome, err := service.Submit(context.Background(), NewIntent(testSender, testDest, "XLM", "1"), signer.NewSession())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if outcome.Failure != FailureSenderNotFound {
		t.Errorf("Failure = %s, want sender_not_found", outcome.Failure)
	}
}

// A signer refusal is terminal: the intent fails and the relayer is
// never contacted.
func TestSubmitSignerRefusal(t *testing.T) {
	relay := &fakeRelay{}
	service := newTestService(
		&fakeBuilder{result: builtDirect()},
		&fakeSigner{err: fmt.Errorf("%w: user declined", signer.ErrSignerRefused)},
		relay,
	)

	intent := NewIntent(testSender, testDest, "USDC", "10")
	outcome, err := service.Submit(context.Background(), intent, signer.NewSession())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if outcome.Failure != FailureSignerRefused {
		t.Errorf("Failure = %s, want signer_refused", outcome.Failure)
	}
	if relay.submitCalls != 0 {
		t.Error("Relayer must never be called after a signer refusal")
	}
}

// A relayer rejection carries the relayer's message verbatim.
func TestSubmitRelayRejection(t *testing.T) {
	service := newTestService(
		&fakeBuilder{result: builtDirect()},
		&fakeSigner{signed: "signed-envelope"},
		&fakeRelay{result: models.RelayResult{Success: false, Error: "insufficient fee reserve"}},
	)

	outcome, err := service.Submit(context.Background(), NewIntent(testSender, testDest, "USDC", "10"), signer.NewSession())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if outcome.Failure != FailureRelayRejected {
		t.Errorf("Failure = %s, want relay_rejected", outcome.Failure)
	}
	if outcome.Cause != "insufficient fee reserve" {
		t.Errorf("Cause = %q, want the relayer message verbatim", outcome.Cause)
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	service := newTestService(
		&fakeBuilder{result: builtDirect()},
		&fakeSigner{signed: "signed-envelope"},
		&fakeRelay{result: models.RelayResult{Success: false, Error: "request failed: connection refused", Transport: true}},
	)

	outcome, err := service.Submit(context.Background(), NewIntent(testSender, testDest, "USDC", "10"), signer.NewSession())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if outcome.Failure != FailureTransport {
		t.Errorf("Failure = %s, want transport", outcome.Failure)
	}
}

func TestSubmitRejectsReplay(t *testing.T) {
	service := newTestService(
		&fakeBuilder{result: builtDirect()},
		&fakeSigner{signed: "signed-envelope"},
		&fakeRelay{result: models.RelayResult{Success: true, Hash: "abc123"}},
	)

	intent := NewIntent(testSender, testDest, "USDC", "10")
	session := signer.NewSession()

	if _, err := service.Submit(context.Background(), intent, session); err != nil {
		t.Fatalf("First submit failed: %v", err)
	}
	if _, err := service.Submit(context.Background(), intent, session); !errors.Is(err, ErrAlreadyInProgress) {
		t.Fatalf("Second submit should be rejected, got %v", err)
	}
}

func TestPhaseStatusStrings(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseBuilding, "Building transaction..."},
		{PhaseSigning, "Check your wallet to sign..."},
		{PhaseRelaying, "Sponsoring fee & submitting..."},
		{PhaseSucceeded, "Success!"},
	}
	for _, tc := range tests {
		if got := tc.phase.Status(); got != tc.want {
			t.Errorf("Status(%s) = %q, want %q", tc.phase, got, tc.want)
		}
	}
	if !PhaseFailed.Terminal() || !PhaseSucceeded.Terminal() || PhaseRelaying.Terminal() {
		t.Error("Terminal phases are exactly succeeded and failed")
	}
}

func TestClaimPending(t *testing.T) {
	signers := &fakeSigner{signed: "signed-claim"}
	relay := &fakeRelay{
		claimXDR: "unsigned-claim",
		result:   models.RelayResult{Success: true, Hash: "claim01"},
	}
	service := newTestService(&fakeBuilder{}, signers, relay)

	result := service.ClaimPending(context.Background(), signer.NewSession(), testDest, "bal-1")
	if !result.Success || result.Hash != "claim01" {
		t.Fatalf("Unexpected claim result: %+v", result)
	}
	if relay.lastSigned != "signed-claim" {
		t.Errorf("Relayer received %q, want the signed claim envelope", relay.lastSigned)
	}
}

func TestClaimPendingBuildFailure(t *testing.T) {
	service := newTestService(&fakeBuilder{}, &fakeSigner{}, &fakeRelay{
		claimErr: errors.New("relayer could not build claim transaction: already claimed"),
	})

	result := service.ClaimPending(context.Background(), signer.NewSession(), testDest, "bal-1")
	if result.Success {
		t.Fatal("Expected claim failure")
	}
}
