/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package orchestrator

import (
	"context"
	"errors"
	"time"

	"stellar-gasless-go/internal/models"
	"stellar-gasless-go/internal/signer"
	"stellar-gasless-go/internal/txbuilder"

	"go.uber.org/zap"
)

// ErrAlreadyInProgress rejects a second submit on an intent that has
// already left Idle. The orchestrator never silently restarts an attempt.
var ErrAlreadyInProgress = errors.New("payment intent already in progress")

// TransactionBuilder constructs the unsigned envelope for an intent.
// *txbuilder.Builder satisfies it.
type TransactionBuilder interface {
	Build(ctx context.Context, sender, destination, symbol, amount string) (*txbuilder.BuildResult, error)
}

// RelayGateway is the slice of the relayer client the orchestrator uses.
// *relayer.Service satisfies it.
type RelayGateway interface {
	Submit(ctx context.Context, signedXDR string) models.RelayResult
	BuildClaim(ctx context.Context, claimant, balanceID string) (string, error)
}

// Service sequences Builder -> SignerGateway -> RelayGateway for one
// payment intent at a time and reduces every path to a single Outcome.
type Service struct {
	builder      TransactionBuilder
	signers      signer.Gateway
	relay        RelayGateway
	relayTimeout time.Duration
}

func NewService(builder TransactionBuilder, signers signer.Gateway, relay RelayGateway, relayTimeout time.Duration) *Service {
	if relayTimeout <= 0 {
		relayTimeout = 45 * time.Second
	}
	return &Service{
		builder:      builder,
		signers:      signers,
		relay:        relay,
		relayTimeout: relayTimeout,
	}
}

// Submit runs the intent's state machine to a terminal phase and returns
// its outcome. The only error return is ErrAlreadyInProgress; every other
// failure is a typed Outcome on the intent.
//
// The caller's ctx cancels the attempt through Building and Signing. Once
// the signed payload has been handed to the relayer the submission is in
// flight on the network, so the relay step runs detached from the caller
// under the configured relay timeout.
func (s *Service) Submit(ctx context.Context, intent *Intent, session *signer.Session) (*Outcome, error) {
	if !intent.begin() {
		return nil, ErrAlreadyInProgress
	}

	zap.L().Info("Payment intent started",
		zap.String("intent_id", intent.ID),
		zap.String("sender", intent.Sender),
		zap.String("destination", intent.Destination),
		zap.String("asset", intent.Asset),
		zap.String("amount", intent.Amount))

	built, err := s.builder.Build(ctx, intent.Sender, intent.Destination, intent.Asset, intent.Amount)
	if err != nil {
		return s.failIntent(intent, classifyBuildError(err), err.Error()), nil
	}

	intent.advance(PhaseSigning)
	signedXDR, err := s.signers.Sign(ctx, session, built.EnvelopeXDR)
	if err != nil {
		if errors.Is(err, signer.ErrSignerRefused) {
			return s.failIntent(intent, FailureSignerRefused, err.Error()), nil
		}
		return s.failIntent(intent, FailureSigner, err.Error()), nil
	}

	intent.advance(PhaseRelaying)
	relayCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.relayTimeout)
	defer cancel()

	result := s.relay.Submit(relayCtx, signedXDR)
	if !result.Success {
		kind := FailureRelayRejected
		if result.Transport {
			kind = FailureTransport
		}
		return s.failIntent(intent, kind, result.Error), nil
	}

	outcome := intent.succeed(&Outcome{
		Hash:        result.Hash,
		ExplorerURL: result.ExplorerURL,
		Shape:       built.Shape,
	})

	zap.L().Info("Payment intent succeeded",
		zap.String("intent_id", intent.ID),
		zap.String("hash", outcome.Hash),
		zap.Stringer("shape", outcome.Shape))
	return outcome, nil
}

// ClaimPending runs the claim flow for one pending escrow transfer: the
// relayer pre-builds the zero-fee claim, the claimant signs it, and the
// signed envelope goes back through the sponsored submit path.
func (s *Service) ClaimPending(ctx context.Context, session *signer.Session, claimant, balanceID string) models.RelayResult {
	unsignedXDR, err := s.relay.BuildClaim(ctx, claimant, balanceID)
	if err != nil {
		return models.RelayResult{Success: false, Error: err.Error()}
	}

	signedXDR, err := s.signers.Sign(ctx, session, unsignedXDR)
	if err != nil {
		return models.RelayResult{Success: false, Error: err.Error()}
	}

	relayCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.relayTimeout)
	defer cancel()
	return s.relay.Submit(relayCtx, signedXDR)
}

func (s *Service) failIntent(intent *Intent, kind FailureKind, cause string) *Outcome {
	outcome := intent.fail(kind, cause)
	zap.L().Warn("Payment intent failed",
		zap.String("intent_id", intent.ID),
		zap.Stringer("failure", kind),
		zap.String("cause", cause))
	return outcome
}

func classifyBuildError(err error) FailureKind {
	switch {
	case errors.Is(err, txbuilder.ErrValidation):
		return FailureValidation
	case errors.Is(err, txbuilder.ErrSenderNotFound):
		return FailureSenderNotFound
	default:
		return FailureTransport
	}
}
