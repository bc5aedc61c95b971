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

package txbuilder

import (
	"context"
	"errors"
	"fmt"

	"stellar-gasless-go/internal/assets"
	"stellar-gasless-go/internal/horizon"
	"stellar-gasless-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"
	"go.uber.org/zap"
)

// Sentinel errors surfaced to the orchestrator.
var (
	ErrValidation     = errors.New("invalid payment parameters")
	ErrSenderNotFound = errors.New("sender account not found")
)

// validityWindowSeconds bounds how long an unsigned transaction stays
// submittable, so a stale signature cannot land late.
const validityWindowSeconds = 30

// Shape is the transaction shape chosen for a destination.
type Shape int

const (
	// ShapeDirect is a single payment operation to the destination.
	ShapeDirect Shape = iota
	// ShapeEscrow locks the amount in a claimable balance the
	// destination can claim unconditionally, any time.
	ShapeEscrow
)

func (s Shape) String() string {
	switch s {
	case ShapeDirect:
		return "direct"
	case ShapeEscrow:
		return "escrow"
	default:
		return "unknown"
	}
}

// BuildResult is an unsigned transaction in canonical envelope form plus
// the shape decision that produced it.
type BuildResult struct {
	EnvelopeXDR string
	Shape       Shape
	Asset       models.Asset
	Amount      string
	Destination string
}

// SourceLoader loads a sender account as a transaction source.
// *horizon.Service satisfies it.
type SourceLoader interface {
	SourceAccount(ctx context.Context, address string) (*txnbuild.SimpleAccount, error)
}

// Receivability decides whether a destination can directly hold an asset.
// *trustline.Evaluator satisfies it.
type Receivability interface {
	Evaluate(ctx context.Context, destination string, asset models.Asset) (capable, degraded bool)
}

// Builder constructs zero-fee unsigned transactions. The relayer supplies
// the actual fee through a wrapping fee-bump transaction, so the inner
// fee here is always zero.
type Builder struct {
	accounts SourceLoader
	trust    Receivability
	catalog  *assets.Catalog
}

func NewBuilder(accounts SourceLoader, trust Receivability, catalog *assets.Catalog) *Builder {
	return &Builder{
		accounts: accounts,
		trust:    trust,
		catalog:  catalog,
	}
}

// Build validates the request, picks the shape for the destination, and
// returns the serialized unsigned envelope. No network call happens until
// validation has passed.
func (b *Builder) Build(ctx context.Context, sender, destination, symbol, amount string) (*BuildResult, error) {
	asset, err := b.catalog.Resolve(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := validateRequest(sender, destination, amount, asset); err != nil {
		return nil, err
	}

	capable, degraded := b.trust.Evaluate(ctx, destination, asset)

	shape := ShapeEscrow
	if capable {
		shape = ShapeDirect
	}

	zap.L().Info("Payment shape decided",
		zap.String("destination", destination),
		zap.String("asset", asset.String()),
		zap.Stringer("shape", shape),
		zap.Bool("trustline_check_degraded", degraded))

	source, err := b.accounts.SourceAccount(ctx, sender)
	if err != nil {
		if errors.Is(err, horizon.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSenderNotFound, sender)
		}
		return nil, fmt.Errorf("unable to load sender account: %w", err)
	}

	var op txnbuild.Operation
	switch shape {
	case ShapeDirect:
		op = &txnbuild.Payment{
			Destination: destination,
			Amount:      amount,
			Asset:       toTxnbuildAsset(asset),
		}
	case ShapeEscrow:
		op = &txnbuild.CreateClaimableBalance{
			Amount: amount,
			Asset:  toTxnbuildAsset(asset),
			Destinations: []txnbuild.Claimant{
				txnbuild.NewClaimant(destination, &txnbuild.UnconditionalPredicate),
			},
		}
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        source,
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              0,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(validityWindowSeconds),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to build %s transaction: %w", shape, err)
	}

	envelope, err := tx.Base64()
	if err != nil {
		return nil, fmt.Errorf("unable to serialize %s transaction: %w", shape, err)
	}

	return &BuildResult{
		EnvelopeXDR: envelope,
		Shape:       shape,
		Asset:       asset,
		Amount:      amount,
		Destination: destination,
	}, nil
}

func validateRequest(sender, destination, amount string, asset models.Asset) error {
	if !strkey.IsValidEd25519PublicKey(sender) {
		return fmt.Errorf("%w: sender %q is not a valid account address", ErrValidation, sender)
	}

	if !strkey.IsValidEd25519PublicKey(destination) && !strkey.IsValidContractAddress(destination) {
		return fmt.Errorf("%w: destination %q is not a valid address", ErrValidation, destination)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("%w: amount %q is not a decimal number", ErrValidation, amount)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %q", ErrValidation, amount)
	}
	if int(-d.Exponent()) > asset.Decimals {
		return fmt.Errorf("%w: amount %q exceeds %d decimal places for %s",
			ErrValidation, amount, asset.Decimals, asset.Code)
	}

	return nil
}

func toTxnbuildAsset(asset models.Asset) txnbuild.Asset {
	if asset.IsNative() {
		return txnbuild.NativeAsset{}
	}
	return txnbuild.CreditAsset{Code: asset.Code, Issuer: asset.Issuer}
}
