package trustline

import (
	"context"
	"errors"

	"stellar-gasless-go/internal/horizon"
	"stellar-gasless-go/internal/models"

	"github.com/stellar/go/strkey"
	"go.uber.org/zap"
)

// HoldingsSource supplies a destination's current holdings.
// *horizon.Service satisfies it.
type HoldingsSource interface {
	Holdings(ctx context.Context, address string) ([]models.AccountHolding, error)
}

// Evaluator decides whether a destination can directly receive an asset.
type Evaluator struct {
	accounts HoldingsSource
}

func NewEvaluator(accounts HoldingsSource) *Evaluator {
	return &Evaluator{accounts: accounts}
}

// CanReceive reports whether destination can hold the asset right now.
//
//   - The native asset never needs a trustline.
//   - Contract addresses use a different holding mechanism that this query
//     path cannot see, so they are treated as capable of everything.
//   - Otherwise the destination must hold a line matching code AND issuer.
//   - A missing account, or a failed query, evaluates to false: the
//     payment then routes through the escrow path instead of failing.
func (e *Evaluator) CanReceive(ctx context.Context, destination string, asset models.Asset) bool {
	capable, _ := e.Evaluate(ctx, destination, asset)
	return capable
}

// Evaluate is CanReceive plus a degraded flag: true when the verdict came
// from a query failure rather than an actual inspection. Degraded results
// are conservative, not errors; callers only use the flag for logging.
func (e *Evaluator) Evaluate(ctx context.Context, destination string, asset models.Asset) (capable, degraded bool) {
	if asset.IsNative() {
		return true, false
	}

	if strkey.IsValidContractAddress(destination) {
		return true, false
	}

	holdings, err := e.accounts.Holdings(ctx, destination)
	if err != nil {
		if errors.Is(err, horizon.ErrAccountNotFound) {
			// An unopened account cannot hold a non-native asset.
			return false, false
		}
		zap.L().Warn("trustline check degraded, routing via escrow",
			zap.String("destination", destination),
			zap.String("asset", asset.String()),
			zap.Error(err))
		return false, true
	}

	for _, h := range holdings {
		if h.Asset.Equals(asset) {
			return true, false
		}
	}
	return false, false
}
