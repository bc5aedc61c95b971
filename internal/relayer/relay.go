package relayer

import (
	"context"
	"fmt"

	"stellar-gasless-go/internal/models"

	"go.uber.org/zap"
)

type submitResponse struct {
	Success bool   `json:"success"`
	Hash    string `json:"hash"`
	TxnHash string `json:"txnHash"`
	Error   string `json:"error"`
}

// Submit posts a signed envelope for fee sponsorship and submission.
// Every outcome is a RelayResult: business failures carry the relayer's
// message, transport failures carry the transport error. Submit never
// retries; retrying without knowing whether the prior attempt landed
// risks a double spend, so retry policy stays with the caller.
func (s *Service) Submit(ctx context.Context, signedXDR string) models.RelayResult {
	body := map[string]string{"signedTransaction": signedXDR}

	var resp submitResponse
	if err := s.postJSON(ctx, "/api/v1/relayer/gasless-transaction", body, &resp); err != nil {
		zap.L().Error("Relayer submission transport failure", zap.Error(err))
		return models.RelayResult{Success: false, Error: err.Error(), Transport: true}
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "transaction failed"
		}
		zap.L().Warn("Relayer rejected transaction", zap.String("error", msg))
		return models.RelayResult{Success: false, Error: msg}
	}

	hash := resp.Hash
	if hash == "" {
		hash = resp.TxnHash
	}

	zap.L().Info("Transaction relayed", zap.String("hash", hash))
	return models.RelayResult{
		Success:     true,
		Hash:        hash,
		ExplorerURL: fmt.Sprintf("%s/tx/%s", s.explorerURL, hash),
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Relayer struct {
		Balance string `json:"balance"`
		Address string `json:"address"`
	} `json:"relayer"`
}

// Health probes the relayer's status endpoint. Any failure, from timeout
// to malformed body, normalizes to unhealthy; Health never raises.
func (s *Service) Health(ctx context.Context) models.HealthStatus {
	var resp healthResponse
	if err := s.getJSON(ctx, "/api/v1/relayer/stellar/health", &resp); err != nil {
		zap.L().Debug("Relayer health probe failed", zap.Error(err))
		return models.HealthStatus{Healthy: false}
	}

	return models.HealthStatus{
		Healthy: resp.Status == "healthy",
		Balance: resp.Relayer.Balance,
		Address: resp.Relayer.Address,
	}
}

type pendingClaimEntry struct {
	ID                 string `json:"id"`
	Asset              string `json:"asset"`
	Amount             string `json:"amount"`
	Sponsor            string `json:"sponsor"`
	LastModifiedLedger int    `json:"lastModifiedLedger"`
	Claimants          []struct {
		Destination string `json:"destination"`
	} `json:"claimants"`
}

type pendingClaimsResponse struct {
	Success  bool                `json:"success"`
	Balances []pendingClaimEntry `json:"balances"`
	Error    string              `json:"error"`
}

// PendingClaims lists the escrow transfers waiting for the address to
// claim them.
func (s *Service) PendingClaims(ctx context.Context, address string) ([]models.PendingClaim, error) {
	var resp pendingClaimsResponse
	if err := s.getJSON(ctx, "/api/v1/relayer/stellar/claimable-balances/"+address, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("claimable balance lookup failed: %s", resp.Error)
	}

	claims := make([]models.PendingClaim, 0, len(resp.Balances))
	for _, entry := range resp.Balances {
		asset, err := models.ParseAssetString(entry.Asset)
		if err != nil {
			zap.L().Warn("Skipping pending claim with malformed asset",
				zap.String("id", entry.ID),
				zap.String("asset", entry.Asset))
			continue
		}

		claim := models.PendingClaim{
			ID:                 entry.ID,
			Asset:              asset,
			Amount:             entry.Amount,
			Sponsor:            entry.Sponsor,
			LastModifiedLedger: entry.LastModifiedLedger,
		}
		for _, c := range entry.Claimants {
			claim.Claimants = append(claim.Claimants, models.Claimant{
				Destination: c.Destination,
				Predicate:   "unconditional",
			})
		}
		claims = append(claims, claim)
	}
	return claims, nil
}

type buildClaimResponse struct {
	Success     bool   `json:"success"`
	UnsignedXDR string `json:"unsignedXDR"`
	Error       string `json:"error"`
}

// BuildClaim asks the relayer to pre-build a zero-fee claim transaction
// for a pending balance. The claimant then signs it and submits it back
// through Submit.
func (s *Service) BuildClaim(ctx context.Context, claimant, balanceID string) (string, error) {
	body := map[string]string{
		"claimant":  claimant,
		"balanceId": balanceID,
	}

	var resp buildClaimResponse
	if err := s.postJSON(ctx, "/api/v1/relayer/stellar/claim", body, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "failed to build claim transaction"
		}
		return "", fmt.Errorf("%w: %s", ErrClaimBuild, msg)
	}
	return resp.UnsignedXDR, nil
}
