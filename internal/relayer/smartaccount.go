package relayer

import (
	"context"
	"fmt"

	"stellar-gasless-go/internal/models"

	"go.uber.org/zap"
)

// Smart-account endpoints follow the same success-envelope convention as
// the classic relayer paths: the build step returns an unsigned payload,
// a separate submit step accepts the signed one.

// defaultHistoryLimit bounds history responses when the caller does not
// pick a page size.
const defaultHistoryLimit = 20

type createSmartAccountResponse struct {
	Success  bool   `json:"success"`
	CAddress string `json:"cAddress"`
	Error    string `json:"error"`
}

// CreateSmartAccount deploys a programmable account owned by the classic
// address and returns its contract address.
func (s *Service) CreateSmartAccount(ctx context.Context, owner string) (string, error) {
	body := map[string]string{"ownerGAddress": owner}

	var resp createSmartAccountResponse
	if err := s.postJSON(ctx, "/api/v1/relayer/stellar/c-address/create", body, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("smart account creation failed: %s", resp.Error)
	}

	zap.L().Info("Smart account created",
		zap.String("owner", owner),
		zap.String("c_address", resp.CAddress))
	return resp.CAddress, nil
}

type lookupSmartAccountResponse struct {
	Success  bool   `json:"success"`
	CAddress string `json:"cAddress"`
	Error    string `json:"error"`
}

// LookupSmartAccount finds the smart account already owned by a classic
// address. An owner with no smart account yet returns "" without error.
func (s *Service) LookupSmartAccount(ctx context.Context, owner string) (string, error) {
	var resp lookupSmartAccountResponse
	if err := s.getJSON(ctx, "/api/v1/relayer/stellar/c-address/lookup/"+owner, &resp); err != nil {
		return "", err
	}
	return resp.CAddress, nil
}

type smartBalanceResponse struct {
	Success  bool                  `json:"success"`
	Balances []models.SmartBalance `json:"balances"`
	Error    string                `json:"error"`
}

// SmartAccountBalance lists the asset balances held by a smart account.
func (s *Service) SmartAccountBalance(ctx context.Context, cAddress string) ([]models.SmartBalance, error) {
	var resp smartBalanceResponse
	if err := s.getJSON(ctx, "/api/v1/relayer/stellar/c-address/balance/"+cAddress, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("smart account balance lookup failed: %s", resp.Error)
	}
	return resp.Balances, nil
}

type smartHistoryResponse struct {
	Success      bool                       `json:"success"`
	Transactions []models.SmartHistoryEntry `json:"transactions"`
	Error        string                     `json:"error"`
}

// SmartAccountHistory lists a smart account's most recent transfers,
// newest first, capped at limit entries.
func (s *Service) SmartAccountHistory(ctx context.Context, cAddress string, limit int) ([]models.SmartHistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	var resp smartHistoryResponse
	path := fmt.Sprintf("/api/v1/relayer/stellar/c-address/history/%s?limit=%d", cAddress, limit)
	if err := s.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("smart account history lookup failed: %s", resp.Error)
	}
	return resp.Transactions, nil
}

type buildSmartTransferResponse struct {
	Success     bool   `json:"success"`
	UnsignedXDR string `json:"unsignedXDR"`
	Error       string `json:"error"`
}

// BuildSmartTransfer asks the relayer to pre-build a smart-account
// transfer. The owner signs the returned envelope; the relayer co-signs
// as fee payer on submit.
func (s *Service) BuildSmartTransfer(ctx context.Context, req models.SmartTransferRequest) (string, error) {
	var resp buildSmartTransferResponse
	if err := s.postJSON(ctx, "/api/v1/relayer/stellar/c-address/build-transfer", req, &resp); err != nil {
		return "", err
	}
	if resp.UnsignedXDR == "" {
		msg := resp.Error
		if msg == "" {
			msg = "relayer returned no transfer envelope"
		}
		return "", fmt.Errorf("smart transfer build failed: %s", msg)
	}
	return resp.UnsignedXDR, nil
}

type submitSmartTransferResponse struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash"`
	Error   string `json:"error"`
}

// SubmitSmartTransfer hands the owner-signed envelope back to the relayer
// for co-signing and submission.
func (s *Service) SubmitSmartTransfer(ctx context.Context, signedXDR string) models.RelayResult {
	body := map[string]string{"signedXDR": signedXDR}

	var resp submitSmartTransferResponse
	if err := s.postJSON(ctx, "/api/v1/relayer/stellar/c-address/submit-transfer", body, &resp); err != nil {
		return models.RelayResult{Success: false, Error: err.Error(), Transport: true}
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "smart transfer submit failed"
		}
		return models.RelayResult{Success: false, Error: msg}
	}

	return models.RelayResult{
		Success:     true,
		Hash:        resp.TxHash,
		ExplorerURL: fmt.Sprintf("%s/tx/%s", s.explorerURL, resp.TxHash),
	}
}
