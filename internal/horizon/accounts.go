package horizon

import (
	"context"
	"errors"
	"fmt"

	"stellar-gasless-go/internal/models"

	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"
)

// ErrAccountNotFound is returned when the ledger reports no entry for an
// address. An unopened account can hold nothing but incoming escrows.
var ErrAccountNotFound = errors.New("account not found on ledger")

// AccountSource is the slice of the Horizon client this service needs.
// *horizonclient.Client satisfies it.
type AccountSource interface {
	AccountDetail(request horizonclient.AccountRequest) (hProtocol.Account, error)
}

// Service reads current account state from a ledger-query endpoint.
type Service struct {
	client AccountSource
}

func NewService(client AccountSource) *Service {
	return &Service{client: client}
}

// NewHorizonClient builds a Horizon client for the given base URL.
func NewHorizonClient(horizonURL string) *horizonclient.Client {
	return &horizonclient.Client{HorizonURL: horizonURL}
}

// Holdings returns the account's current asset holdings, native balance
// included. Produced fresh on every call; nothing is cached.
func (s *Service) Holdings(ctx context.Context, address string) ([]models.AccountHolding, error) {
	account, err := s.load(ctx, address)
	if err != nil {
		return nil, err
	}

	holdings := make([]models.AccountHolding, 0, len(account.Balances))
	for _, b := range account.Balances {
		holdings = append(holdings, models.AccountHolding{
			Asset:   assetFromBalance(b),
			Balance: b.Balance,
		})
	}
	return holdings, nil
}

// AccountExists reports whether the address has a ledger entry.
func (s *Service) AccountExists(ctx context.Context, address string) (bool, error) {
	_, err := s.load(ctx, address)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SourceAccount loads the address as a transaction source: its ID and
// current sequence number.
func (s *Service) SourceAccount(ctx context.Context, address string) (*txnbuild.SimpleAccount, error) {
	account, err := s.load(ctx, address)
	if err != nil {
		return nil, err
	}
	return &txnbuild.SimpleAccount{
		AccountID: account.AccountID,
		Sequence:  account.Sequence,
	}, nil
}

func (s *Service) load(ctx context.Context, address string) (hProtocol.Account, error) {
	if err := ctx.Err(); err != nil {
		return hProtocol.Account{}, err
	}

	account, err := s.client.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return hProtocol.Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
		}
		return hProtocol.Account{}, fmt.Errorf("account query failed for %s: %w", address, err)
	}
	return account, nil
}

// assetFromBalance maps a Horizon balance line to the local asset type.
// Display precision on the ledger is fixed at 7 decimal places.
func assetFromBalance(b hProtocol.Balance) models.Asset {
	if b.Asset.Type == "native" {
		return models.Asset{Code: "XLM", Decimals: 7}
	}
	return models.Asset{Code: b.Asset.Code, Issuer: b.Asset.Issuer, Decimals: 7}
}
