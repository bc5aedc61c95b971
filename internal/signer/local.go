package signer

import (
	"context"
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"go.uber.org/zap"
)

// Gateway hands an unsigned envelope to a user-controlled signer and
// returns the signed envelope, or ErrSignerRefused when the user (or the
// signer itself) declines. The payment core treats it as an opaque
// capability.
type Gateway interface {
	Connect(ctx context.Context, session *Session) (address string, err error)
	Sign(ctx context.Context, session *Session, envelopeXDR string) (signedXDR string, err error)
}

// Local signs with a secret seed held in memory. It stands in for the
// wallet popup of a browser deployment; the orchestration contract is the
// same either way.
type Local struct {
	full       *keypair.Full
	passphrase string
}

func NewLocal(secretSeed, networkPassphrase string) (*Local, error) {
	full, err := keypair.ParseFull(secretSeed)
	if err != nil {
		return nil, fmt.Errorf("invalid signer seed: %w", err)
	}
	return &Local{full: full, passphrase: networkPassphrase}, nil
}

// Connect binds the session to the local key's address.
func (l *Local) Connect(ctx context.Context, session *Session) (string, error) {
	if err := session.beginConnect(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		session.failConnect()
		return "", err
	}
	session.completeConnect(l.full.Address())
	zap.L().Info("Signer connected", zap.String("address", l.full.Address()))
	return l.full.Address(), nil
}

// Sign parses the envelope, signs it for the configured network, and
// returns the signed envelope. The session must be connected.
func (l *Local) Sign(ctx context.Context, session *Session, envelopeXDR string) (string, error) {
	if session.State() != StateConnected {
		return "", ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	generic, err := txnbuild.TransactionFromXDR(envelopeXDR)
	if err != nil {
		return "", fmt.Errorf("unable to parse unsigned envelope: %w", err)
	}
	tx, ok := generic.Transaction()
	if !ok {
		return "", fmt.Errorf("%w: envelope is not a signable transaction", ErrSignerRefused)
	}

	signed, err := tx.Sign(l.passphrase, l.full)
	if err != nil {
		return "", fmt.Errorf("signing failed: %w", err)
	}

	signedXDR, err := signed.Base64()
	if err != nil {
		return "", fmt.Errorf("unable to serialize signed envelope: %w", err)
	}
	return signedXDR, nil
}
