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

package models

import (
	"fmt"
	"strings"
)

// Asset identifies a fungible unit on the ledger. The native asset has an
// empty issuer and is globally unique; every other asset is identified by
// the pair (Code, Issuer).
type Asset struct {
	Code     string `json:"code" yaml:"code"`
	Issuer   string `json:"issuer,omitempty" yaml:"issuer"`
	Decimals int    `json:"decimals" yaml:"decimals"`
	Name     string `json:"name,omitempty" yaml:"name"`
}

// IsNative reports whether the asset is the network's native unit.
func (a Asset) IsNative() bool {
	return a.Issuer == ""
}

// Equals reports identity: same code AND same issuer.
func (a Asset) Equals(other Asset) bool {
	return a.Code == other.Code && a.Issuer == other.Issuer
}

// String renders the canonical "native" / "CODE:ISSUER" form used by
// Horizon and the relayer API.
func (a Asset) String() string {
	if a.IsNative() {
		return "native"
	}
	return a.Code + ":" + a.Issuer
}

// ParseAssetString parses the canonical "native" / "CODE:ISSUER" form.
// Display metadata (decimals, name) is not carried on the wire and is
// left zero; resolve through the asset catalog if it is needed.
func ParseAssetString(s string) (Asset, error) {
	if s == "native" || s == "XLM" {
		return Asset{Code: "XLM", Decimals: 7}, nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Asset{}, fmt.Errorf("malformed asset identifier %q", s)
	}
	return Asset{Code: parts[0], Issuer: parts[1], Decimals: 7}, nil
}

// AccountHolding pairs an asset with its current balance for one account.
// Holdings are produced fresh on every query and never persisted.
type AccountHolding struct {
	Asset   Asset  `json:"asset"`
	Balance string `json:"balance"`
}

// Claimant is an authorization predicate on a pending claim. This system
// only ever creates the unconditional "claim any time" predicate.
type Claimant struct {
	Destination string `json:"destination"`
	Predicate   string `json:"predicate,omitempty"`
}

// PendingClaim is an escrow-style transfer awaiting acceptance by its
// claimant. Immutable once created; the client reads it or triggers a
// claim, never mutates it.
type PendingClaim struct {
	ID                 string     `json:"id"`
	Asset              Asset      `json:"asset"`
	Amount             string     `json:"amount"`
	Sponsor            string     `json:"sponsor"`
	LastModifiedLedger int        `json:"lastModifiedLedger,omitempty"`
	Claimants          []Claimant `json:"claimants,omitempty"`
}

// RelayResult is the normalized relayer response for a submission.
// Business failures are values, not errors: Success false with a
// human-readable message.
type RelayResult struct {
	Success     bool   `json:"success"`
	Hash        string `json:"hash,omitempty"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Error       string `json:"error,omitempty"`
	// Transport marks failures that happened before the relayer could
	// answer (network error, timeout), as opposed to relayer rejections.
	Transport bool `json:"-"`
}

// HealthStatus is the normalized relayer health probe result.
type HealthStatus struct {
	Healthy bool   `json:"healthy"`
	Balance string `json:"balance,omitempty"`
	Address string `json:"address,omitempty"`
}

// SmartBalance is one asset balance held by a smart account.
type SmartBalance struct {
	Asset   string `json:"asset"`
	Balance string `json:"balance"`
}

// SmartHistoryEntry is one past transfer of a smart account. Field tags
// follow the relayer's history wire format.
type SmartHistoryEntry struct {
	Hash         string `json:"txHash"`
	Type         string `json:"type"`
	Asset        string `json:"asset"`
	Amount       string `json:"amount"`
	Counterparty string `json:"counterparty,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
	Ledger       int    `json:"ledger,omitempty"`
}

// SmartTransferRequest asks the relayer to pre-build a smart-account
// transfer. From is the owner's classic address (it signs the owner
// auth); CAddress holds the funds.
type SmartTransferRequest struct {
	From        string `json:"from"`
	CAddress    string `json:"cAddress"`
	Destination string `json:"destination"`
	Asset       string `json:"asset"`
	Amount      string `json:"amount"`
}
