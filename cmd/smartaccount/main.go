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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"stellar-gasless-go/internal/common"
	"stellar-gasless-go/internal/config"
	"stellar-gasless-go/internal/models"
	"stellar-gasless-go/internal/signer"

	"go.uber.org/zap"
)

type smartAccountFlags struct {
	create   bool
	balance  string
	history  string
	cAddress string
	send     bool
	to       string
	amount   string
	asset    string
}

func parseFlags() *smartAccountFlags {
	f := &smartAccountFlags{}
	flag.BoolVar(&f.create, "create", false, "Deploy a smart account owned by the signer")
	flag.StringVar(&f.balance, "balance", "", "Show balances for a smart account address")
	flag.StringVar(&f.history, "history", "", "Show transfer history for a smart account address")
	flag.BoolVar(&f.send, "send", false, "Send from a smart account (needs -c-address, -to, -amount)")
	flag.StringVar(&f.cAddress, "c-address", "", "Smart account address holding the funds (default: looked up from the signer)")
	flag.StringVar(&f.to, "to", "", "Destination address (G... or C...)")
	flag.StringVar(&f.amount, "amount", "", "Amount to send")
	flag.StringVar(&f.asset, "asset", "XLM", "Asset symbol")
	flag.Parse()
	return f
}

func main() {
	_, cleanup := common.InitializeLogger()
	defer cleanup()

	if err := run(); err != nil {
		zap.L().Error("Smart account command failed", zap.Error(err))
		fmt.Printf("\n✗ %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	f := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()

	var gateway signer.Gateway
	session := signer.NewSession()
	owner := ""

	if seed := os.Getenv("SIGNER_SEED"); seed != "" {
		local, err := signer.NewLocal(seed, cfg.Network.Passphrase)
		if err != nil {
			return err
		}
		gateway = local
		if owner, err = local.Connect(ctx, session); err != nil {
			return fmt.Errorf("failed to connect signer: %w", err)
		}
	}

	services, err := common.InitializeServices(cfg, gateway)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	switch {
	case f.create:
		if owner == "" {
			return fmt.Errorf("creating a smart account needs SIGNER_SEED in the environment")
		}
		if existing, err := services.Relayer.LookupSmartAccount(ctx, owner); err == nil && existing != "" {
			fmt.Printf("Smart account already deployed: %s\n", existing)
			return nil
		}
		cAddress, err := services.Relayer.CreateSmartAccount(ctx, owner)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Smart account deployed: %s\n", cAddress)
		return nil

	case f.balance != "":
		balances, err := services.Relayer.SmartAccountBalance(ctx, f.balance)
		if err != nil {
			return err
		}
		common.PrintHeader(fmt.Sprintf("Smart account %s", common.ShortAddress(f.balance)), common.DefaultWidth)
		for i, b := range balances {
			fmt.Printf("%s %-6s: %20s\n", common.BoxPrefix(i == len(balances)-1), b.Asset, b.Balance)
		}
		return nil

	case f.history != "":
		entries, err := services.Relayer.SmartAccountHistory(ctx, f.history, 0)
		if err != nil {
			return err
		}
		common.PrintHeader(fmt.Sprintf("History for %s", common.ShortAddress(f.history)), common.DefaultWidth)
		if len(entries) == 0 {
			fmt.Println("No transfers yet.")
			return nil
		}
		for i, e := range entries {
			fmt.Printf("%s %-8s %s %s  %s (tx %s)\n",
				common.BoxPrefix(i == len(entries)-1),
				e.Type, e.Amount, e.Asset,
				common.ShortAddress(e.Counterparty), common.ShortHash(e.Hash))
		}
		return nil

	case f.send:
		if owner == "" {
			return fmt.Errorf("sending needs SIGNER_SEED in the environment")
		}
		if f.to == "" || f.amount == "" {
			return fmt.Errorf("required flags for -send: -to, -amount")
		}
		if f.cAddress == "" {
			found, err := services.Relayer.LookupSmartAccount(ctx, owner)
			if err != nil {
				return fmt.Errorf("smart account lookup failed: %w", err)
			}
			if found == "" {
				return fmt.Errorf("no smart account found for %s (deploy one with -create)", owner)
			}
			f.cAddress = found
		}

		// Build step: relayer pre-builds the transfer envelope.
		unsignedXDR, err := services.Relayer.BuildSmartTransfer(ctx, models.SmartTransferRequest{
			From:        owner,
			CAddress:    f.cAddress,
			Destination: f.to,
			Asset:       f.asset,
			Amount:      f.amount,
		})
		if err != nil {
			return err
		}

		// Owner signs; relayer co-signs as fee payer on submit.
		signedXDR, err := gateway.Sign(ctx, session, unsignedXDR)
		if err != nil {
			return err
		}

		result := services.Relayer.SubmitSmartTransfer(ctx, signedXDR)
		if !result.Success {
			return fmt.Errorf("smart transfer failed: %s", result.Error)
		}
		fmt.Printf("✓ Sent %s %s from smart account\n", f.amount, f.asset)
		fmt.Printf("  Hash:     %s\n", result.Hash)
		fmt.Printf("  Explorer: %s\n", result.ExplorerURL)
		return nil

	default:
		return fmt.Errorf("one of -create, -balance, -history, -send is required")
	}
}
