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
	"stellar-gasless-go/internal/signer"

	"go.uber.org/zap"
)

func main() {
	_, cleanup := common.InitializeLogger()
	defer cleanup()

	if err := run(); err != nil {
		zap.L().Error("Claims command failed", zap.Error(err))
		fmt.Printf("\n✗ %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	claimFlag := flag.String("claim", "", "Balance id to claim (requires SIGNER_SEED)")
	addressFlag := flag.String("address", "", "Claimant address (required unless SIGNER_SEED is set)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()

	var gateway signer.Gateway
	session := signer.NewSession()
	claimant := *addressFlag

	if seed := os.Getenv("SIGNER_SEED"); seed != "" {
		local, err := signer.NewLocal(seed, cfg.Network.Passphrase)
		if err != nil {
			return err
		}
		gateway = local
		if claimant, err = local.Connect(ctx, session); err != nil {
			return fmt.Errorf("failed to connect signer: %w", err)
		}
	}

	if claimant == "" {
		return fmt.Errorf("required: --address, or SIGNER_SEED in the environment")
	}

	services, err := common.InitializeServices(cfg, gateway)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	if *claimFlag != "" {
		if gateway == nil {
			return fmt.Errorf("claiming needs SIGNER_SEED in the environment")
		}

		fmt.Printf("Claiming balance %s...\n", common.ShortHash(*claimFlag))
		result := services.Orchestrator.ClaimPending(ctx, session, claimant, *claimFlag)
		if !result.Success {
			return fmt.Errorf("claim failed: %s", result.Error)
		}

		fmt.Printf("✓ Claimed. Hash: %s\n", result.Hash)
		fmt.Printf("  Explorer: %s\n", result.ExplorerURL)
		return nil
	}

	claims, err := services.Relayer.PendingClaims(ctx, claimant)
	if err != nil {
		return fmt.Errorf("failed to list pending claims: %w", err)
	}

	common.PrintHeader(fmt.Sprintf("Pending claims for %s", common.ShortAddress(claimant)), common.DefaultWidth)
	if len(claims) == 0 {
		fmt.Println("No pending claims.")
		return nil
	}

	for i, c := range claims {
		isLast := i == len(claims)-1
		fmt.Printf("%s %s %s\n", common.BoxPrefix(isLast), c.Amount, c.Asset.Code)
		fmt.Printf("%s   id:      %s\n", common.BoxPrefix(isLast), c.ID)
		fmt.Printf("%s   sponsor: %s\n", common.BoxPrefix(isLast), common.ShortAddress(c.Sponsor))
	}
	fmt.Println("\nClaim one with: claims --claim <id> (SIGNER_SEED set)")
	return nil
}
