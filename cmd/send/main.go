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
	"stellar-gasless-go/internal/orchestrator"
	"stellar-gasless-go/internal/signer"

	"go.uber.org/zap"
)

type sendRequest struct {
	destination string
	amount      string
	asset       string
}

func parseAndValidateFlags() (*sendRequest, error) {
	destinationFlag := flag.String("to", "", "Destination address (required)")
	amountFlag := flag.String("amount", "", "Amount to send (required)")
	assetFlag := flag.String("asset", "XLM", "Asset symbol (XLM, USDC, EURC)")
	flag.Parse()

	if *destinationFlag == "" || *amountFlag == "" {
		return nil, fmt.Errorf("required flags: --to, --amount")
	}

	return &sendRequest{
		destination: *destinationFlag,
		amount:      *amountFlag,
		asset:       *assetFlag,
	}, nil
}

func main() {
	_, cleanup := common.InitializeLogger()
	defer cleanup()

	if err := run(); err != nil {
		zap.L().Error("Send failed", zap.Error(err))
		fmt.Printf("\n✗ %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	req, err := parseAndValidateFlags()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	seed := os.Getenv("SIGNER_SEED")
	if seed == "" {
		return fmt.Errorf("missing required SIGNER_SEED environment variable")
	}

	gateway, err := signer.NewLocal(seed, cfg.Network.Passphrase)
	if err != nil {
		return err
	}

	services, err := common.InitializeServices(cfg, gateway)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx := context.Background()

	session := signer.NewSession()
	sender, err := gateway.Connect(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to connect signer: %w", err)
	}

	common.PrintHeader("Gasless Transfer", common.DefaultWidth)
	fmt.Printf("│  From:   %s\n", common.ShortAddress(sender))
	fmt.Printf("│  To:     %s\n", common.ShortAddress(req.destination))
	fmt.Printf("│  Amount: %s %s\n", req.amount, req.asset)
	fmt.Printf("└  Fee:    sponsored by relayer\n")

	intent := orchestrator.NewIntent(sender, req.destination, req.asset, req.amount)

	fmt.Printf("\n%s\n", orchestrator.PhaseBuilding.Status())
	outcome, err := services.Orchestrator.Submit(ctx, intent, session)
	if err != nil {
		return err
	}

	if !outcome.Succeeded() {
		return fmt.Errorf("%s: %s", outcome.Failure, outcome.Cause)
	}

	fmt.Printf("\n✓ Transaction sent as %s transfer\n", outcome.Shape)
	fmt.Printf("  Hash:     %s\n", outcome.Hash)
	fmt.Printf("  Explorer: %s\n", outcome.ExplorerURL)
	common.PrintFooter("Your gasless transfer was successfully relayed.", common.DefaultWidth)
	return nil
}
