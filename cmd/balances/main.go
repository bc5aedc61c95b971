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
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stellar-gasless-go/internal/common"
	"stellar-gasless-go/internal/config"
	"stellar-gasless-go/internal/horizon"
	"stellar-gasless-go/internal/models"
	"stellar-gasless-go/internal/poller"

	"go.uber.org/zap"
)

func printHoldings(holdings []models.AccountHolding) {
	for i, h := range holdings {
		fmt.Printf("%s %-6s: %20s\n", common.BoxPrefix(i == len(holdings)-1), h.Asset.Code, h.Balance)
	}
}

func printPendingClaims(claims []models.PendingClaim) {
	if len(claims) == 0 {
		return
	}
	fmt.Printf("\nPending claims (%d):\n", len(claims))
	for i, c := range claims {
		fmt.Printf("%s %s %s from %s (id %s)\n",
			common.BoxPrefix(i == len(claims)-1),
			c.Amount, c.Asset.Code,
			common.ShortAddress(c.Sponsor),
			common.ShortHash(c.ID))
	}
}

func main() {
	_, cleanup := common.InitializeLogger()
	defer cleanup()

	addressFlag := flag.String("address", "", "Account address to inspect (required)")
	watchFlag := flag.Bool("watch", false, "Keep refreshing until interrupted")
	flag.Parse()

	if *addressFlag == "" {
		fmt.Println("Required flag: --address")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(cfg, nil)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}

	ctx := context.Background()

	refresh := func(ctx context.Context) {
		common.PrintHeader(fmt.Sprintf("Balances for %s", common.ShortAddress(*addressFlag)), common.DefaultWidth)

		holdings, err := services.Accounts.Holdings(ctx, *addressFlag)
		switch {
		case errors.Is(err, horizon.ErrAccountNotFound):
			fmt.Println("Account not yet on ledger (it can still receive escrow transfers).")
		case err != nil:
			fmt.Printf("✗ balance lookup failed: %v\n", err)
			return
		default:
			printHoldings(holdings)
		}

		claims, err := services.Relayer.PendingClaims(ctx, *addressFlag)
		if err != nil {
			zap.L().Warn("Pending claim lookup failed", zap.Error(err))
			return
		}
		printPendingClaims(claims)
	}

	if !*watchFlag {
		refresh(ctx)
		return
	}

	p := poller.New("balances", cfg.Poller.BalanceInterval, refresh)
	p.Start(ctx)
	defer p.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
