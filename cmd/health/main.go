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
	"os/signal"
	"syscall"
	"time"

	"stellar-gasless-go/internal/common"
	"stellar-gasless-go/internal/config"
	"stellar-gasless-go/internal/poller"

	"go.uber.org/zap"
)

func main() {
	_, cleanup := common.InitializeLogger()
	defer cleanup()

	watchFlag := flag.Bool("watch", false, "Keep probing until interrupted")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(cfg, nil)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}

	probe := func(ctx context.Context) {
		status := services.Relayer.Health(ctx)
		stamp := time.Now().Format("15:04:05")
		if status.Healthy {
			fmt.Printf("[%s] ✓ relayer healthy  sponsor %s  balance %s XLM\n",
				stamp, common.ShortAddress(status.Address), status.Balance)
		} else {
			fmt.Printf("[%s] ✗ relayer unreachable or unhealthy\n", stamp)
		}
	}

	ctx := context.Background()

	if !*watchFlag {
		probe(ctx)
		return
	}

	p := poller.New("relayer-health", cfg.Poller.HealthInterval, probe)
	p.Start(ctx)
	defer p.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
