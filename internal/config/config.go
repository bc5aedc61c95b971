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

package config

import (
	"fmt"
	"os"
	"time"

	"stellar-gasless-go/internal/models"

	"github.com/stellar/go/network"
)

const (
	testnetHorizonURL  = "https://horizon-testnet.stellar.org"
	testnetExplorerURL = "https://stellar.expert/explorer/testnet"
	pubnetHorizonURL   = "https://horizon.stellar.org"
	pubnetExplorerURL  = "https://stellar.expert/explorer/public"

	defaultRelayerURL = "http://localhost:3001"
	defaultProxyURL   = "https://proxy.smoothsend.xyz"
)

func Load() (*models.Config, error) {
	netCfg, err := loadNetwork()
	if err != nil {
		return nil, err
	}

	submitTimeout, err := getEnvDuration("RELAY_SUBMIT_TIMEOUT", 45*time.Second)
	if err != nil {
		return nil, err
	}

	httpTimeout, err := getEnvDuration("RELAY_HTTP_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	balanceInterval, err := getEnvDuration("BALANCE_POLL_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, err
	}

	healthInterval, err := getEnvDuration("HEALTH_POLL_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	claimsInterval, err := getEnvDuration("CLAIMS_POLL_INTERVAL", 20*time.Second)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Network: netCfg,
		Relayer: models.RelayerConfig{
			BaseURL:       getEnvString("RELAYER_URL", defaultRelayerURL),
			ProxyURL:      getEnvString("SMOOTHSEND_PROXY_URL", defaultProxyURL),
			APIKey:        getEnvString("SMOOTHSEND_API_KEY", ""),
			SubmitTimeout: submitTimeout,
			HTTPTimeout:   httpTimeout,
		},
		Poller: models.PollerConfig{
			BalanceInterval: balanceInterval,
			HealthInterval:  healthInterval,
			ClaimsInterval:  claimsInterval,
		},
		AssetsFile: getEnvString("ASSETS_FILE", ""),
	}, nil
}

func loadNetwork() (models.NetworkConfig, error) {
	name := getEnvString("STELLAR_NETWORK", "testnet")

	switch name {
	case "testnet":
		return models.NetworkConfig{
			Name:        name,
			Passphrase:  network.TestNetworkPassphrase,
			HorizonURL:  getEnvString("HORIZON_URL", testnetHorizonURL),
			ExplorerURL: getEnvString("EXPLORER_URL", testnetExplorerURL),
		}, nil
	case "pubnet":
		return models.NetworkConfig{
			Name:        name,
			Passphrase:  network.PublicNetworkPassphrase,
			HorizonURL:  getEnvString("HORIZON_URL", pubnetHorizonURL),
			ExplorerURL: getEnvString("EXPLORER_URL", pubnetExplorerURL),
		}, nil
	default:
		return models.NetworkConfig{}, fmt.Errorf("unknown STELLAR_NETWORK %q (want testnet or pubnet)", name)
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}
