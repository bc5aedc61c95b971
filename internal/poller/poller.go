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

package poller

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Poller runs a refresh function on a fixed interval for as long as its
// consumer is alive. Stop blocks until the loop has exited, so no refresh
// fires after the consumer is gone.
type Poller struct {
	name     string
	interval time.Duration
	fn       func(context.Context)

	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a poller; it does nothing until Start.
func New(name string, interval time.Duration, fn func(context.Context)) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		fn:       fn,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start launches the loop. The refresh runs once immediately, then on
// every tick, until Stop is called or ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	zap.L().Info("Starting poller",
		zap.String("name", p.name),
		zap.Duration("interval", p.interval))
	go p.loop(ctx)
}

// Stop halts the loop and waits for it to exit.
func (p *Poller) Stop() {
	close(p.stopChan)
	<-p.doneChan
	zap.L().Info("Poller stopped", zap.String("name", p.name))
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.doneChan)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fn(ctx)

	for {
		select {
		case <-ticker.C:
			p.fn(ctx)
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}
