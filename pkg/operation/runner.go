// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 OperationRunner executes operations
type OperationRunner struct {
	logger *zerolog.Logger
	jobs   int
}

// 🏗️ NewRunner creates a new runner. jobs above one runs that many operations concurrently.
func NewRunner(logger *zerolog.Logger, jobs int) *OperationRunner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OperationRunner{
		logger: logger,
		jobs:   max(jobs, 1),
	}
}

// 🏃 Run executes an operation
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	return op.Execute(ctx)
}

// 🏃 RunAll executes ops and stops at the first failure, returning its error. Operations that
// have not started when a failure happens are skipped.
func (r *OperationRunner) RunAll(ctx context.Context, ops []Operation) error {
	if r.jobs == 1 {
		return r.runSync(ctx, ops)
	}
	return r.runAsync(ctx, ops)
}

// 🔄 runSync runs operations one after the other
func (r *OperationRunner) runSync(ctx context.Context, ops []Operation) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := op.Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ⚡ runAsync runs up to r.jobs operations at a time
func (r *OperationRunner) runAsync(ctx context.Context, ops []Operation) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	for _, op := range ops {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			return op.Execute(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("operation cancelled: %w", err)
	}

	r.logger.Debug().Int("operations", len(ops)).Int("jobs", r.jobs).Msg("all operations finished")
	return nil
}
