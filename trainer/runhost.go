// SPDX-License-Identifier: MIT

package trainer

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tianran/glimvec/embedmodel"
	"github.com/tianran/glimvec/hostbridge"
	"github.com/tianran/glimvec/rngstream"
	"github.com/tianran/glimvec/update"
	"github.com/tianran/glimvec/walker"
)

// RunHost trains model by pulling batches from a host-supplied callback
// instead of sampling them from a local kgraph.Graph. gil, if non-nil, is
// held around every batchFn call and released before the (pure-compute)
// update.Step call, standing in for the original's
// PyGILState_Ensure/Release and Py_BEGIN/END_ALLOW_THREADS bracketing
// around a Python batch generator (see glimvec.cpp's
// glimvec_trainKB_para). Pass a nil gil when batchFn is already safe for
// concurrent, lock-free use.
//
// RunHost returns the first hostbridge parse or callback error encountered
// by any worker; workers already in flight finish their current batch
// before stopping.
func RunHost(ctx context.Context, model *embedmodel.Model, rng *rngstream.Stream, batchFn hostbridge.BatchFunc, numBatches int64, para int, gil hostbridge.GIL, cfg update.Config) error {
	var remainedBatches atomic.Int64
	remainedBatches.Store(numBatches)

	group, gctx := errgroup.WithContext(ctx)
	base := rng.Clone()
	for i := 0; i < para; i++ {
		base.Jump()
		workerRNG := base.Clone()
		workerID := i
		group.Go(func() error {
			return runHostWorker(gctx, workerID, workerRNG, model, batchFn, gil, cfg, &remainedBatches)
		})
	}
	return group.Wait()
}

func runHostWorker(ctx context.Context, workerID int, rng *rngstream.Stream, model *embedmodel.Model, batchFn hostbridge.BatchFunc, gil hostbridge.GIL, cfg update.Config, remained *atomic.Int64) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if remained.Add(-1) < 0 {
			return nil
		}

		if gil != nil {
			gil.Lock()
		}
		raw, err := batchFn(workerID)
		if gil != nil {
			gil.Unlock()
		}
		if err != nil {
			return trainerErrorf("RunHost", "worker %d: %w: %w", workerID, hostbridge.ErrHostCallback, err)
		}

		batch, err := hostbridge.ParseBatch(raw)
		if err != nil {
			return trainerErrorf("RunHost", "worker %d: %w", workerID, err)
		}
		if len(batch.Paths) == 0 {
			continue
		}

		paths := make([]walker.Path, len(batch.Paths))
		for i, p := range batch.Paths {
			paths[i] = p
		}
		update.Step(rng, model, cfg, batch.Seed, paths)
	}
}
