// SPDX-License-Identifier: MIT

package trainer

import (
	"context"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tianran/glimvec/embedmodel"
	"github.com/tianran/glimvec/kgraph"
	"github.com/tianran/glimvec/multinomial"
	"github.com/tianran/glimvec/poisson"
	"github.com/tianran/glimvec/rngstream"
	"github.com/tianran/glimvec/update"
	"github.com/tianran/glimvec/vocab"
	"github.com/tianran/glimvec/walker"
)

// progressEvery is the batch-count stride for worker 0's progress log,
// matching trainKB_para's periodic cerr print.
const progressEvery = 100000

// nodeSampleTableSize is the entity lookup table's resolution (1<<16), matching
// trainKB.cpp's samp_node construction.
const nodeSampleTableSize = 1 << 16

// Run trains a fresh or resumed model against g, sampling seed entities
// from ents weighted by count^SampPow, for hp.NumBatches total path
// batches spread across hp.Para workers. rng seeds every worker's
// independent xoroshiro128+ substream via repeated Jump calls, the way
// trainKB.cpp's main seeds each thread's RandomGenerator copy.
//
// Concurrency: workers share one *embedmodel.Model and mutate it
// lock-free (Hogwild!); only each worker's own RNG stream (and Poisson
// sampler) is exclusive to that worker, and the remainedBatches countdown
// is shared by all workers through atomic decrements. See update.Step.
func Run(ctx context.Context, g *kgraph.Graph, ents *vocab.Entities, rng *rngstream.Stream, opts ...Option) (*embedmodel.Model, error) {
	hp := resolve(opts)

	weights := make([]float64, len(ents.Counts))
	for i, c := range ents.Counts {
		weights[i] = math.Pow(c, hp.SampPow)
	}
	sampNode, err := multinomial.NewTable(weights, nodeSampleTableSize)
	if err != nil {
		return nil, trainerErrorf("Run", "building entity sample table: %w", err)
	}

	w := g.NumEntities()
	r := g.NumRelations()

	var model *embedmodel.Model
	if hp.InPath != "" {
		model, err = embedmodel.Load(w, r, hp.InPath)
		if err != nil {
			return nil, trainerErrorf("Run", "loading model from %q: %w", hp.InPath, err)
		}
	} else {
		model = embedmodel.Init(w, r, rng)
		if hp.OutPath != "" {
			if err := model.Save(hp.OutPath + "/init_"); err != nil {
				return nil, trainerErrorf("Run", "saving init snapshot: %w", err)
			}
		}
	}

	var remainedBatches atomic.Int64
	remainedBatches.Store(hp.NumBatches)

	group, gctx := errgroup.WithContext(ctx)
	base := rng.Clone()
	for i := 0; i < hp.Para; i++ {
		base.Jump()
		workerRNG := base.Clone()
		workerID := i
		group.Go(func() error {
			return runWorker(gctx, workerID, workerRNG, g, model, sampNode, hp, &remainedBatches)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if hp.OutPath != "" {
		if err := model.Save(hp.OutPath); err != nil {
			return nil, trainerErrorf("Run", "saving final model: %w", err)
		}
	}
	return model, nil
}

func runWorker(ctx context.Context, workerID int, rng *rngstream.Stream, g *kgraph.Graph, model *embedmodel.Model, sampNode *multinomial.Table, hp HyperParams, remained *atomic.Int64) error {
	poi, err := poisson.New(hp.SampPathLen)
	if err != nil {
		return trainerErrorf("Run", "worker %d: %w", workerID, err)
	}

	var done int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if remained.Add(-1) < 0 {
			return nil
		}

		seed := sampNode.Sample(rng)
		paths := walker.Sample(g, seed, rng, poi)
		if len(paths) == 0 {
			continue
		}
		update.Step(rng, model, hp.Config, seed, paths)

		done++
		if workerID == 0 && done%progressEvery == 0 {
			hp.Logger.Info("trained %d batches (worker 0)", done)
		}
	}
}
