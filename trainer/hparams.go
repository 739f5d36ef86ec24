// SPDX-License-Identifier: MIT
//
// Package trainer drives the parallel training loop: sample a seed entity,
// walk it into a path batch, apply update.Step, repeat until numBatches
// have been consumed across all workers. Grounded on trainKB.cpp's
// trainKB_para/main (see DESIGN.md) and glimvec.cpp's host-driven variant
// (RunHost). HyperParams/Option follow lvlath/builder's functional-option
// pattern (BuilderOption/newBuilderConfig), generalized to the handful of
// knobs the original exposes on its CLI (sampPow, sampPathLen, numBatches,
// inPath, outPath, para); everything else stays an update-package constant,
// per spec.md's Non-goal on hyperparameter tuning.
package trainer

import (
	"github.com/tianran/glimvec/internal/glog"
	"github.com/tianran/glimvec/update"
)

// HyperParams holds the handful of training-run-shaped knobs the original
// exposes as CLI flags.
type HyperParams struct {
	// SampPow is the exponent entity sampling weights are raised to before
	// building the multinomial table (freq^SampPow).
	SampPow float64
	// SampPathLen is the Poisson rate lambda; each walk's length is
	// 1+Poisson(SampPathLen).
	SampPathLen float64
	// NumBatches is the total number of path batches to train on, summed
	// across all workers.
	NumBatches int64
	// InPath, if non-empty, resumes training from a model saved there
	// instead of initializing a fresh one.
	InPath string
	// OutPath is the directory saved models (and the "init_"-prefixed
	// pre-training snapshot) are written under.
	OutPath string
	// Para is the number of parallel training workers.
	Para int
	// Config controls the update kernel's regularizer trial probabilities.
	Config update.Config
	// Logger receives progress updates; defaults to a silent NullLogger.
	Logger glog.Logger
}

func defaultHyperParams() HyperParams {
	return HyperParams{
		SampPow:     0.75,
		SampPathLen: 0.5,
		NumBatches:  1000000,
		Para:        2,
		Config:      update.DefaultConfig(),
		Logger:      glog.NullLogger{},
	}
}

// Option customizes a HyperParams value before a Run/RunHost call.
type Option func(*HyperParams)

// WithSampPow sets the entity sampling exponent.
func WithSampPow(p float64) Option { return func(hp *HyperParams) { hp.SampPow = p } }

// WithSampPathLen sets the walk-length Poisson rate.
func WithSampPathLen(lambda float64) Option { return func(hp *HyperParams) { hp.SampPathLen = lambda } }

// WithNumBatches sets the total batch count to train.
func WithNumBatches(n int64) Option { return func(hp *HyperParams) { hp.NumBatches = n } }

// WithInPath resumes training from a previously saved model.
func WithInPath(path string) Option { return func(hp *HyperParams) { hp.InPath = path } }

// WithOutPath sets the directory saved models are written under.
func WithOutPath(path string) Option { return func(hp *HyperParams) { hp.OutPath = path } }

// WithPara sets the number of parallel training workers.
func WithPara(n int) Option { return func(hp *HyperParams) { hp.Para = n } }

// WithUpdateConfig overrides the update kernel's regularizer configuration.
func WithUpdateConfig(cfg update.Config) Option { return func(hp *HyperParams) { hp.Config = cfg } }

// WithLogger sets the progress logger; pass glog.NullLogger{} for silence.
func WithLogger(l glog.Logger) Option { return func(hp *HyperParams) { hp.Logger = l } }

func resolve(opts []Option) HyperParams {
	hp := defaultHyperParams()
	for _, opt := range opts {
		opt(&hp)
	}
	return hp
}
