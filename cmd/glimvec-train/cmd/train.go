// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tianran/glimvec/kgraph"
	"github.com/tianran/glimvec/rngstream"
	"github.com/tianran/glimvec/trainer"
	"github.com/tianran/glimvec/update"
	"github.com/tianran/glimvec/vocab"
)

var (
	sampPow     float64
	sampPathLen float64
	numBatches  int64
	inPath      string
	outPath     string
	para        int
	autoencProb float64
	orthProb    float64
	seed        uint64
)

// trainCmd mirrors trainKB's usage: trainKB [OPTION...] VOCAB_ENTITY
// VOCAB_RELATION TRAIN_FILE.
var trainCmd = &cobra.Command{
	Use:   "train VOCAB_ENTITY VOCAB_RELATION TRAIN_FILE",
	Short: "Train embeddings against a triple corpus",
	Args:  cobra.ExactArgs(3),
	RunE:  runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().Float64Var(&sampPow, "sampPow", 0.75, "entity sampling power (count^sampPow weighting)")
	trainCmd.Flags().Float64Var(&sampPathLen, "sampPathLen", 0.5, "Poisson mean path length for random walks")
	trainCmd.Flags().Int64Var(&numBatches, "numBatches", 1000000, "total path batches to train, split across workers")
	trainCmd.Flags().StringVar(&inPath, "inPath", "", "resume training from a model saved at this directory")
	trainCmd.Flags().StringVar(&outPath, "outPath", "", "directory to persist the trained model to")
	trainCmd.Flags().IntVar(&para, "para", 2, "number of parallel training workers")
	trainCmd.Flags().Float64Var(&autoencProb, "autoencProb", update.DefaultConfig().AutoencProb, "per-step trial probability of the autoencoder regularizer")
	trainCmd.Flags().Float64Var(&orthProb, "orthProb", update.DefaultConfig().OrthProb, "per-step trial probability of the orthogonality regularizer")
	trainCmd.Flags().Uint64Var(&seed, "seed", 1, "RNG seed for model init and worker streams")
}

func runTrain(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	entityPath, relationPath, triplePath := args[0], args[1], args[2]

	ents, rels, triples, err := loadVocab(entityPath, relationPath, triplePath)
	if err != nil {
		return err
	}
	log.Info("loaded %d entities, %d relations, %d triples", len(ents.Names), len(rels.Names), len(triples))

	g, err := kgraph.Load(uint32(len(ents.Names)), uint32(len(rels.Names)), triples)
	if err != nil {
		return fmt.Errorf("building graph: %w", err)
	}

	rng := rngstream.NewFromSeed(seed)
	cfg := update.Config{AutoencProb: autoencProb, OrthProb: orthProb}

	_, err = trainer.Run(context.Background(), g, ents, rng,
		trainer.WithSampPow(sampPow),
		trainer.WithSampPathLen(sampPathLen),
		trainer.WithNumBatches(numBatches),
		trainer.WithInPath(inPath),
		trainer.WithOutPath(outPath),
		trainer.WithPara(para),
		trainer.WithUpdateConfig(cfg),
		trainer.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	log.Info("training complete: %d entities, %d relations", g.NumEntities(), g.NumRelations())
	return nil
}

func loadVocab(entityPath, relationPath, triplePath string) (*vocab.Entities, *vocab.Relations, []kgraph.Triple, error) {
	ef, err := os.Open(entityPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening entity vocab: %w", err)
	}
	defer ef.Close()
	ents, err := vocab.LoadEntities(vocab.NewLineReader(ef))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading entity vocab: %w", err)
	}

	rf, err := os.Open(relationPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening relation vocab: %w", err)
	}
	defer rf.Close()
	rels, err := vocab.LoadRelations(vocab.NewLineReader(rf))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading relation vocab: %w", err)
	}

	tf, err := os.Open(triplePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening triple file: %w", err)
	}
	defer tf.Close()
	triples, err := vocab.LoadTriples(vocab.NewLineReader(tf), ents, rels)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading triples: %w", err)
	}

	return ents, rels, triples, nil
}
