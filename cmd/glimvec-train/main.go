// SPDX-License-Identifier: MIT

// Command glimvec-train fits knowledge-graph embeddings against a
// head/relation/tail triple store and can emit deterministic synthetic
// fixtures for exercising the trainer without a real corpus.
package main

import "github.com/tianran/glimvec/cmd/glimvec-train/cmd"

func main() {
	cmd.Execute()
}
