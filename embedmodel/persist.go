// SPDX-License-Identifier: MIT

package embedmodel

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/tianran/glimvec/internal/npy"
)

// Save writes all eight tensors of m to dir, one .npy file each, matching
// the original layout: cvecs.npy [W,D], tvecs.npy [W,D], vsteps.npy [2W],
// mats.npy [2R,D,D], msteps.npy [2R], encoder.npy and decoder.npy
// [K,D,D], dstep.npy (scalar).
func (m *Model) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return persistErrorf("Save", "%w", err)
	}

	w := int(m.W)
	r := int(m.R)

	if err := writeFloatFile(filepath.Join(dir, "cvecs.npy"), []int{w, Dim}, m.CT[:w*Dim]); err != nil {
		return persistErrorf("Save", "%w", err)
	}
	if err := writeFloatFile(filepath.Join(dir, "tvecs.npy"), []int{w, Dim}, m.CT[w*Dim:2*w*Dim]); err != nil {
		return persistErrorf("Save", "%w", err)
	}
	if err := writeUintFile(filepath.Join(dir, "vsteps.npy"), []int{2 * w}, snapshotCounters(m.VSteps)); err != nil {
		return persistErrorf("Save", "%w", err)
	}
	if err := writeFloatFile(filepath.Join(dir, "mats.npy"), []int{2 * r, Dim, Dim}, m.Mats); err != nil {
		return persistErrorf("Save", "%w", err)
	}
	if err := writeUintFile(filepath.Join(dir, "msteps.npy"), []int{2 * r}, snapshotCounters(m.MSteps)); err != nil {
		return persistErrorf("Save", "%w", err)
	}
	if err := writeFloatFile(filepath.Join(dir, "encoder.npy"), []int{CodeLen, Dim, Dim}, m.Enc); err != nil {
		return persistErrorf("Save", "%w", err)
	}
	if err := writeFloatFile(filepath.Join(dir, "decoder.npy"), []int{CodeLen, Dim, Dim}, m.Dec); err != nil {
		return persistErrorf("Save", "%w", err)
	}
	if err := writeUintFile(filepath.Join(dir, "dstep.npy"), nil, []uint64{m.DEncStep.Load()}); err != nil {
		return persistErrorf("Save", "%w", err)
	}
	return nil
}

// Load reads a Model for w entities and r forward relations previously
// written by Save (or by Init followed by Save under an "init_" prefix)
// from dir.
func Load(w, r uint32, dir string) (*Model, error) {
	m := &Model{W: w, R: r}

	wi, ri := int(w), int(r)

	cvecs, err := readFloatFile(filepath.Join(dir, "cvecs.npy"), []int{wi, Dim})
	if err != nil {
		return nil, persistErrorf("Load", "%w", err)
	}
	tvecs, err := readFloatFile(filepath.Join(dir, "tvecs.npy"), []int{wi, Dim})
	if err != nil {
		return nil, persistErrorf("Load", "%w", err)
	}
	m.CT = append(cvecs, tvecs...)

	vsteps, err := readUintFile(filepath.Join(dir, "vsteps.npy"), []int{2 * wi})
	if err != nil {
		return nil, persistErrorf("Load", "%w", err)
	}
	m.VSteps = make([]atomic.Uint64, len(vsteps))
	for i, v := range vsteps {
		m.VSteps[i].Store(v)
	}

	mats, err := readFloatFile(filepath.Join(dir, "mats.npy"), []int{2 * ri, Dim, Dim})
	if err != nil {
		return nil, persistErrorf("Load", "%w", err)
	}
	m.Mats = mats

	msteps, err := readUintFile(filepath.Join(dir, "msteps.npy"), []int{2 * ri})
	if err != nil {
		return nil, persistErrorf("Load", "%w", err)
	}
	m.MSteps = make([]atomic.Uint64, len(msteps))
	for i, v := range msteps {
		m.MSteps[i].Store(v)
	}

	enc, err := readFloatFile(filepath.Join(dir, "encoder.npy"), []int{CodeLen, Dim, Dim})
	if err != nil {
		return nil, persistErrorf("Load", "%w", err)
	}
	m.Enc = enc

	dec, err := readFloatFile(filepath.Join(dir, "decoder.npy"), []int{CodeLen, Dim, Dim})
	if err != nil {
		return nil, persistErrorf("Load", "%w", err)
	}
	m.Dec = dec

	dstep, err := readUintFile(filepath.Join(dir, "dstep.npy"), nil)
	if err != nil {
		return nil, persistErrorf("Load", "%w", err)
	}
	m.DEncStep.Store(dstep[0])

	return m, nil
}

func writeFloatFile(path string, shape []int, data []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return npy.WriteFloat32Array(f, shape, data)
}

func readFloatFile(path string, shape []int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return npy.ReadFloat32Array(f, shape)
}

func writeUintFile(path string, shape []int, data []uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return npy.WriteUint64Array(f, shape, data)
}

func readUintFile(path string, shape []int) ([]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return npy.ReadUint64Array(f, shape)
}

func snapshotCounters(counters []atomic.Uint64) []uint64 {
	out := make([]uint64, len(counters))
	for i := range counters {
		out[i] = counters[i].Load()
	}
	return out
}

func persistErrorf(method, format string, args ...interface{}) error {
	return fmt.Errorf("embedmodel: %s: "+format, append([]interface{}{method}, args...)...)
}
