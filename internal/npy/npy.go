// SPDX-License-Identifier: MIT
//
// Package npy implements the NumPy .npy v1.0 container format used to
// persist model tensors: a fixed magic, a 16-byte-aligned ASCII dict
// header, followed by raw little-endian array bytes.
//
// AI-HINT (file):
//   - WriteHeader/ReadHeader round-trip (DType, Fortran, Shape); ReadHeader
//     does not read the array payload.
//   - Ported directly from the original C++ misc.h/misc.cpp; this package
//     has no analogue in the example pack, so it is grounded on the
//     original source rather than on the teacher repo (see DESIGN.md).
package npy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Magic is the fixed 6-byte NumPy format marker.
var Magic = [6]byte{0x93, 'N', 'U', 'M', 'P', 'Y'}

// ErrBadMagic indicates the stream did not start with the NumPy magic
// bytes and version.
var ErrBadMagic = errors.New("npy: bad magic or unsupported version")

// ErrBadHeader indicates the dict header could not be parsed.
var ErrBadHeader = errors.New("npy: malformed header dict")

// ErrShapeMismatch indicates a header's dtype or shape did not match what
// the caller expected.
var ErrShapeMismatch = errors.New("npy: dtype/shape mismatch")

// Header describes an .npy array's metadata.
type Header struct {
	DType   string
	Fortran bool
	Shape   []int
}

// Float32DType and Uint64DType are the two dtypes glimvec's tensors use.
// Computed once at init time from the running platform's endianness,
// mirroring misc::numpy_dtype / misc::isLittleEndian.
var (
	Float32DType string
	Uint64DType  string
)

func init() {
	endianByte := byte('<')
	if !isLittleEndian() {
		endianByte = '>'
	}
	Float32DType = string(endianByte) + "f4"
	Uint64DType = string(endianByte) + "u8"
}

func isLittleEndian() bool {
	var x uint16 = 1
	buf := make([]byte, 2)
	binary.NativeEndian.PutUint16(buf, x)
	return buf[0] == 1
}

// WriteHeader writes a complete .npy header (magic, version, padded dict)
// for an array of the given dtype and shape.
func WriteHeader(w io.Writer, dtype string, fortran bool, shape []int) error {
	var dict strings.Builder
	dict.WriteString("{'descr': '")
	dict.WriteString(dtype)
	dict.WriteString("', 'fortran_order': ")
	if fortran {
		dict.WriteString("True")
	} else {
		dict.WriteString("False")
	}
	dict.WriteString(", 'shape': (")
	for i, d := range shape {
		if i > 0 {
			dict.WriteString(",")
		}
		dict.WriteString(strconv.Itoa(d))
	}
	if len(shape) > 0 {
		dict.WriteString(",")
	}
	dict.WriteString(") }")

	body := dict.String()
	pad := 15 - (len(body)+10)%16
	body += strings.Repeat(" ", pad)
	body += "\n"

	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{0x01, 0x00}); err != nil {
		return err
	}
	lenBuf := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBuf, uint16(len(body)))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	_, err := w.Write([]byte(body))
	return err
}

// ReadHeader parses a complete .npy header from r, leaving the stream
// positioned at the start of the raw array bytes.
func ReadHeader(r io.Reader) (Header, error) {
	br := r

	var magic [6]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return Header{}, fmt.Errorf("npy: ReadHeader: %w", err)
	}
	var ver [2]byte
	if _, err := io.ReadFull(br, ver[:]); err != nil {
		return Header{}, fmt.Errorf("npy: ReadHeader: %w", err)
	}
	if magic != Magic || ver[0] != 0x01 || ver[1] != 0x00 {
		return Header{}, fmt.Errorf("npy: ReadHeader: %w", ErrBadMagic)
	}

	lenBuf := make([]byte, 2)
	if _, err := io.ReadFull(br, lenBuf); err != nil {
		return Header{}, fmt.Errorf("npy: ReadHeader: %w", err)
	}
	dictLen := binary.LittleEndian.Uint16(lenBuf)

	dictBuf := make([]byte, dictLen)
	if _, err := io.ReadFull(br, dictBuf); err != nil {
		return Header{}, fmt.Errorf("npy: ReadHeader: %w", err)
	}
	dict := string(dictBuf)
	if !strings.HasSuffix(dict, "\n") {
		return Header{}, fmt.Errorf("npy: ReadHeader: %w: missing trailing newline", ErrBadHeader)
	}

	dtype, err := getField(dict, "descr", "'\": \t\n", "'\"")
	if err != nil {
		return Header{}, fmt.Errorf("npy: ReadHeader: %w", err)
	}
	fortranStr, err := getField(dict, "fortran_order", "'\": \t\n", ", \t\n")
	if err != nil {
		return Header{}, fmt.Errorf("npy: ReadHeader: %w", err)
	}
	shapeStr, err := getField(dict, "shape", "'\": (\t\n", ")")
	if err != nil {
		return Header{}, fmt.Errorf("npy: ReadHeader: %w", err)
	}

	var shape []int
	for _, tok := range strings.Split(shapeStr, ",") {
		tok = strings.Trim(tok, " \t\n")
		if tok == "" {
			continue
		}
		d, err := strconv.Atoi(tok)
		if err != nil {
			return Header{}, fmt.Errorf("npy: ReadHeader: %w: %v", ErrBadHeader, err)
		}
		shape = append(shape, d)
	}

	return Header{
		DType:   dtype,
		Fortran: strings.HasPrefix(fortranStr, "True"),
		Shape:   shape,
	}, nil
}

// getField mirrors misc::getField: find desc, skip any of lch, take up to
// the first of rch.
func getField(s, desc, lch, rch string) (string, error) {
	idx := strings.Index(s, desc)
	if idx < 0 {
		return "", fmt.Errorf("%w: field %q not found", ErrBadHeader, desc)
	}
	start := idx + len(desc)
	for start < len(s) && strings.ContainsRune(lch, rune(s[start])) {
		start++
	}
	end := start
	for end < len(s) && !strings.ContainsRune(rch, rune(s[end])) {
		end++
	}
	return s[start:end], nil
}

// CheckHeader verifies a parsed header matches the expected dtype and
// shape exactly, returning ErrShapeMismatch otherwise.
func CheckHeader(h Header, dtype string, shape []int) error {
	if h.DType != dtype {
		return fmt.Errorf("npy: CheckHeader: %w: dtype %q != %q", ErrShapeMismatch, h.DType, dtype)
	}
	if len(h.Shape) != len(shape) {
		return fmt.Errorf("npy: CheckHeader: %w: shape %v != %v", ErrShapeMismatch, h.Shape, shape)
	}
	for i := range shape {
		if h.Shape[i] != shape[i] {
			return fmt.Errorf("npy: CheckHeader: %w: shape %v != %v", ErrShapeMismatch, h.Shape, shape)
		}
	}
	return nil
}

// WriteFloat32Array writes a complete .npy file (header + payload) for a
// flat row-major float32 array of the given shape.
func WriteFloat32Array(w io.Writer, shape []int, data []float32) error {
	if err := WriteHeader(w, Float32DType, false, shape); err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	buf.Grow(len(data) * 4)
	for _, v := range data {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ReadFloat32Array reads a complete .npy file, verifying its header
// matches shape, and returns the flat row-major payload.
func ReadFloat32Array(r io.Reader, shape []int) ([]float32, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if err := CheckHeader(h, Float32DType, shape); err != nil {
		return nil, err
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	out := make([]float32, n)
	if err := binary.Read(r, binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("npy: ReadFloat32Array: %w", err)
	}
	return out, nil
}

// WriteUint64Array writes a complete .npy file for a flat uint64 array of
// the given shape (pass nil shape for a scalar, matching the original's
// dstep.npy).
func WriteUint64Array(w io.Writer, shape []int, data []uint64) error {
	if err := WriteHeader(w, Uint64DType, false, shape); err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	buf.Grow(len(data) * 8)
	for _, v := range data {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ReadUint64Array reads a complete .npy file, verifying its header matches
// shape, and returns the flat payload.
func ReadUint64Array(r io.Reader, shape []int) ([]uint64, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if err := CheckHeader(h, Uint64DType, shape); err != nil {
		return nil, err
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	out := make([]uint64, n)
	if err := binary.Read(r, binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("npy: ReadUint64Array: %w", err)
	}
	return out, nil
}
