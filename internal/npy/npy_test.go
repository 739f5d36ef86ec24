package npy_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tianran/glimvec/internal/npy"
)

func TestHeaderRoundTrip(t *testing.T) {
	require := require.New(t)

	cases := []struct {
		name    string
		dtype   string
		fortran bool
		shape   []int
	}{
		{"f32", "<f4", false, []int{4, 8}},
		{"f64", "<f8", false, []int{16}},
		{"i32", "<i4", true, []int{2, 3, 5}},
		{"i64", "<i8", false, []int{1}},
		{"u32", "<u4", false, []int{7, 7}},
		{"u64", "<u8", false, nil},
		{"bool", "<b1", false, []int{100}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := npy.WriteHeader(&buf, tc.dtype, tc.fortran, tc.shape)
			require.NoError(err)

			h, err := npy.ReadHeader(&buf)
			require.NoError(err)
			require.Equal(tc.dtype, h.DType)
			require.Equal(tc.fortran, h.Fortran)
			require.Equal(tc.shape, h.Shape)
		})
	}
}

func TestHeaderLengthIsAligned(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	require.NoError(npy.WriteHeader(&buf, "<f4", false, []int{256, 256}))
	require.Equal(0, buf.Len()%16)
}

func TestFloat32ArrayRoundTrip(t *testing.T) {
	require := require.New(t)

	data := []float32{1.5, -2.25, 0, 3.125}
	var buf bytes.Buffer
	require.NoError(npy.WriteFloat32Array(&buf, []int{4}, data))

	got, err := npy.ReadFloat32Array(&buf, []int{4})
	require.NoError(err)
	require.Equal(data, got)
}

func TestUint64ArrayRoundTrip(t *testing.T) {
	require := require.New(t)

	data := []uint64{0, 1, 1<<63 + 7}
	var buf bytes.Buffer
	require.NoError(npy.WriteUint64Array(&buf, []int{3}, data))

	got, err := npy.ReadUint64Array(&buf, []int{3})
	require.NoError(err)
	require.Equal(data, got)
}

func TestReadFloat32Array_RejectsShapeMismatch(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	require.NoError(npy.WriteFloat32Array(&buf, []int{4}, []float32{1, 2, 3, 4}))

	_, err := npy.ReadFloat32Array(&buf, []int{5})
	require.Error(err)
}

func TestReadHeader_RejectsBadMagic(t *testing.T) {
	require := require.New(t)

	_, err := npy.ReadHeader(bytes.NewReader([]byte("not an npy file at all......")))
	require.Error(err)
}
