package flashlog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemPartitionDiscipline(t *testing.T) {
	p := NewMemPartition(256, 64)

	buf := make([]byte, 4)
	require.NoError(t, p.Read(0, buf))
	require.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, buf)

	// Programming only clears bits.
	require.NoError(t, p.Write(0, []byte{0xf0, 0x0f, 0xaa, 0x55}))
	require.NoError(t, p.Write(0, []byte{0x0f, 0xff, 0xff, 0x0f}))
	require.NoError(t, p.Read(0, buf))
	require.Equal(t, []byte{0x00, 0x0f, 0xaa, 0x05}, buf)

	// Erase restores the sector, and only the sector.
	require.NoError(t, p.Write(64, []byte{0x00}))
	require.NoError(t, p.EraseRange(0, 64))
	require.NoError(t, p.Read(0, buf))
	require.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, buf)
	one := make([]byte, 1)
	require.NoError(t, p.Read(64, one))
	require.Equal(t, byte(0x00), one[0])

	require.ErrorIs(t, p.EraseRange(32, 64), ErrUnaligned)
	require.ErrorIs(t, p.EraseRange(0, 32), ErrUnaligned)
	require.ErrorIs(t, p.Read(255, buf), ErrOutOfRange)
	require.ErrorIs(t, p.Write(255, buf), ErrOutOfRange)
}

func TestMemPartitionEraseCount(t *testing.T) {
	p := NewMemPartition(256, 64)
	require.NoError(t, p.EraseRange(64, 128))
	require.Equal(t, 0, p.EraseCount(0))
	require.Equal(t, 1, p.EraseCount(1))
	require.Equal(t, 1, p.EraseCount(2))
	require.Equal(t, 0, p.EraseCount(3))
}

func TestFilePartitionPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")

	p, err := OpenFilePartition(path, 256, 64)
	require.NoError(t, err)

	buf := make([]byte, 2)
	require.NoError(t, p.Read(128, buf))
	require.Equal(t, []byte{0xff, 0xff}, buf)

	require.NoError(t, p.Write(128, []byte{0x12, 0x34}))
	require.NoError(t, p.Write(128, []byte{0x10, 0xf4}))
	require.NoError(t, p.Close())

	p, err = OpenFilePartition(path, 256, 64)
	require.NoError(t, err)
	defer p.Close()

	// AND semantics survived the reopen.
	require.NoError(t, p.Read(128, buf))
	require.Equal(t, []byte{0x10, 0x34}, buf)

	require.NoError(t, p.EraseRange(128, 64))
	require.NoError(t, p.Read(128, buf))
	require.Equal(t, []byte{0xff, 0xff}, buf)

	require.ErrorIs(t, p.EraseRange(10, 64), ErrUnaligned)
}

func TestFilePartitionRejectsBadGeometry(t *testing.T) {
	_, err := OpenFilePartition(filepath.Join(t.TempDir(), "x.img"), 100, 64)
	require.Error(t, err)
}
