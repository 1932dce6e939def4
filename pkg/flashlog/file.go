package flashlog

import (
	"fmt"
	"os"
)

// FilePartition persists a partition image in a host file while keeping
// flash semantics: programming ANDs into existing content, erasing
// rewrites aligned sectors with 0xff. Writes and erases are synced so
// the image survives a host crash the way flash survives power loss.
type FilePartition struct {
	file       *os.File
	size       uint32
	sectorSize uint32
}

// OpenFilePartition opens or creates a partition image. A newly created
// image starts fully erased. size must be a multiple of sectorSize.
func OpenFilePartition(path string, size, sectorSize uint32) (*FilePartition, error) {
	if size == 0 || size%sectorSize != 0 {
		return nil, fmt.Errorf("partition size %d not a multiple of sector size %d", size, sectorSize)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	p := &FilePartition{file: f, size: size, sectorSize: sectorSize}
	if info.Size() != int64(size) {
		// Fresh or resized image: initialize erased.
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, err
		}
		if err := p.EraseRange(0, size); err != nil {
			f.Close()
			return nil, err
		}
	}
	return p, nil
}

// Read implements Partition.
func (p *FilePartition) Read(off uint32, buf []byte) error {
	if int64(off)+int64(len(buf)) > int64(p.size) {
		return ErrOutOfRange
	}
	_, err := p.file.ReadAt(buf, int64(off))
	return err
}

// Write implements Partition.
func (p *FilePartition) Write(off uint32, data []byte) error {
	if int64(off)+int64(len(data)) > int64(p.size) {
		return ErrOutOfRange
	}
	old := make([]byte, len(data))
	if _, err := p.file.ReadAt(old, int64(off)); err != nil {
		return err
	}
	for i := range old {
		old[i] &= data[i]
	}
	if _, err := p.file.WriteAt(old, int64(off)); err != nil {
		return err
	}
	return p.file.Sync()
}

// EraseRange implements Partition.
func (p *FilePartition) EraseRange(off, size uint32) error {
	if off%p.sectorSize != 0 || size%p.sectorSize != 0 {
		return ErrUnaligned
	}
	if int64(off)+int64(size) > int64(p.size) {
		return ErrOutOfRange
	}
	blank := make([]byte, p.sectorSize)
	for i := range blank {
		blank[i] = 0xff
	}
	for o := off; o < off+size; o += p.sectorSize {
		if _, err := p.file.WriteAt(blank, int64(o)); err != nil {
			return err
		}
	}
	return p.file.Sync()
}

// Size implements Partition.
func (p *FilePartition) Size() uint32 {
	return p.size
}

// SectorSize implements Partition.
func (p *FilePartition) SectorSize() uint32 {
	return p.sectorSize
}

// Close closes the backing file.
func (p *FilePartition) Close() error {
	return p.file.Close()
}
