package bloomkit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot wire layout: a fixed little-endian header (magic, version, payload
// size) followed by a msgpack payload. The payload carries everything needed
// to rebuild the filter bit-for-bit: parameters, derived shape, insert
// counter, and the raw bit words.

const (
	snapshotMagic   = "BKS1"
	snapshotVersion = uint8(1)
)

var (
	ErrBadMagic    = errors.New("bloomkit: snapshot magic invalid")
	ErrBadVersion  = errors.New("bloomkit: snapshot version unsupported")
	ErrBadSnapshot = errors.New("bloomkit: snapshot payload invalid")
)

var sizeOfSnapshotHeader = binary.Size(snapshotHeader{})

type snapshotHeader struct {
	Magic       [4]byte
	Version     uint8
	PayloadSize uint32
}

type snapshot struct {
	FalsePositiveRate float64  `msgpack:"p"`
	ExpectedElements  int      `msgpack:"n"`
	BitLength         int      `msgpack:"m"`
	HashCount         int      `msgpack:"k"`
	Strategy          uint8    `msgpack:"s"`
	Inserted          int      `msgpack:"c"`
	Words             []uint64 `msgpack:"w"`
}

// Marshal appends a snapshot of the filter to buf.
func (f *BloomFilter) Marshal(buf *bytes.Buffer) error {
	payload, err := msgpack.Marshal(snapshot{
		FalsePositiveRate: f.p,
		ExpectedElements:  f.n,
		BitLength:         f.m,
		HashCount:         f.k,
		Strategy:          uint8(f.strategy),
		Inserted:          f.inserted,
		Words:             f.bits.words(),
	})
	if err != nil {
		return err
	}

	hdr := snapshotHeader{
		Version:     snapshotVersion,
		PayloadSize: uint32(len(payload)),
	}
	copy(hdr.Magic[:], snapshotMagic)
	if err := binary.Write(buf, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	_, err = buf.Write(payload)
	return err
}

// UnMarshalFilter rebuilds a filter from a snapshot produced by Marshal. The
// restored filter has exactly the saved m, k, strategy, and bit contents.
func UnMarshalFilter(src []byte) (*BloomFilter, error) {
	if len(src) < sizeOfSnapshotHeader {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrBadSnapshot, len(src))
	}

	hdr := snapshotHeader{}
	if err := binary.Read(bytes.NewReader(src[:sizeOfSnapshotHeader]), binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	if string(hdr.Magic[:]) != snapshotMagic {
		return nil, ErrBadMagic
	}
	if hdr.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, hdr.Version)
	}
	payload := src[sizeOfSnapshotHeader:]
	if uint32(len(payload)) < hdr.PayloadSize {
		return nil, fmt.Errorf("%w: payload truncated", ErrBadSnapshot)
	}

	snap := snapshot{}
	if err := msgpack.Unmarshal(payload[:hdr.PayloadSize], &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	return filterFromSnapshot(snap)
}

func filterFromSnapshot(snap snapshot) (*BloomFilter, error) {
	if snap.FalsePositiveRate <= 0 || snap.FalsePositiveRate >= 1 {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, ErrInvalidFalsePositiveRate)
	}
	if snap.ExpectedElements <= 0 {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, ErrInvalidExpectedElements)
	}
	if !Strategy(snap.Strategy).valid() {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, ErrInvalidStrategy)
	}
	if snap.BitLength < 1 || snap.HashCount < 1 || snap.Inserted < 0 {
		return nil, fmt.Errorf("%w: m=%d k=%d inserted=%d", ErrBadSnapshot, snap.BitLength, snap.HashCount, snap.Inserted)
	}

	bits, err := bitArrayFromWords(snap.BitLength, snap.Words)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	return &BloomFilter{
		bits:     bits,
		m:        snap.BitLength,
		k:        snap.HashCount,
		n:        snap.ExpectedElements,
		p:        snap.FalsePositiveRate,
		strategy: Strategy(snap.Strategy),
		inserted: snap.Inserted,
	}, nil
}
