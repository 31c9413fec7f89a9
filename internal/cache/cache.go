// Package cache checkpoints a parsed report Db to disk so a repeated run
// over the same report can skip re-parsing, grounded on
// internal/rbtree/lz4.go's LZ4 block-compression idiom.
package cache

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/pierrec/lz4/v4"

	"github.com/kinling9/stacompare/internal/model"
)

// entry is the gob-serializable mirror of model.Db's exported fields. Db's
// arenas are unexported, so the cache round-trips through this shape via
// the accessor methods Db already exposes for parsing.
type entry struct {
	Tool, Design string
	Paths        []*model.Path
	Pins         []model.Pin
	Nets         []model.Net
}

// Store serializes db and writes an LZ4-compressed checkpoint to path, as a
// 4-byte little-endian uncompressed-length header followed by the
// compressed block (CompressBlock, not the streaming frame format, mirrors
// the teacher's fixed-size block approach).
func Store(path string, db *model.Db) error {
	e := entry{Tool: db.Tool, Design: db.Design, Paths: db.Paths, Pins: db.PinsSnapshot(), Nets: db.NetsSnapshot()}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(&e); err != nil {
		return fmt.Errorf("cache: encode checkpoint: %w", err)
	}

	compressed := make([]byte, lz4.CompressBlockBound(raw.Len()))

	written, err := lz4.CompressBlock(raw.Bytes(), compressed, nil)
	if err != nil {
		return fmt.Errorf("cache: compress checkpoint: %w", err)
	}

	out := bytes.NewBuffer(make([]byte, 0, 4+written))

	var lenHeader [4]byte

	binary.LittleEndian.PutUint32(lenHeader[:], uint32(raw.Len())) //nolint:gosec // bounded by report size
	out.Write(lenHeader[:])

	if written == 0 {
		// Incompressible (or empty) input: CompressBlock returns 0; store
		// the raw bytes and let Load detect this via the header length
		// matching the remaining file size.
		out.Write(raw.Bytes())
	} else {
		out.Write(compressed[:written])
	}

	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cache: write checkpoint %s: %w", path, err)
	}

	return nil
}

// Load reads and decompresses a checkpoint written by Store, reconstructing
// a Db via model.FromCheckpoint.
func Load(path string) (*model.Db, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cache: read checkpoint %s: %w", path, err)
	}

	if len(raw) < 4 {
		return nil, fmt.Errorf("cache: checkpoint %s truncated", path)
	}

	uncompressedLen := binary.LittleEndian.Uint32(raw[:4])
	body := raw[4:]

	decoded := make([]byte, uncompressedLen)

	if uint32(len(body)) == uncompressedLen { //nolint:gosec // bounded by report size
		copy(decoded, body)
	} else {
		if _, err := lz4.UncompressBlock(body, decoded); err != nil {
			return nil, fmt.Errorf("cache: decompress checkpoint %s: %w", path, err)
		}
	}

	var e entry
	if err := gob.NewDecoder(bytes.NewReader(decoded)).Decode(&e); err != nil {
		return nil, fmt.Errorf("cache: decode checkpoint %s: %w", path, err)
	}

	return model.FromCheckpoint(e.Tool, e.Design, e.Pins, e.Nets, e.Paths), nil
}
