// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// minWindow is the smallest read issued against the FASTA file.  Neighboring
// fetches, such as the flanks of one target, usually fall in the same window.
const minWindow = 8192

// faiEntry is one line of a faidx index: "name\tlength\toffset\tbases per
// line\tbytes per line", e.g. "chr3\t12345\t9000\t80\t81".
type faiEntry struct {
	length    uint64
	offset    uint64
	lineBases uint64
	lineBytes uint64
}

// byteOffset returns the file offset of the 0-based base pos.
func (e faiEntry) byteOffset(pos uint64) uint64 {
	return e.offset + pos/e.lineBases*e.lineBytes + pos%e.lineBases
}

func parseFai(r io.Reader) (map[string]faiEntry, []string, error) {
	var (
		index = make(map[string]faiEntry)
		names []string
	)
	sc := bufio.NewScanner(r)
	for lineno := 1; sc.Scan(); lineno++ {
		cols := strings.Split(sc.Text(), "\t")
		if len(cols) < 5 {
			return nil, nil, errors.Errorf("fai line %d: want 5 columns, found %d", lineno, len(cols))
		}
		var v [4]uint64
		for i := range v {
			n, err := strconv.ParseUint(cols[i+1], 10, 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "fai line %d", lineno)
			}
			v[i] = n
		}
		e := faiEntry{length: v[0], offset: v[1], lineBases: v[2], lineBytes: v[3]}
		if e.length > 0 && (e.lineBases == 0 || e.lineBytes < e.lineBases) {
			return nil, nil, errors.Errorf("fai line %d: bad line geometry %d/%d", lineno, e.lineBases, e.lineBytes)
		}
		index[cols[0]] = e
		names = append(names, cols[0])
	}
	if err := sc.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "read fai")
	}
	sort.SliceStable(names, func(i, j int) bool {
		return index[names[i]].offset < index[names[j]].offset
	})
	return index, names, nil
}

type indexedFasta struct {
	index map[string]faiEntry
	names []string

	mu     sync.Mutex
	r      io.ReadSeeker
	winOff int64
	win    []byte // file bytes starting at winOff
	seq    []byte
}

// NewIndexed creates a Fasta that reads bases from fasta on demand, locating
// them through the faidx index.
func NewIndexed(fasta io.ReadSeeker, index io.Reader) (Fasta, error) {
	idx, names, err := parseFai(index)
	if err != nil {
		return nil, err
	}
	return &indexedFasta{index: idx, names: names, r: fasta}, nil
}

func (f *indexedFasta) Len(seqName string) (uint64, error) {
	e, ok := f.index[seqName]
	if !ok {
		return 0, errNotFound(seqName)
	}
	return e.length, nil
}

func (f *indexedFasta) SeqNames() []string { return f.names }

// read returns the n file bytes at off.  REQUIRES: f.mu is held.
func (f *indexedFasta) read(off int64, n int) ([]byte, error) {
	if off < f.winOff || off+int64(n) > f.winOff+int64(len(f.win)) {
		if _, err := f.r.Seek(off, io.SeekStart); err != nil {
			return nil, errors.Wrapf(err, "seek to %d", off)
		}
		size := n
		if size < minWindow {
			size = minWindow
		}
		if cap(f.win) < size {
			f.win = make([]byte, size)
		}
		f.win = f.win[:size]
		got, err := io.ReadAtLeast(f.r, f.win, n)
		if got < n {
			f.win = f.win[:0]
			return nil, errors.Wrapf(err, "short read at %d, index does not match the FASTA file", off)
		}
		f.winOff = off
		f.win = f.win[:got]
	}
	return f.win[off-f.winOff : off-f.winOff+int64(n)], nil
}

func (f *indexedFasta) Get(seqName string, start, end uint64) (string, error) {
	e, ok := f.index[seqName]
	if !ok {
		return "", errNotFound(seqName)
	}
	if err := checkRange(seqName, start, end, e.length); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	from, to := e.byteOffset(start), e.byteOffset(end-1)+1
	raw, err := f.read(int64(from), int(to-from))
	if err != nil {
		return "", err
	}
	// Drop the line terminators: only the first lineBases columns are bases.
	f.seq = f.seq[:0]
	col := (from - e.offset) % e.lineBytes
	for _, b := range raw {
		if col < e.lineBases {
			f.seq = append(f.seq, b)
		}
		if col++; col == e.lineBytes {
			col = 0
		}
	}
	return string(f.seq), nil
}
