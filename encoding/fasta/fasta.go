// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fasta reads reference sequences from FASTA files, either fully into
// memory or by random access through a faidx (.fai) index, and serves the
// 1-based region fetches primer design needs.  See
// http://www.htslib.org/doc/faidx.html.
//
// A FASTA file is a series of ">name" headers, each followed by the bases of
// that sequence split over any number of lines:
//
// >chr7 optional description
// ACGTAC
// GAGGAC
// GCG
//
// The sequence name ends at the first space of the header line.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// maxLineLen bounds the length of a single FASTA line read into memory.
const maxLineLen = 1 << 28

// Fasta is a set of named sequences.
type Fasta interface {
	// Get returns bases [start, end) of the named sequence, 0-based.  It is
	// safe for concurrent use.
	Get(seqName string, start, end uint64) (string, error)

	// Len returns the length of the named sequence.
	Len(seqName string) (uint64, error)

	// SeqNames lists the sequence names in file order.
	SeqNames() []string
}

func errNotFound(seqName string) error {
	return errors.Errorf("sequence %s not found", seqName)
}

// checkRange validates [start, end) against a sequence of the given length.
func checkRange(seqName string, start, end, length uint64) error {
	if end <= start {
		return errors.Errorf("%s: empty range [%d, %d)", seqName, start, end)
	}
	if end > length {
		return errors.Errorf("%s: range [%d, %d) is past the sequence end %d", seqName, start, end, length)
	}
	return nil
}

// headerName extracts the sequence name from a ">name description" line.
func headerName(line string) string {
	name := line[1:]
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[:i]
	}
	return name
}

type memFasta struct {
	seqs  map[string]string
	names []string
}

// New reads every sequence of r into memory.
func New(r io.Reader) (Fasta, error) {
	f := &memFasta{seqs: make(map[string]string)}
	var (
		name string
		seq  strings.Builder
	)
	add := func() {
		if name != "" {
			f.seqs[name] = seq.String()
			f.names = append(f.names, name)
		}
		seq.Reset()
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineLen)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case line == "":
		case line[0] == '>':
			add()
			name = headerName(line)
		case name == "":
			return nil, errors.New("malformed FASTA: bases before the first header")
		default:
			seq.WriteString(line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read FASTA")
	}
	add()
	return f, nil
}

func (f *memFasta) Get(seqName string, start, end uint64) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errNotFound(seqName)
	}
	if err := checkRange(seqName, start, end, uint64(len(s))); err != nil {
		return "", err
	}
	return s[start:end], nil
}

func (f *memFasta) Len(seqName string) (uint64, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errNotFound(seqName)
	}
	return uint64(len(s)), nil
}

func (f *memFasta) SeqNames() []string { return f.names }
