// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"context"
	"io/ioutil"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/primer/interval"
)

// IndexSuffix is appended to a FASTA path to find its faidx index.
const IndexSuffix = ".fai"

// Reference serves faidx-style region fetches from a FASTA file.  It owns the
// open FASTA/index handles and, when the FASTA had no index, a temporary index
// generated at open time.  Close releases all of them.
type Reference struct {
	fa       Fasta
	in       file.File
	idxIn    file.File
	tmpIndex string
}

// NewReference wraps an already loaded Fasta.  Close is a no-op for such a
// Reference.
func NewReference(fa Fasta) *Reference {
	return &Reference{fa: fa}
}

// OpenReference opens the FASTA file at path for random access, using
// path+".fai" if it exists and generating a temporary index otherwise.
func OpenReference(ctx context.Context, path string) (ref *Reference, err error) {
	ref = &Reference{}
	defer func() {
		if err != nil {
			if cerr := ref.Close(ctx); cerr != nil {
				log.Error.Printf("close %s: %v", path, cerr)
			}
			ref = nil
		}
	}()
	if ref.in, err = file.Open(ctx, path); err != nil {
		return ref, errors.E(errors.NotExist, "open reference", path, err)
	}
	indexPath := path + IndexSuffix
	if ref.idxIn, err = file.Open(ctx, indexPath); err != nil {
		log.Printf("%s not found, indexing %s", indexPath, path)
		if indexPath, err = ref.generateIndex(ctx, path); err != nil {
			return ref, err
		}
		if ref.idxIn, err = file.Open(ctx, indexPath); err != nil {
			return ref, errors.E("open generated index", indexPath, err)
		}
	}
	if ref.fa, err = NewIndexed(ref.in.Reader(ctx), ref.idxIn.Reader(ctx)); err != nil {
		return ref, errors.E(errors.Invalid, "load index", indexPath, err)
	}
	log.Printf("opened reference %s: %d sequences", path, len(ref.fa.SeqNames()))
	return ref, nil
}

func (r *Reference) generateIndex(ctx context.Context, path string) (string, error) {
	tmp, err := ioutil.TempFile("", "reference-*.fai")
	if err != nil {
		return "", errors.E("tempfile", err)
	}
	r.tmpIndex = tmp.Name()
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := GenerateIndexFile(ctx, path, r.tmpIndex); err != nil {
		return "", errors.E(errors.Invalid, "index reference", path, err)
	}
	return r.tmpIndex, nil
}

// Fetch returns the bases of region, read as a 1-based closed interval like
// "samtools faidx".  Start is clamped to 1 and End to the sequence length.
// Unknown sequences and empty or out-of-range windows yield "".
func (r *Reference) Fetch(region interval.Region) string {
	n, err := r.fa.Len(region.Name)
	if err != nil {
		return ""
	}
	start, end := region.Start, region.End
	if start < 1 {
		start = 1
	}
	if end > int64(n) {
		end = int64(n)
	}
	if start > end {
		return ""
	}
	seq, err := r.fa.Get(region.Name, uint64(start-1), uint64(end))
	if err != nil {
		log.Error.Printf("fetch %s: %v", region, err)
		return ""
	}
	return seq
}

// Close releases the file handles and removes any generated index.
func (r *Reference) Close(ctx context.Context) (err error) {
	if r.idxIn != nil {
		file.CloseAndReport(ctx, r.idxIn, &err)
		r.idxIn = nil
	}
	if r.in != nil {
		file.CloseAndReport(ctx, r.in, &err)
		r.in = nil
	}
	if r.tmpIndex != "" {
		if e := os.Remove(r.tmpIndex); e != nil && err == nil {
			err = e
		}
		r.tmpIndex = ""
	}
	return err
}
