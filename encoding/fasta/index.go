// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// GenerateIndex writes the faidx index of the FASTA data in to out, in the
// format produced by "samtools faidx".  Line geometry is taken from the first
// line of each sequence.
func GenerateIndex(out io.Writer, in io.Reader) error {
	var (
		w     = tsv.NewWriter(out)
		r     = bufio.NewReader(in)
		name  string
		cur   faiEntry
		pos   int64
		inSeq bool
	)
	emit := func() error {
		if !inSeq {
			return nil
		}
		w.WriteString(name)
		w.WriteInt64(int64(cur.length))
		w.WriteInt64(int64(cur.offset))
		w.WriteInt64(int64(cur.lineBases))
		w.WriteInt64(int64(cur.lineBytes))
		return w.EndLine()
	}
	for {
		raw, err := r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return errors.E("read FASTA", err)
		}
		pos += int64(len(raw))
		if line := bytes.TrimRight(raw, "\r\n"); len(line) > 0 {
			switch {
			case line[0] == '>':
				if e := emit(); e != nil {
					return e
				}
				if name = headerName(string(line)); name == "" {
					return errors.E(errors.Invalid, "malformed FASTA file: empty sequence name")
				}
				inSeq = true
				cur = faiEntry{offset: uint64(pos)}
			case !inSeq:
				return errors.E(errors.Invalid, "malformed FASTA file: bases before the first header")
			default:
				if cur.lineBytes == 0 {
					cur.lineBytes = uint64(len(raw))
					cur.lineBases = uint64(len(line))
				}
				cur.length += uint64(len(line))
			}
		}
		if err == io.EOF {
			break
		}
	}
	if pos == 0 {
		return errors.E(errors.Invalid, "empty FASTA file")
	}
	if err := emit(); err != nil {
		return err
	}
	return w.Flush()
}

// GenerateIndexFile writes the index of the FASTA file at fastaPath to
// indexPath.
func GenerateIndexFile(ctx context.Context, fastaPath, indexPath string) (err error) {
	in, err := file.Open(ctx, fastaPath)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, in, &err)
	out, err := file.Create(ctx, indexPath)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	return GenerateIndex(out.Writer(ctx), in.Reader(ctx))
}
