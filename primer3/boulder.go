// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package primer3

import (
	"bufio"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
)

// Tag is one "KEY=VALUE" line of a Boulder-IO record.
type Tag struct {
	Key   string
	Value string
}

// Record is a Boulder-IO record.  Tag order is preserved.
type Record []Tag

// Get returns the value of the last tag named key.
func (r Record) Get(key string) (string, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Key == key {
			return r[i].Value, true
		}
	}
	return "", false
}

// Map returns the tags of r keyed by name.  Later tags override earlier
// ones.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r))
	for _, t := range r {
		m[t.Key] = t.Value
	}
	return m
}

// WriteRecord writes r followed by the "=" record terminator.
func WriteRecord(out io.Writer, r Record) error {
	w := bufio.NewWriter(out)
	for _, t := range r {
		w.WriteString(t.Key)
		w.WriteByte('=')
		w.WriteString(t.Value)
		w.WriteByte('\n')
	}
	w.WriteString("=\n")
	return w.Flush()
}

// ReadRecord reads the next record from r.  It returns io.EOF if r holds no
// more tags.  A final record without the "=" terminator is accepted.  Empty
// lines are skipped.
func ReadRecord(r *bufio.Reader) (Record, error) {
	var rec Record
	for {
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		eof := err == io.EOF
		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "=":
			return rec, nil
		case line == "":
		default:
			eq := strings.IndexByte(line, '=')
			if eq <= 0 {
				return nil, errors.E(errors.Invalid, "malformed Boulder-IO line:", line)
			}
			rec = append(rec, Tag{Key: line[:eq], Value: line[eq+1:]})
		}
		if eof {
			if len(rec) == 0 {
				return nil, io.EOF
			}
			return rec, nil
		}
	}
}
