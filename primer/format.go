// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package primer

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/primer/interval"
)

// RegionTag returns the terse label of a primer for region r, e.g. "1-100F"
// for the forward primer of chr1:100-120 and "1-120R" for its reverse primer.
// chromPrefix is stripped from the region name.
func RegionTag(r interval.Region, chromPrefix string, forward bool) string {
	name := r.Name
	if chromPrefix != "" {
		name = strings.TrimPrefix(name, chromPrefix)
	}
	buf := make([]byte, 0, len(name)+16)
	buf = append(buf, name...)
	buf = append(buf, '-')
	if forward {
		buf = strconv.AppendInt(buf, r.Start, 10)
		buf = append(buf, 'F')
	} else {
		buf = strconv.AppendInt(buf, r.End, 10)
		buf = append(buf, 'R')
	}
	return string(buf)
}

// Formatter renders outcomes as text.
type Formatter struct {
	// ChromPrefix is stripped from region names in primer tags.
	ChromPrefix string
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func (f Formatter) writeCandidate(w *bufio.Writer, tag string, c Candidate) {
	w.WriteString(tag)
	w.WriteByte('=')
	w.WriteString(c.Sequence)
	w.WriteString("| Start: ")
	w.WriteString(strconv.Itoa(c.Start + 1))
	w.WriteString(" | Length: ")
	w.WriteString(strconv.Itoa(c.Length))
	w.WriteString(" | Temperature: ")
	w.WriteString(formatFloat(c.Tm))
	w.WriteString(" | GC%: ")
	w.WriteString(strconv.Itoa(c.GC))
	w.WriteByte('\n')
}

// WriteVerbose writes the comprehensive report of o: the region and its
// bracketed context, then either the error or one block per pair.  Pairs
// after the first are labeled "Alternative Primer N".
func (f Formatter) WriteVerbose(out io.Writer, o *Outcome) error {
	w := bufio.NewWriter(out)
	w.WriteString(o.Key)
	w.WriteByte('=')
	w.WriteString(o.Context.Bracketed())
	w.WriteByte('\n')
	if !o.OK() {
		w.WriteString("ERROR: ")
		w.WriteString(o.Error())
		w.WriteString("\n\n")
		return w.Flush()
	}
	if o.Warning != "" {
		w.WriteString("WARNING: ")
		w.WriteString(o.Warning)
		w.WriteByte('\n')
	}
	w.WriteString("Target:[")
	w.WriteString(strconv.Itoa(len(o.Context.Upstream)))
	w.WriteByte(',')
	w.WriteString(strconv.Itoa(len(o.Context.Target)))
	w.WriteString("]\n")
	fwd := RegionTag(o.Context.Region, f.ChromPrefix, true)
	rev := RegionTag(o.Context.Region, f.ChromPrefix, false)
	for i, p := range o.Pairs {
		if i > 0 {
			w.WriteString("Alternative Primer ")
			w.WriteString(strconv.Itoa(i))
			w.WriteByte('\n')
		}
		f.writeCandidate(w, fwd, p.Forward)
		f.writeCandidate(w, rev, p.Reverse)
		w.WriteString("Overall Product size: ")
		w.WriteString(strconv.Itoa(p.ProductSize))
		w.WriteByte('\n')
	}
	w.WriteByte('\n')
	return w.Flush()
}

// WriteTerse writes two "tag=sequence" lines, forward then reverse, per pair
// of o.  Pairs after the first get an "_N" tag suffix.  A failed outcome
// writes the two tags of the region with the error text in place of the
// sequences.
func (f Formatter) WriteTerse(out io.Writer, o *Outcome) error {
	w := bufio.NewWriter(out)
	fwd := RegionTag(o.Context.Region, f.ChromPrefix, true)
	rev := RegionTag(o.Context.Region, f.ChromPrefix, false)
	line := func(tag, suffix, value string) {
		w.WriteString(tag)
		w.WriteString(suffix)
		w.WriteByte('=')
		w.WriteString(value)
		w.WriteByte('\n')
	}
	if !o.OK() {
		line(fwd, "", o.Error())
		line(rev, "", o.Error())
		return w.Flush()
	}
	for i, p := range o.Pairs {
		suffix := ""
		if i > 0 {
			suffix = "_" + strconv.Itoa(i)
		}
		line(fwd, suffix, p.Forward.Sequence)
		line(rev, suffix, p.Reverse.Sequence)
	}
	return w.Flush()
}
