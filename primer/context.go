// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package primer

import (
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/primer/interval"
)

// SequenceContext is the three-part window around a target: the upstream
// flank, the target itself and the downstream flank.  Flanks may be shorter
// than the configured pad near sequence ends, or empty.  A context whose Target
// is empty is a placeholder for a region that could not be resolved.
type SequenceContext struct {
	Region     interval.Region
	Upstream   string
	Target     string
	Downstream string
}

// Usable reports whether the context has a target to design primers for.
func (c SequenceContext) Usable() bool { return c.Target != "" }

// Sequence returns Upstream+Target+Downstream.
func (c SequenceContext) Sequence() string {
	return c.Upstream + c.Target + c.Downstream
}

// Bracketed returns the full sequence with the target enclosed in '[' and ']'.
// It returns "" for a placeholder context.
func (c SequenceContext) Bracketed() string {
	if !c.Usable() {
		return ""
	}
	var b strings.Builder
	b.Grow(len(c.Upstream) + len(c.Target) + len(c.Downstream) + 2)
	b.WriteString(c.Upstream)
	b.WriteByte('[')
	b.WriteString(c.Target)
	b.WriteByte(']')
	b.WriteString(c.Downstream)
	return b.String()
}

// Fetcher retrieves the bases of a 1-based closed region.  It must return ""
// rather than fail for unknown or out-of-range regions.
// *fasta.Reference implements Fetcher.
type Fetcher interface {
	Fetch(region interval.Region) string
}

// Expander builds SequenceContexts for regions by fetching pad bases on each
// side of them.
type Expander struct {
	fetcher Fetcher
	pad     int64
}

// NewExpander creates an Expander that fetches from f with the given flank
// width.
func NewExpander(f Fetcher, pad int) *Expander {
	return &Expander{fetcher: f, pad: int64(pad)}
}

// Valid reports whether r can be expanded, i.e. it is well ordered, positive
// and its flanks do not run below zero.
func (e *Expander) Valid(r interval.Region) bool {
	return r.Start <= r.End && r.Start >= 0 && r.End > 0 &&
		r.Start-e.pad >= 0 && r.End+e.pad > 0
}

// Expand returns the context for r.  It never fails: invalid regions, and
// regions whose target cannot be fetched, yield a placeholder context carrying
// only the region.
func (e *Expander) Expand(r interval.Region) SequenceContext {
	placeholder := SequenceContext{Region: r}
	if !e.Valid(r) {
		log.Printf("region %s is out of bounds for pad %d", r, e.pad)
		return placeholder
	}
	target := e.fetcher.Fetch(r)
	if target == "" {
		log.Printf("region %s: no sequence found", r)
		return placeholder
	}
	if n := int64(len(target)); n != r.Len() {
		log.Printf("region %s: sequence ends after %d of %d bases", r, n, r.Len())
	}
	ctx := SequenceContext{
		Region:     r,
		Upstream:   e.fetcher.Fetch(interval.Region{Name: r.Name, Start: r.Start - e.pad, End: r.Start - 1}),
		Target:     target,
		Downstream: e.fetcher.Fetch(interval.Region{Name: r.Name, Start: r.End + 1, End: r.End + e.pad}),
	}
	if log.At(log.Debug) {
		log.Debug.Printf("region %s: upstream %d, target %d, downstream %d bases",
			r, len(ctx.Upstream), len(ctx.Target), len(ctx.Downstream))
	}
	return ctx
}
