// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package primer

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

const (
	// CompositeSuffix is the extension of the comprehensive report.
	CompositeSuffix = ".txt"
	// TerseSuffix is the extension of the per-profile primer files.
	TerseSuffix = ".primers"
	// ErrorBucketName names the terse file of failed regions.
	ErrorBucketName = "failed"
)

type bucket struct {
	path string
	out  file.File
}

// Router writes each outcome to the composite report and to the terse file
// of its bucket: the profile that succeeded, or the error bucket.  The
// composite file is created up front; bucket files are created when the first
// outcome is routed to them.  Close must be called on every path.
type Router struct {
	format    Formatter
	composite file.File
	w         io.Writer
	// byPath maps a profile path to its bucket index.
	byPath  map[string]int
	paths   []string
	buckets []*bucket
	files   []string
}

// NewRouter creates the composite report "<prefix>.txt" and prepares one
// bucket per profile, named "<prefix>-<profile base name>.primers", plus the
// error bucket "<prefix>-failed.primers".  If echo is non-nil, the composite
// report is also written to it.
func NewRouter(ctx context.Context, prefix string, profiles []*Profile, format Formatter, echo io.Writer) (*Router, error) {
	r := &Router{
		format: format,
		byPath: make(map[string]int),
	}
	used := make(map[string]bool)
	for i, p := range profiles {
		if _, ok := r.byPath[p.Path]; !ok {
			r.byPath[p.Path] = i
		}
		name := profileBase(p.Path)
		if used[name] || name == ErrorBucketName {
			name += "-" + strconv.Itoa(i)
		}
		used[name] = true
		r.paths = append(r.paths, prefix+"-"+name+TerseSuffix)
	}
	r.paths = append(r.paths, prefix+"-"+ErrorBucketName+TerseSuffix)
	r.buckets = make([]*bucket, len(r.paths))

	path := prefix + CompositeSuffix
	var err error
	if r.composite, err = file.Create(ctx, path); err != nil {
		return nil, errors.E("create", path, err)
	}
	r.files = append(r.files, path)
	r.w = r.composite.Writer(ctx)
	if echo != nil {
		r.w = io.MultiWriter(r.w, echo)
	}
	return r, nil
}

func profileBase(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Bucket returns the bucket index of o: the index of the profile that
// succeeded, matched by path, or the error bucket, which is the number of
// profiles.
func (r *Router) Bucket(o *Outcome) int {
	errBucket := len(r.buckets) - 1
	if !o.OK() || o.Profile == nil {
		return errBucket
	}
	if i, ok := r.byPath[o.Profile.Path]; ok {
		return i
	}
	return errBucket
}

func (r *Router) bucket(ctx context.Context, i int) (*bucket, error) {
	if b := r.buckets[i]; b != nil {
		return b, nil
	}
	b := &bucket{path: r.paths[i]}
	var err error
	if b.out, err = file.Create(ctx, b.path); err != nil {
		return nil, errors.E("create", b.path, err)
	}
	r.buckets[i] = b
	r.files = append(r.files, b.path)
	return b, nil
}

// Route writes o to the composite report and to its bucket.
func (r *Router) Route(ctx context.Context, o *Outcome) error {
	if err := r.format.WriteVerbose(r.w, o); err != nil {
		return err
	}
	b, err := r.bucket(ctx, r.Bucket(o))
	if err != nil {
		return err
	}
	return r.format.WriteTerse(b.out.Writer(ctx), o)
}

// Files lists the files created so far, composite report first.
func (r *Router) Files() []string { return r.files }

// Close closes every file the router created.  It returns the first error.
func (r *Router) Close(ctx context.Context) (err error) {
	for i, b := range r.buckets {
		if b != nil {
			file.CloseAndReport(ctx, b.out, &err)
			r.buckets[i] = nil
		}
	}
	if r.composite != nil {
		file.CloseAndReport(ctx, r.composite, &err)
		r.composite = nil
	}
	return err
}
