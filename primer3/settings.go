// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package primer3

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// SettingsHeader starts every Primer3 settings file.
const SettingsHeader = "Primer3 File"

// Settings is a parsed Primer3 settings file: the global tags applied to every
// design request.
type Settings struct {
	Path string
	Tags Record
}

// sequenceScoped reports whether key describes a single request rather than
// global settings.  Such tags in a settings file are ignored; requests supply
// their own.
func sequenceScoped(key string) bool {
	return strings.HasPrefix(key, "SEQUENCE_") || strings.HasPrefix(key, "P3_FILE_") ||
		key == "PRIMER_NUM_RETURN" || key == "PRIMER_THERMODYNAMIC_PARAMETERS_PATH"
}

// ParseSettings parses a settings file: the "Primer3 File" header line
// followed by one Boulder-IO record.
func ParseSettings(in io.Reader) (Record, error) {
	r := bufio.NewReader(in)
	header, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !strings.HasPrefix(header, SettingsHeader) {
		return nil, errors.E(errors.Invalid, "missing \""+SettingsHeader+"\" header")
	}
	rec, err := ReadRecord(r)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tags := rec[:0]
	for _, t := range rec {
		if !sequenceScoped(t.Key) {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// LoadSettings reads the settings file at path.  Errors are of kind
// errors.NotExist for an unreadable file and errors.Invalid for a malformed
// one.
func LoadSettings(ctx context.Context, path string) (s *Settings, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(errors.NotExist, "open settings", path, err)
	}
	defer file.CloseAndReport(ctx, in, &err)
	tags, err := ParseSettings(in.Reader(ctx))
	if err != nil {
		return nil, errors.E(errors.Invalid, "parse settings", path, err)
	}
	return &Settings{Path: path, Tags: tags}, nil
}
