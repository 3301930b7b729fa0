// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package primer

import (
	"context"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/spf13/viper"
)

const (
	// DefaultPad is the flank width used when the configured one is missing or
	// out of range.
	DefaultPad = 500
	// MaxPad is the exclusive upper bound on the flank width.
	MaxPad = 5000
	// MaxPrimersPerSequence caps the number of pairs requested per region.
	MaxPrimersPerSequence = 10

	// DefaultProfile is the settings file used when no configured profile
	// exists.
	DefaultProfile = "essentials/tier1.settings"
	// DefaultThermoPath is the primer3 thermodynamic parameter directory.
	DefaultThermoPath = "essentials/primer3_config/"
)

// Configuration file keys.
const (
	keyPad        = "SEQUENCE_AROUND_LENGTH"
	keyProfiles   = "SETTINGS_PREFERENCE_FILES"
	keyThermo     = "THERMO_CONFIG_LOCATION"
	keyPrimers    = "PRIMERS_PER_SEQUENCE"
	keyPrefix     = "CHROMOSOME_PREFIX"
	keyVCFPadding = "VCF_PADDING"
	keyExecutable = "PRIMER3_EXECUTABLE"
)

// Opts controls a primer design run.  It is threaded explicitly into every
// component; nothing in this package reads process-wide state.
type Opts struct {
	// Pad is the number of bases fetched on each side of a target.
	Pad int
	// Profiles lists design profile (settings file) paths in cascade order.
	Profiles []string
	// ThermoPath is the directory of thermodynamic parameters handed to the
	// engine.
	ThermoPath string
	// PrimersPerSequence is the number of pairs requested per region.  It is
	// clamped by ClampPrimers before use.
	PrimersPerSequence int
	// ChromPrefix is added to VCF chromosome names that lack it, and stripped
	// from region names in terse output tags.
	ChromPrefix string
	// VCFPadding is the padding around each VCF variant.
	VCFPadding int
	// Executable is the primer3_core binary.
	Executable string
	// OutputPrefix is the base name of the output files.
	OutputPrefix string
	// Verbose echoes the composite report to stdout.
	Verbose bool
}

// DefaultOpts is the default Opts.
var DefaultOpts = Opts{
	Pad:                DefaultPad,
	Profiles:           []string{DefaultProfile},
	ThermoPath:         DefaultThermoPath,
	PrimersPerSequence: 1,
	ChromPrefix:        "chr",
	VCFPadding:         5,
	Executable:         "primer3_core",
	OutputPrefix:       "output",
}

// ClampPrimers returns n if it lies in [0, MaxPrimersPerSequence], and
// MaxPrimersPerSequence otherwise.
func ClampPrimers(n int) int {
	if n < 0 || n > MaxPrimersPerSequence {
		return MaxPrimersPerSequence
	}
	return n
}

// LoadConfig reads the key=value configuration file at path on top of
// DefaultOpts.  A missing file is not an error: the defaults are returned and
// a warning is logged.  Out-of-range or unparsable values fall back to their
// defaults, also with a warning.  Profiles that do not exist are dropped.
func LoadConfig(ctx context.Context, path string) (opts Opts, err error) {
	opts = DefaultOpts
	opts.Profiles = append([]string(nil), DefaultOpts.Profiles...)
	in, err := file.Open(ctx, path)
	if err != nil {
		log.Error.Printf("configuration file %s: %v; using defaults", path, err)
		return opts, nil
	}
	defer file.CloseAndReport(ctx, in, &err)

	v := viper.New()
	v.SetConfigType("properties")
	if err = v.ReadConfig(in.Reader(ctx)); err != nil {
		return opts, errors.E(errors.Invalid, "read configuration", path, err)
	}
	if v.IsSet(keyPad) {
		w, perr := strconv.Atoi(strings.TrimSpace(v.GetString(keyPad)))
		if perr != nil || w <= 0 || w >= MaxPad {
			log.Error.Printf("%s=%q must be in (0, %d); using the default value %s=%d",
				keyPad, v.GetString(keyPad), MaxPad, keyPad, DefaultPad)
		} else {
			opts.Pad = w
		}
	}
	if v.IsSet(keyProfiles) {
		var profiles []string
		for _, p := range strings.Split(v.GetString(keyProfiles), ",") {
			if p = strings.TrimSpace(p); p == "" {
				continue
			}
			if _, serr := file.Stat(ctx, p); serr != nil {
				log.Error.Printf("settings file does not exist: %s", p)
				continue
			}
			profiles = append(profiles, p)
		}
		if len(profiles) > 0 {
			opts.Profiles = profiles
		} else {
			log.Error.Printf("no usable %s; using %s", keyProfiles, DefaultProfile)
		}
	}
	if s := strings.TrimSpace(v.GetString(keyThermo)); s != "" {
		opts.ThermoPath = s
	}
	if v.IsSet(keyPrimers) {
		n, perr := strconv.Atoi(strings.TrimSpace(v.GetString(keyPrimers)))
		if perr != nil {
			log.Error.Printf("%s=%q is not a number; using %d", keyPrimers, v.GetString(keyPrimers), DefaultOpts.PrimersPerSequence)
		} else {
			opts.PrimersPerSequence = n
		}
	}
	if v.IsSet(keyPrefix) {
		opts.ChromPrefix = strings.TrimSpace(v.GetString(keyPrefix))
	}
	if v.IsSet(keyVCFPadding) {
		n, perr := strconv.Atoi(strings.TrimSpace(v.GetString(keyVCFPadding)))
		if perr != nil || n < 0 {
			log.Error.Printf("%s=%q is invalid; using %d", keyVCFPadding, v.GetString(keyVCFPadding), DefaultOpts.VCFPadding)
		} else {
			opts.VCFPadding = n
		}
	}
	if s := strings.TrimSpace(v.GetString(keyExecutable)); s != "" {
		opts.Executable = s
	}
	return opts, err
}
