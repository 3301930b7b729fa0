package primer_test

import (
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/primer/primer"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestLoadConfig(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	p1 := filepath.Join(tmpdir, "tier1.settings")
	p2 := filepath.Join(tmpdir, "tier2.settings")
	writeFile(t, p1, "Primer3 File\n=\n")
	writeFile(t, p2, "Primer3 File\n=\n")
	missing := filepath.Join(tmpdir, "missing.settings")

	config := filepath.Join(tmpdir, "primer.config")
	writeFile(t, config, `# comment
SEQUENCE_AROUND_LENGTH=250
SETTINGS_PREFERENCE_FILES=`+p2+`, `+missing+`,`+p1+`
THERMO_CONFIG_LOCATION=/opt/primer3_config/
PRIMERS_PER_SEQUENCE=3
CHROMOSOME_PREFIX=
VCF_PADDING=8
`)
	opts, err := primer.LoadConfig(ctx, config)
	assert.NoError(t, err)
	expect.EQ(t, opts.Pad, 250)
	expect.EQ(t, opts.Profiles, []string{p2, p1})
	expect.EQ(t, opts.ThermoPath, "/opt/primer3_config/")
	expect.EQ(t, opts.PrimersPerSequence, 3)
	expect.EQ(t, opts.ChromPrefix, "")
	expect.EQ(t, opts.VCFPadding, 8)
	expect.EQ(t, opts.Executable, "primer3_core")
}

func TestLoadConfigFallbacks(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	config := filepath.Join(tmpdir, "primer.config")
	writeFile(t, config, `SEQUENCE_AROUND_LENGTH=5000
SETTINGS_PREFERENCE_FILES=`+filepath.Join(tmpdir, "missing.settings")+`
THERMO_CONFIG_LOCATION=
PRIMERS_PER_SEQUENCE=many
`)
	opts, err := primer.LoadConfig(ctx, config)
	assert.NoError(t, err)
	expect.EQ(t, opts.Pad, primer.DefaultPad)
	expect.EQ(t, opts.Profiles, []string{primer.DefaultProfile})
	expect.EQ(t, opts.ThermoPath, primer.DefaultThermoPath)
	expect.EQ(t, opts.PrimersPerSequence, 1)
	expect.EQ(t, opts.ChromPrefix, "chr")

	writeFile(t, config, "SEQUENCE_AROUND_LENGTH=0\n")
	opts, err = primer.LoadConfig(ctx, config)
	assert.NoError(t, err)
	expect.EQ(t, opts.Pad, primer.DefaultPad)

	// A missing configuration file means defaults.
	opts, err = primer.LoadConfig(ctx, filepath.Join(tmpdir, "none.config"))
	assert.NoError(t, err)
	expect.EQ(t, opts, primer.DefaultOpts)
}

func TestClampPrimers(t *testing.T) {
	for _, tt := range []struct{ in, want int }{
		{0, 0},
		{1, 1},
		{primer.MaxPrimersPerSequence, primer.MaxPrimersPerSequence},
		{primer.MaxPrimersPerSequence + 1, primer.MaxPrimersPerSequence},
		{-1, primer.MaxPrimersPerSequence},
	} {
		expect.EQ(t, primer.ClampPrimers(tt.in), tt.want, "n=%d", tt.in)
	}
}
