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

func TestRouterBucketNames(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	profiles := primer.NewProfiles([]string{
		"a/tier1.settings",
		"b/tier1.settings",
		"c/failed.settings",
	})
	prefix := filepath.Join(tmpdir, "out")
	r, err := primer.NewRouter(ctx, prefix, profiles, primer.Formatter{ChromPrefix: "chr"}, nil)
	assert.NoError(t, err)
	expect.EQ(t, r.Files(), []string{prefix + ".txt"})

	pairs := testOutcome().Pairs
	for i, p := range profiles {
		o := &primer.Outcome{Key: p.Path, Context: testContext("chr1"), Profile: p, Pairs: pairs}
		expect.EQ(t, r.Bucket(o), i)
		assert.NoError(t, r.Route(ctx, o))
	}
	failed := &primer.Outcome{Key: "chr1:11-20", Context: testContext("chr1"), Profile: profiles[2], GlobalError: "no luck"}
	expect.EQ(t, r.Bucket(failed), len(profiles))
	assert.NoError(t, r.Route(ctx, failed))
	assert.NoError(t, r.Close(ctx))

	expect.EQ(t, r.Files(), []string{
		prefix + ".txt",
		prefix + "-tier1.primers",
		prefix + "-tier1-1.primers",
		prefix + "-failed-2.primers",
		prefix + "-failed.primers",
	})
	expect.EQ(t, readFile(t, prefix+"-failed.primers"), "1-11F=no luck\n1-20R=no luck\n")
}
