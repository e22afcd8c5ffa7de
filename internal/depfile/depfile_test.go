package depfile_test

import (
	"strings"
	"testing"

	"sapc.dev/sapc/internal/depfile"
	"sapc.dev/sapc/internal/testutil"
)

func TestWriteNoDependencies(t *testing.T) {
	var buf strings.Builder
	err := depfile.Write(&buf, "out.json", nil)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "out.json:\n", buf.String())
}

func TestWriteSingleDependency(t *testing.T) {
	var buf strings.Builder
	err := depfile.Write(&buf, "out.json", []string{"a.sap"})
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "out.json: a.sap\n", buf.String())
}

func TestWriteMultipleDependenciesAreBackslashContinued(t *testing.T) {
	var buf strings.Builder
	err := depfile.Write(&buf, "out.json", []string{"a.sap", "b.sap", "c.sap"})
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, "out.json: a.sap \\\n  b.sap \\\n  c.sap\n", buf.String())
}
