package cli_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/probekit/internal/cli"
)

func Test_Dump_Prints_Slots_And_Summary(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("dump", "--hash", "len", "--capacity", "5", "ab", "xyz", "0x0102", "--delete", "xyz")

	want := strings.Join([]string{
		"Dumping aarray of 5 slots:",
		"  0 : empty",
		"  1 : empty",
		"  2 : in use : 'char key:[ab]'",
		"  3 : deleted (was 'char key:[xyz]')",
		"  4 : in use : 'hex key:[0x0102]'",
		"",
		"Associative array contains 2 entries in a table of 5 size",
		"Strategies used: 'length' hash, 'sum' secondary hash and 'linear' probing",
		"Costs accrued due to probing:",
		"  Insertion : 2",
		"  Search    : 0",
		"  Deletion  : 0",
	}, "\n")

	assert.Equal(t, want, stdout)
}

func Test_Dump_Warns_And_Uses_Default_When_Strategy_Unknown(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, code := c.Run("dump", "--probe", "cuckoo", "a")

	assert.Equal(t, 1, code)
	cli.AssertContains(t, stdout, "'linear' probing")
	cli.AssertContains(t, stderr, "warning: invalid probe strategy, using default")
	cli.AssertContains(t, stderr, "name=cuckoo")
}

func Test_Dump_Warns_When_Insert_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, code := c.Run("dump", "a", "a")

	assert.Equal(t, 1, code)
	cli.AssertContains(t, stdout, "contains 1 entries")
	cli.AssertContains(t, stderr, "warning: insert char key:[a]: aarray: duplicate key")
}

func Test_Dump_Fails_When_No_Keys(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("dump")

	cli.AssertContains(t, stderr, "key required")
}

