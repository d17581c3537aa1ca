package cli_test

import (
	"testing"

	"github.com/calvinalkan/probekit/internal/cli"
)

func Test_History_Fails_When_Nothing_Saved(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("history")

	cli.AssertContains(t, stderr, "no saved runs")
}

func Test_History_Fails_When_Run_Unknown(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("run", "--capacity", "20", "--probe", "linear", "--hash", "sum", "--save")

	stderr := c.MustFail("history", "ZZZZZZZZZZZZ")
	cli.AssertContains(t, stderr, "run not found")
}

