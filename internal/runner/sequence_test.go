package runner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zipdatape/menu-scripts/internal/runner"
	runnertest "github.com/zipdatape/menu-scripts/internal/runner/testing"
)

func TestSequence_ShortCircuits(t *testing.T) {
	fake := runnertest.NewFakeRunner().Fail("false")

	ok := fake.RunSequence(context.Background(),
		runner.Cmd("true"),
		runner.Cmd("false"),
		runner.Cmd("true"),
	)

	assert.False(t, ok)
	assert.Equal(t, []string{"true", "false"}, fake.Commands())
}

func TestSequence_AllSucceed(t *testing.T) {
	fake := runnertest.NewFakeRunner()

	ok := runner.Sequence(context.Background(), fake,
		runner.Cmd("apt-get", "update"),
		runner.Cmd("apt-get", "install", "-y", "git"),
	)

	assert.True(t, ok)
	assert.Len(t, fake.Calls, 2)
}

func TestFakeRunner_Rules(t *testing.T) {
	fake := runnertest.NewFakeRunner().
		Output("lsblk", "sda 20G\nsdb 100G\n").
		Fail("systemctl restart")
	ctx := context.Background()

	assert.Equal(t, "sda 20G\nsdb 100G", fake.Capture(ctx, runner.Cmd("lsblk", "-dn")))
	assert.False(t, fake.Run(ctx, runner.Cmd("systemctl", "restart", "nginx")))
	assert.True(t, fake.Run(ctx, runner.Cmd("systemctl", "enable", "nginx")))
	assert.True(t, fake.Ran("systemctl enable"))
	assert.False(t, fake.Ran("reboot"))
}
