package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	runnertest "github.com/zipdatape/menu-scripts/internal/runner/testing"
)

func TestUnitName(t *testing.T) {
	assert.Equal(t, "nginx.service", unitName("nginx"))
	assert.Equal(t, "docker.socket", unitName("docker.socket"))
	assert.Equal(t, "multipathd.service", unitName("multipathd.service"))
}

func TestSystemctl(t *testing.T) {
	fake := runnertest.NewFakeRunner()
	m := NewSystemctl(fake)
	ctx := context.Background()

	assert.True(t, m.Start(ctx, "nginx"))
	assert.True(t, m.Restart(ctx, "cron"))
	assert.True(t, m.Enable(ctx, "docker"))
	assert.True(t, m.IsActive(ctx, "mysql"))
	m.Close()

	assert.Equal(t, []string{
		"systemctl start nginx",
		"systemctl restart cron",
		"systemctl enable docker",
		"systemctl is-active --quiet mysql",
	}, fake.Commands())
}

func TestSystemctl_Failure(t *testing.T) {
	fake := runnertest.NewFakeRunner().Fail("systemctl restart")
	m := NewSystemctl(fake)

	assert.False(t, m.Restart(context.Background(), "mysql"))
}

func TestStartAndEnable(t *testing.T) {
	t.Run("both succeed", func(t *testing.T) {
		fake := runnertest.NewFakeRunner()
		assert.True(t, StartAndEnable(context.Background(), NewSystemctl(fake), "nginx"))
		assert.Equal(t, []string{"systemctl start nginx", "systemctl enable nginx"}, fake.Commands())
	})

	t.Run("start failure skips enable", func(t *testing.T) {
		fake := runnertest.NewFakeRunner().Fail("systemctl start")
		assert.False(t, StartAndEnable(context.Background(), NewSystemctl(fake), "nginx"))
		assert.False(t, fake.Ran("systemctl enable"))
	})
}

func TestNew_DryRunUsesSystemctl(t *testing.T) {
	fake := runnertest.NewFakeRunner()
	m := New(context.Background(), fake, nil, true)

	_, ok := m.(*Systemctl)
	assert.True(t, ok)
}
