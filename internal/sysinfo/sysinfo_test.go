package sysinfo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zipdatape/menu-scripts/internal/config"
	runnertest "github.com/zipdatape/menu-scripts/internal/runner/testing"
)

func newTestEnv(t *testing.T) (*Environment, *runnertest.FakeRunner) {
	t.Helper()
	dir := t.TempDir()
	fake := runnertest.NewFakeRunner()
	env := New(fake, config.PathsConfig{
		Passwd:      filepath.Join(dir, "passwd"),
		SysClassNet: filepath.Join(dir, "net"),
		HomeRoot:    "/home",
	})
	return env, fake
}

func TestIsRoot(t *testing.T) {
	env, _ := newTestEnv(t)

	env.Euid = func() int { return 0 }
	assert.True(t, env.IsRoot())

	env.Euid = func() int { return 1000 }
	assert.False(t, env.IsRoot())
}

func TestHasCommand(t *testing.T) {
	env, _ := newTestEnv(t)
	env.LookPath = func(file string) (string, error) {
		if file == "docker" {
			return "/usr/bin/docker", nil
		}
		return "", errors.New("not found")
	}

	assert.True(t, env.HasCommand("docker"))
	assert.False(t, env.HasCommand("podman"))
}

func TestHomeUsers(t *testing.T) {
	env, _ := newTestEnv(t)
	passwd := `root:x:0:0:root:/root:/bin/bash
daemon:x:1:1:daemon:/usr/sbin:/usr/sbin/nologin
# comment
alice:x:1000:1000:Alice,,,:/home/alice:/bin/bash

bob:x:1001:1001::/home/bob:/bin/sh
svc:x:998:998::/home/svc/data:/usr/sbin/nologin
broken-line
`
	require.NoError(t, os.WriteFile(env.PasswdFile, []byte(passwd), 0644))

	users, err := env.HomeUsers()
	require.NoError(t, err)
	assert.Equal(t, []User{
		{Name: "alice", Home: "/home/alice"},
		{Name: "bob", Home: "/home/bob"},
	}, users)
}

func TestHomeUsers_MissingFile(t *testing.T) {
	env, _ := newTestEnv(t)
	_, err := env.HomeUsers()
	assert.Error(t, err)
}

func TestInterfaces(t *testing.T) {
	env, _ := newTestEnv(t)
	for _, name := range []string{"lo", "eth1", "eth0", "ens18"} {
		require.NoError(t, os.MkdirAll(filepath.Join(env.SysClassNet, name), 0755))
	}

	names, err := env.Interfaces()
	require.NoError(t, err)
	assert.Equal(t, []string{"ens18", "eth0", "eth1"}, names)
	assert.True(t, env.HasInterface("eth0"))
	assert.False(t, env.HasInterface("wlan0"))
}

func TestDisks(t *testing.T) {
	env, fake := newTestEnv(t)
	fake.Output("lsblk", "sda   40G\nsdb  100G\nloop0 55.4M\nsr0\n")

	disks := env.Disks(context.Background())
	assert.Equal(t, []Disk{
		{Name: "sda", Size: "40G"},
		{Name: "sdb", Size: "100G"},
		{Name: "sr0"},
	}, disks)
	assert.Equal(t, "sdb (100G)", disks[1].Label())
	assert.Equal(t, "sr0", disks[2].Label())
	assert.True(t, fake.Ran("lsblk -dn -o NAME,SIZE"))
}

func TestParseGateway(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{"typical", "default via 10.0.0.1 dev eth0 proto dhcp metric 100", "10.0.0.1"},
		{"second line", "10.0.0.0/24 dev eth0\ndefault via 192.168.1.254 dev ens18", "192.168.1.254"},
		{"no default", "10.0.0.0/24 dev eth0 proto kernel", ""},
		{"garbage after via", "default via nowhere dev eth0", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGateway(tt.out))
		})
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{"typical", "2: eth0    inet 10.0.0.5/24 brd 10.0.0.255 scope global eth0", "10.0.0.5/24"},
		{"no address", "", ""},
		{"bad prefix", "2: eth0 inet 10.0.0.5 scope global", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAddress(tt.out))
		})
	}
}

func TestDefaultGatewayAndAddress_UseRunner(t *testing.T) {
	env, fake := newTestEnv(t)
	fake.Output("ip -4 route", "default via 10.1.1.1 dev eth0")
	fake.Output("ip -o -4 addr show dev eth0", "2: eth0 inet 10.1.1.20/24 brd 10.1.1.255")

	ctx := context.Background()
	assert.Equal(t, "10.1.1.1", env.DefaultGateway(ctx))
	assert.Equal(t, "10.1.1.20/24", env.Address(ctx, "eth0"))
}
