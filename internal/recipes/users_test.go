package recipes

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func testAuthorizedKey(t *testing.T) string {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
}

func TestValidateUsername(t *testing.T) {
	for _, ok := range []string{"deploy", "_svc", "web-01", "a"} {
		assert.NoError(t, validateUsername(ok), ok)
	}
	for _, bad := range []string{"", "Deploy", "1user", "bad user", "x;rm", strings.Repeat("a", 33)} {
		assert.Error(t, validateUsername(bad), bad)
	}
}

func TestValidateAuthorizedKey(t *testing.T) {
	assert.NoError(t, validateAuthorizedKey(""))
	assert.NoError(t, validateAuthorizedKey(testAuthorizedKey(t)))
	assert.Error(t, validateAuthorizedKey("ssh-rsa not-a-key"))
}

func TestCreateSSHUsers(t *testing.T) {
	td := newTestDeps(t, answers(true, "deploy", "pw1", "", false))

	res := td.createSSHUsers(context.Background())

	assert.True(t, res.Succeeded)
	assert.Equal(t, "Created 1 SSH user", res.Message)

	add := td.fake.Find("adduser")
	require.NotNil(t, add)
	assert.Equal(t, []string{"adduser", "--gecos", "", "--disabled-password", "deploy"}, add.Argv())

	chpasswd := td.fake.Find("chpasswd")
	require.NotNil(t, chpasswd)
	assert.Equal(t, []string{"chpasswd"}, chpasswd.Argv())
	assert.Equal(t, "deploy:pw1\n", chpasswd.Stdin)
	assert.Contains(t, td.out.String(), "SSH user deploy created")
}

func TestCreateSSHUsers_WithKey(t *testing.T) {
	key := testAuthorizedKey(t)
	td := newTestDeps(t, answers(true, "deploy", "pw1", key, false))

	res := td.createSSHUsers(context.Background())

	require.True(t, res.Succeeded)
	sshDir := filepath.Join(td.Config.Paths.HomeRoot, "deploy", ".ssh")
	assert.Equal(t, key+"\n", readTestFile(t, filepath.Join(sshDir, "authorized_keys")))

	info, err := os.Stat(filepath.Join(sshDir, "authorized_keys"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	chown := td.fake.Find("chown")
	require.NotNil(t, chown)
	assert.Equal(t, []string{"chown", "-R", "deploy:deploy", sshDir}, chown.Argv())
}

func TestCreateSSHUsers_Mixed(t *testing.T) {
	td := newTestDeps(t, answers(
		true, "Bad Name", "alice", "pw", "",
		true, "bob", "pw", "",
		false,
	))
	td.fake.Fail("adduser --gecos '' --disabled-password bob")

	res := td.createSSHUsers(context.Background())

	assert.False(t, res.Succeeded)
	assert.Equal(t, "1 of 2 SSH users failed", res.Message)
	assert.Contains(t, td.out.String(), "Failed to create SSH user bob")
}

func TestCreateSSHUsers_NoneRequested(t *testing.T) {
	td := newTestDeps(t, answers(false))

	res := td.createSSHUsers(context.Background())

	assert.True(t, res.Succeeded)
	assert.Equal(t, "No SSH users created", res.Message)
	assert.Empty(t, td.fake.Commands())
}

func TestLoggingProfile(t *testing.T) {
	p := LoggingProfile("alice", "/var/log/ssh_commands/alice")

	assert.Contains(t, p, "# SSH command logging for alice\n")
	assert.Contains(t, p, "LOG_DIR=/var/log/ssh_commands/alice\n")
	assert.Contains(t, p, `LOG_FILE="/var/log/ssh_commands/alice/ssh_commands_alice_$(date +%Y%m%d).log"`)
	assert.Contains(t, p, `PROMPT_COMMAND='echo "$(date "+%Y-%m-%d %T") $(whoami) $(history 1)" >> "${LOG_FILE}"'`)
}

func TestEnableSSHLogging(t *testing.T) {
	td := newTestDeps(t, nil)
	home := filepath.Join(td.Config.Paths.HomeRoot, "alice")
	require.NoError(t, os.MkdirAll(home, 0755))

	require.NoError(t, td.enableSSHLogging("alice", home))
	require.NoError(t, td.enableSSHLogging("alice", home))

	logDir := filepath.Join(td.Config.SSHLogging.LogDir, "alice")
	target := filepath.Join(logDir, "ssh_commands_alice_20240309.log")
	assert.FileExists(t, target)

	profile := readTestFile(t, filepath.Join(home, ".profile"))
	assert.Equal(t, 1, strings.Count(profile, profileMarker+"alice\n"))

	link, err := os.Readlink(filepath.Join(home, "monitoring", "ssh_commands.log"))
	require.NoError(t, err)
	assert.Equal(t, target, link)
}

func TestEnableSSHLogging_SimilarNames(t *testing.T) {
	td := newTestDeps(t, nil)
	home := filepath.Join(td.Config.Paths.HomeRoot, "alice")
	require.NoError(t, os.MkdirAll(home, 0755))
	writeTestFile(t, filepath.Join(home, ".profile"), LoggingProfile("alice2", "/x"))

	require.NoError(t, td.enableSSHLogging("alice", home))

	profile := readTestFile(t, filepath.Join(home, ".profile"))
	assert.Contains(t, profile, profileMarker+"alice\n")
}

func TestEnableSSHLogging_DryRun(t *testing.T) {
	td := newTestDeps(t, nil)
	td.DryRun = true
	home := filepath.Join(td.Config.Paths.HomeRoot, "alice")

	require.NoError(t, td.enableSSHLogging("alice", home))

	assert.NoDirExists(t, td.Config.SSHLogging.LogDir)
	assert.True(t, td.log.Contains("would configure SSH logging for alice"))
}

func TestConfigureSSHLogging(t *testing.T) {
	td := newTestDeps(t, nil, 0, back)
	home := filepath.Join(td.Config.Paths.HomeRoot, "alice")
	require.NoError(t, os.MkdirAll(home, 0755))
	writeTestFile(t, td.Config.Paths.Passwd,
		"root:x:0:0:root:/root:/bin/bash\nalice:x:1000:1000::"+home+":/bin/bash\n")

	res := td.configureSSHLogging(context.Background())

	assert.True(t, res.Succeeded)
	assert.Equal(t, "SSH logging configured for 1 user", res.Message)
	assert.Equal(t, []string{"alice"}, td.chooser.options[0])
	assert.Contains(t, td.out.String(), "SSH logging configured for alice")
}

func TestConfigureSSHLogging_BackImmediately(t *testing.T) {
	td := newTestDeps(t, nil, back)
	writeTestFile(t, td.Config.Paths.Passwd, "")

	res := td.configureSSHLogging(context.Background())

	assert.Equal(t, "Cancelled", res.Message)
}
