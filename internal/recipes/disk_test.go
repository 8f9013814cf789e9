package recipes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMountPoint(t *testing.T) {
	assert.NoError(t, validateMountPoint("/mnt/data"))
	assert.NoError(t, validateMountPoint(" /srv/backup "))
	assert.Error(t, validateMountPoint("mnt/data"))
	assert.Error(t, validateMountPoint("/"))
	assert.Error(t, validateMountPoint("//"))
	assert.Error(t, validateMountPoint("/mnt/my data"))
}

func TestFstabEntry(t *testing.T) {
	assert.Equal(t, "/dev/sdb1 /mnt/data ext4 defaults 0 0\n", FstabEntry("/dev/sdb1", "/mnt/data"))
}

func TestConfigureNewDisk(t *testing.T) {
	td := newTestDeps(t, answers("/mnt/data/", true), 1)
	td.fake.Output("lsblk", "sda 50G\nsdb 100G\nloop0 60M")

	res := td.configureNewDisk(context.Background())

	require.True(t, res.Succeeded, res.Message)
	assert.Equal(t, "Disk /dev/sdb configured and mounted on /mnt/data", res.Message)
	assert.Equal(t, []string{"sda (50G)", "sdb (100G)"}, td.chooser.options[0])
	assert.Equal(t, []string{
		"lsblk -dn -o NAME,SIZE",
		"parted -s /dev/sdb mklabel gpt",
		"parted -s /dev/sdb mkpart primary ext4 0% 100%",
		"mkfs.ext4 -F /dev/sdb1",
		"mkdir -p /mnt/data",
		"mount /dev/sdb1 /mnt/data",
	}, td.fake.Commands())
	assert.Equal(t, "/dev/sdb1 /mnt/data ext4 defaults 0 0\n", readTestFile(t, td.Config.Disk.Fstab))
	assert.Contains(t, td.out.String(), "[2/2] fstab entry added for /dev/sdb1")
}

func TestConfigureNewDisk_NVMeNaming(t *testing.T) {
	td := newTestDeps(t, answers("/data", true), 0)
	td.fake.Output("lsblk", "nvme1n1 500G")

	res := td.configureNewDisk(context.Background())

	require.True(t, res.Succeeded, res.Message)
	assert.True(t, td.fake.Ran("mkfs.ext4 -F /dev/nvme1n1p1"))
	assert.Equal(t, "/dev/nvme1n1p1 /data ext4 defaults 0 0\n", readTestFile(t, td.Config.Disk.Fstab))
}

func TestConfigureNewDisk_Declined(t *testing.T) {
	td := newTestDeps(t, answers("/mnt/data", false), 0)
	td.fake.Output("lsblk", "sdb 100G")

	res := td.configureNewDisk(context.Background())

	assert.Equal(t, "Cancelled", res.Message)
	assert.Equal(t, []string{"lsblk -dn -o NAME,SIZE"}, td.fake.Commands())
	assert.NoFileExists(t, td.Config.Disk.Fstab)
}

func TestConfigureNewDisk_NoDisks(t *testing.T) {
	td := newTestDeps(t, nil, 0)
	td.fake.Output("lsblk", "loop0 60M\nloop1 120M")

	res := td.configureNewDisk(context.Background())

	assert.Equal(t, "Cancelled", res.Message)
	assert.Empty(t, td.chooser.options[0])
}

func TestConfigureNewDisk_FormatFailureSkipsFstab(t *testing.T) {
	td := newTestDeps(t, answers("/mnt/data", true), 0)
	td.fake.Output("lsblk", "sdb 100G")
	td.fake.Fail("mkfs.ext4")

	res := td.configureNewDisk(context.Background())

	assert.False(t, res.Succeeded)
	assert.Equal(t, "Failed to configure /dev/sdb", res.Message)
	assert.False(t, td.fake.Ran("mount"))
	assert.NoFileExists(t, td.Config.Disk.Fstab)
}
