package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGrub_Configure(t *testing.T) {
	root := t.TempDir()
	g := NewGrub(&hostexec.MockExecutor{}, testr.New(t))

	err := g.Configure(root, map[string]string{
		"timeout":      "5",
		"console_type": "ttyS",
	})
	require.NoError(t, err)

	assert.Contains(t, readFile(t, filepath.Join(root, GrubDirMain, "grub.cfg")), "grub.cfg.d/*.cfg")
	assert.Equal(t, "set console_type=\"ttyS\"\nset timeout=\"5\"\n",
		readFile(t, filepath.Join(root, GrubDirVyOS, "10-vyos-vars.cfg")))
	assert.DirExists(t, filepath.Join(root, GrubDirVersions))
}

func TestGrub_AddImageAndDefault(t *testing.T) {
	root := t.TempDir()
	g := NewGrub(&hostexec.MockExecutor{}, testr.New(t))
	require.NoError(t, g.Configure(root, map[string]string{}))

	require.NoError(t, g.AddImage(root, "1.4.0", " net.ifnames=0 "))
	require.NoError(t, g.SetDefault(root, "1.4.0"))

	entry := readFile(t, filepath.Join(root, GrubDirVersions, "1.4.0.cfg"))
	assert.Contains(t, entry, `menuentry "1.4.0" --id "1.4.0"`)
	assert.Contains(t, entry, "linux /boot/1.4.0/vmlinuz boot=live")
	assert.Contains(t, entry, "vyos-union=/boot/1.4.0")
	assert.Contains(t, entry, "${console_speed} net.ifnames=0\n")
	assert.Contains(t, entry, "initrd /boot/1.4.0/initrd.img")

	assert.Equal(t, "set default=\"1.4.0\"\n", readFile(t, filepath.Join(root, GrubDirVyOS, "15-vyos-default.cfg")))
}

func TestGrub_Install(t *testing.T) {
	exec := &hostexec.MockExecutor{}
	g := NewGrub(exec, testr.New(t))

	require.NoError(t, g.Install(context.Background(), "/dev/sda", "/mnt/root/boot", "/mnt/root/boot/efi"))

	calls := exec.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "grub-install --no-floppy --target=i386-pc --boot-directory=/mnt/root/boot /dev/sda --force", calls[0])
	assert.Contains(t, calls[1], "--target=x86_64-efi")
	assert.Contains(t, calls[1], "--efi-directory=/mnt/root/boot/efi")
}

func TestGrub_SortInodes(t *testing.T) {
	root := t.TempDir()
	g := NewGrub(&hostexec.MockExecutor{}, testr.New(t))
	require.NoError(t, g.Configure(root, map[string]string{"timeout": "5"}))
	require.NoError(t, g.AddImage(root, "b-image", ""))
	require.NoError(t, g.AddImage(root, "a-image", ""))

	before := readFile(t, filepath.Join(root, GrubDirVersions, "a-image.cfg"))
	require.NoError(t, g.SortInodes(root))
	assert.Equal(t, before, readFile(t, filepath.Join(root, GrubDirVersions, "a-image.cfg")))

	entries, err := os.ReadDir(filepath.Join(root, GrubDirVersions))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files are left behind")
}

func TestGrub_SortInodesMissingDir(t *testing.T) {
	g := NewGrub(&hostexec.MockExecutor{}, testr.New(t))
	assert.Error(t, g.SortInodes(t.TempDir()))
}
