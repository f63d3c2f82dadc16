package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
)

func onlyTools(tools ...string) func(file string) (string, error) {
	return func(file string) (string, error) {
		for _, t := range tools {
			if t == file {
				return "/usr/sbin/" + file, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestCheckTool_Installed(t *testing.T) {
	exec := &hostexec.MockExecutor{
		LookPathFunc: onlyTools("sgdisk"),
		OutputFunc: func(name string, args ...string) ([]byte, error) {
			return []byte("GPT fdisk (sgdisk) version 1.0.9\n"), nil
		},
	}

	check := CheckTool(context.Background(), exec, IDSgdisk)

	assert.Equal(t, IDSgdisk, check.ID)
	assert.Equal(t, "sgdisk", check.Name)
	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "1.0.9", check.Message)
	assert.Equal(t, []string{"/usr/sbin/sgdisk --version"}, exec.Calls())
}

func TestCheckTool_NotInstalled(t *testing.T) {
	exec := &hostexec.MockExecutor{LookPathFunc: onlyTools()}

	check := CheckTool(context.Background(), exec, IDIfquery)

	assert.Equal(t, StatusMissing, check.Status)
	assert.Equal(t, "not installed", check.Message)
	require.NotNil(t, check.FixCommand)
	assert.Equal(t, "sudo apt install -y ifupdown", check.FixCommand.Command)
}

func TestCheckTool_VersionUnknown(t *testing.T) {
	exec := &hostexec.MockExecutor{
		OutputFunc: func(name string, args ...string) ([]byte, error) {
			return nil, errors.New("unrecognized option")
		},
	}

	check := CheckTool(context.Background(), exec, IDIfdown)

	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "installed (version unknown)", check.Message)
}

func TestCheckTool_Unknown(t *testing.T) {
	check := CheckTool(context.Background(), &hostexec.MockExecutor{}, "terraform")

	assert.Equal(t, StatusError, check.Status)
	assert.Equal(t, "unknown check", check.Message)
}

func TestCheckLiveMedium(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
		want   CheckStatus
	}{
		{name: "present", exists: true, want: StatusOK},
		{name: "absent", exists: false, want: StatusWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &hostexec.MockExecutor{
				FileExistsFunc: func(path string) bool {
					return tt.exists && path == DefaultRootfsImage
				},
			}

			check := CheckLiveMedium(exec, "")
			assert.Equal(t, tt.want, check.Status)
			assert.Contains(t, check.Message, DefaultRootfsImage)
		})
	}
}

func TestChecker_CheckGroup(t *testing.T) {
	exec := &hostexec.MockExecutor{
		LookPathFunc: onlyTools("ifquery"),
		OutputFunc: func(name string, args ...string) ([]byte, error) {
			return []byte("ifquery version 0.8.41"), nil
		},
	}

	checker := NewChecker(exec)
	group := checker.CheckGroup(context.Background(), GroupIfupdown)

	assert.Equal(t, GroupIfupdown, group.ID)
	assert.Equal(t, "Network cleanup", group.Name)
	require.Len(t, group.Checks, 2)
	assert.Equal(t, StatusOK, group.Checks[0].Status)
	assert.Equal(t, "0.8.41", group.Checks[0].Message)
	assert.Equal(t, StatusMissing, group.Checks[1].Status)
}

func TestChecker_CheckGroup_Unknown(t *testing.T) {
	group := NewChecker(&hostexec.MockExecutor{}).CheckGroup(context.Background(), "nope")

	assert.Equal(t, "Unknown", group.Name)
	assert.Empty(t, group.Checks)
}

func TestChecker_CheckAllAsync(t *testing.T) {
	exec := &hostexec.MockExecutor{
		OutputFunc: func(name string, args ...string) ([]byte, error) {
			return []byte("lsblk from util-linux 2.38.1"), nil
		},
	}
	checker := NewChecker(exec)
	checker.SetImagePath("/run/live/filesystem.squashfs")

	async := checker.CheckAllAsync(context.Background())
	sync := checker.CheckAll(context.Background())

	require.Len(t, async, 2)
	assert.Equal(t, sync, async)
	assert.Equal(t, GroupIfupdown, async[0].ID)
	assert.Equal(t, GroupInstall, async[1].ID)
	assert.False(t, checker.HasIssues(async))

	summary := checker.GetSummary(async)
	assert.Equal(t, 10, summary.Total)
	assert.Equal(t, 10, summary.OK)
}

func TestChecker_GetSummary(t *testing.T) {
	groups := []CheckGroup{
		{
			ID: GroupInstall,
			Checks: []Check{
				{ID: "test1", Status: StatusOK},
				{ID: "test2", Status: StatusMissing},
				{ID: "test3", Status: StatusWarning},
			},
		},
	}

	summary := NewChecker(&hostexec.MockExecutor{}).GetSummary(groups)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.OK)
	assert.Equal(t, 1, summary.Missing)
	assert.Equal(t, 1, summary.Warnings)
	assert.Equal(t, 0, summary.Errors)
}

func TestChecker_HasIssues(t *testing.T) {
	tests := []struct {
		name     string
		groups   []CheckGroup
		expected bool
	}{
		{
			name: "no issues",
			groups: []CheckGroup{
				{Checks: []Check{{Status: StatusOK}, {Status: StatusOK}}},
			},
			expected: false,
		},
		{
			name: "has missing",
			groups: []CheckGroup{
				{Checks: []Check{{Status: StatusOK}, {Status: StatusMissing}}},
			},
			expected: true,
		},
		{
			name: "has error",
			groups: []CheckGroup{
				{Checks: []Check{{Status: StatusOK}, {Status: StatusError}}},
			},
			expected: true,
		},
		{
			name: "warning only",
			groups: []CheckGroup{
				{Checks: []Check{{Status: StatusOK}, {Status: StatusWarning}}},
			},
			expected: false,
		},
	}

	checker := NewChecker(&hostexec.MockExecutor{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, checker.HasIssues(tt.groups))
		})
	}
}

func TestChecker_RunFix(t *testing.T) {
	exec := &hostexec.MockExecutor{}
	checker := NewChecker(exec)

	require.NoError(t, checker.RunFix(context.Background(), GetFixCommand(IDSgdisk)))
	assert.Equal(t, []string{"sh -c sudo apt install -y gdisk"}, exec.Calls())

	err := checker.RunFix(context.Background(), nil)
	assert.ErrorContains(t, err, "no fix command available")
}

func TestChecker_RunFix_Failure(t *testing.T) {
	exec := &hostexec.MockExecutor{
		OutputFunc: func(name string, args ...string) ([]byte, error) {
			return nil, errors.New("exit status 100")
		},
	}

	err := NewChecker(exec).RunFix(context.Background(), GetFixCommand(IDMkfs))
	assert.ErrorContains(t, err, "fix failed")
}

func TestCheckStatus_String(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "missing", StatusMissing.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "warning", StatusWarning.String())
	assert.Equal(t, "unknown", CheckStatus(42).String())
}

func TestGetFixCommand_NoPackage(t *testing.T) {
	assert.Nil(t, GetFixCommand(IDLiveMedium))
}
