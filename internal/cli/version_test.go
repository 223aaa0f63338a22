package cli

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return info, info != nil
	}
}

func TestCurrentVersionInfoFromBuildInfo(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main: debug.Module{
			Path:    "github.com/aurule/npc",
			Version: "v2.1.0",
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-02-14T17:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "GOOS", Value: "windows"},
			{Key: "GOARCH", Value: "amd64"},
		},
	})

	info := currentVersionInfo()

	assert.Equal(t, "v2.1.0", info.Version)
	assert.Equal(t, "github.com/aurule/npc", info.ModulePath)
	assert.Equal(t, "abc123", info.Commit)
	assert.Equal(t, "2026-02-14T17:00:00Z", info.CommitTime)
	assert.True(t, info.Modified)
	assert.Equal(t, "go1.23.4", info.GoVersion)
	assert.Equal(t, "windows", info.GOOS)
	assert.Equal(t, "amd64", info.GOARCH)
}

func TestCurrentVersionInfoFallbackWhenBuildInfoMissing(t *testing.T) {
	stubBuildInfo(t, nil)

	info := currentVersionInfo()

	assert.Equal(t, "devel", info.Version)
	assert.Equal(t, defaultModulePath, info.ModulePath)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.GOOS)
	assert.Equal(t, runtime.GOARCH, info.GOARCH)
}

func TestVersionCommand(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main: debug.Module{
			Path:    "github.com/aurule/npc",
			Version: "(devel)",
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.modified", Value: "false"},
			{Key: "GOOS", Value: "darwin"},
			{Key: "GOARCH", Value: "arm64"},
		},
	})

	t.Run("json", func(t *testing.T) {
		r := run(t, "--json", "version")
		require.NoError(t, r.err, r.errOut)

		var data versionInfo
		resp := decode(t, r.out, &data)
		assert.True(t, resp.OK)
		assert.Equal(t, "devel", data.Version)
		assert.Equal(t, "deadbeef", data.Commit)
		assert.Equal(t, "darwin", data.GOOS)
		assert.Equal(t, "arm64", data.GOARCH)
	})

	t.Run("text", func(t *testing.T) {
		r := run(t, "version")
		require.NoError(t, r.err, r.errOut)
		assert.Contains(t, r.out, "npc devel\n")
		assert.Contains(t, r.out, "commit: deadbeef\n")
		assert.Contains(t, r.out, "platform: darwin/arm64\n")
	})
}
