// Package testutil provides fixtures shared by npc package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aurule/npc/defaults"
	"github.com/aurule/npc/internal/settings"
)

// TestCampaign is a temporary campaign directory for testing.
type TestCampaign struct {
	Path     string
	t        testing.TB
	settings string
	dirs     []string
	files    map[string]string
}

// NewTestCampaign creates a new campaign builder.
// Call Build() to create the actual directory.
func NewTestCampaign(t testing.TB) *TestCampaign {
	t.Helper()
	return &TestCampaign{
		t:     t,
		files: make(map[string]string),
	}
}

// WithSettings sets the contents of .npc/settings.yaml.
func (c *TestCampaign) WithSettings(yaml string) *TestCampaign {
	c.settings = yaml
	return c
}

// WithDir adds an empty directory. The path is relative to the campaign root.
func (c *TestCampaign) WithDir(paths ...string) *TestCampaign {
	c.dirs = append(c.dirs, paths...)
	return c
}

// WithFile adds a file. The path is relative to the campaign root.
func (c *TestCampaign) WithFile(path, content string) *TestCampaign {
	c.files[path] = content
	return c
}

// Build creates the campaign directory and everything configured on it.
// The .npc directory is always created so the root can be discovered.
func (c *TestCampaign) Build() *TestCampaign {
	c.t.Helper()

	c.Path = c.t.TempDir()
	c.mkdir(".npc")
	if c.settings != "" {
		c.writeFile(filepath.Join(".npc", "settings.yaml"), c.settings)
	}
	for _, dir := range c.dirs {
		c.mkdir(dir)
	}
	for path, content := range c.files {
		c.writeFile(path, content)
	}

	return c
}

// Abs returns the absolute path of relPath inside the campaign.
func (c *TestCampaign) Abs(relPath string) string {
	return filepath.Join(c.Path, filepath.FromSlash(relPath))
}

func (c *TestCampaign) mkdir(relPath string) {
	c.t.Helper()
	if err := os.MkdirAll(c.Abs(relPath), 0755); err != nil {
		c.t.Fatalf("failed to create directory %s: %v", relPath, err)
	}
}

// writeFile writes a file, creating parent directories as needed.
func (c *TestCampaign) writeFile(relPath, content string) {
	c.t.Helper()
	fullPath := c.Abs(relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		c.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the campaign.
func (c *TestCampaign) ReadFile(relPath string) string {
	c.t.Helper()
	content, err := os.ReadFile(c.Abs(relPath))
	if err != nil {
		c.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the campaign.
func (c *TestCampaign) FileExists(relPath string) bool {
	c.t.Helper()
	_, err := os.Stat(c.Abs(relPath))
	return err == nil
}

// Settings composes the packaged defaults with the campaign's own
// settings. There is no user tier.
func (c *TestCampaign) Settings() *settings.Settings {
	c.t.Helper()
	st, err := settings.Load(settings.Options{
		Tiers:        settings.StandardTiers(defaults.FS, "", c.Path),
		CampaignRoot: c.Path,
	})
	if err != nil {
		c.t.Fatalf("failed to load settings: %v", err)
	}
	return st
}

// MinimalSettings returns a campaign settings file using the generic system.
func MinimalSettings() string {
	return `npc:
  version: "2.0"
campaign:
  name: Test Campaign
  systems: [generic]
`
}

// NWoDSettings returns a campaign settings file using the nwod system.
func NWoDSettings() string {
	return `npc:
  version: "2.0"
campaign:
  name: Autumn Court
  systems: [nwod]
`
}
