package testutil

import (
	"os"
	"strings"
)

// AssertFileExists fails the test if the file does not exist.
func (c *TestCampaign) AssertFileExists(relPath string) {
	c.t.Helper()
	if _, err := os.Stat(c.Abs(relPath)); os.IsNotExist(err) {
		c.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (c *TestCampaign) AssertFileNotExists(relPath string) {
	c.t.Helper()
	if _, err := os.Stat(c.Abs(relPath)); err == nil {
		c.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (c *TestCampaign) AssertFileContains(relPath, substr string) {
	c.t.Helper()
	content := c.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		c.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertDirExists fails the test if the directory does not exist.
func (c *TestCampaign) AssertDirExists(relPath string) {
	c.t.Helper()
	info, err := os.Stat(c.Abs(relPath))
	if os.IsNotExist(err) {
		c.t.Errorf("expected directory to exist: %s", relPath)
		return
	}
	if !info.IsDir() {
		c.t.Errorf("expected %s to be a directory, but it's a file", relPath)
	}
}

// AssertDirNotExists fails the test if the directory exists.
func (c *TestCampaign) AssertDirNotExists(relPath string) {
	c.t.Helper()
	if _, err := os.Stat(c.Abs(relPath)); err == nil {
		c.t.Errorf("expected directory to not exist: %s", relPath)
	}
}
