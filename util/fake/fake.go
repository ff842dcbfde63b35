package fake

import (
	"os"
	"path/filepath"

	checkv1 "gopkg.in/check.v1"
)

func CreateTempDirectory(parentDirectory string, c *checkv1.C) string {
	if parentDirectory != "" {
		_, err := os.Stat(parentDirectory)
		c.Assert(err, checkv1.IsNil)
	}

	tempDir, err := os.MkdirTemp(parentDirectory, "dsm-exporter-")
	c.Assert(err, checkv1.IsNil)
	return tempDir
}

// CreateConfigFile writes content into directory/fileName and returns the
// path of the file.
func CreateConfigFile(directory, fileName, content string, c *checkv1.C) string {
	path := filepath.Join(directory, fileName)
	err := os.WriteFile(path, []byte(content), 0600)
	c.Assert(err, checkv1.IsNil)
	return path
}
