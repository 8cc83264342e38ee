package fs

import (
	"fmt"
	"path/filepath"
	"strings"
)

// checkFilename rejects names that would escape the image directory.
func checkFilename(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid filename %q", name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("invalid filename %q: path traversal", name)
	}
	return nil
}
