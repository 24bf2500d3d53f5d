package util

import (
	"os"
	"path/filepath"
	"strings"
)

// WriteReport writes the given lines to a report file, creating the
// parent directory if needed.
func WriteReport(savePath string, lines ...string) error {
	if err := os.MkdirAll(filepath.Dir(savePath), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(savePath, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

// AppendReport appends the given lines to a report file.
func AppendReport(savePath string, lines ...string) error {
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, line := range lines {
		if _, err = f.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}
