package sharedtest

import (
	"fmt"
	"os"
)

// WithTempFileContaining creates a temporary file with the specified contents, passes its name to
// the given function, then ensures that the file is deleted.
func WithTempFileContaining(data []byte, action func(filePath string)) {
	file, err := os.CreateTemp("", "eventline-test")
	if err != nil {
		panic(fmt.Sprintf("can't create temp file: %s", err))
	}
	filePath := file.Name()
	defer func() {
		_ = os.Remove(filePath)
	}()
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		panic(fmt.Sprintf("can't write temp file data: %s", err))
	}
	if err := file.Close(); err != nil {
		panic(fmt.Sprintf("can't close temp file: %s", err))
	}
	action(filePath)
}
