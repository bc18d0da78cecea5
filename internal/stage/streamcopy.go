package stage

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/zoro11031/treestage/internal/system"
)

// chunkSize is the size of each read from the source stream
const chunkSize = 8192

// StreamCopier writes byte streams into destination files
type StreamCopier struct {
	fs system.PathAccess
}

// NewStreamCopier creates a new StreamCopier instance
func NewStreamCopier(fs system.PathAccess) *StreamCopier {
	return &StreamCopier{fs: fs}
}

// Copy streams src into the file at dst. The file is created with full
// access if it does not exist and truncated if it does. src is always
// closed, and so is the destination once opened, whatever the outcome.
func (c *StreamCopier) Copy(src io.ReadCloser, dst string) (retErr error) {
	if src == nil {
		return fmt.Errorf("%w: source stream is nil", ErrInvalidArgument)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("failed to close source stream: %w", closeErr)
		}
	}()

	if dst == "" {
		return fmt.Errorf("%w: destination path is empty", ErrInvalidArgument)
	}

	if !c.fs.Exists(dst) {
		if err := c.fs.CreateFile(dst); err != nil {
			return err
		}
		c.fs.GrantFullAccess(dst)
	}

	out, err := c.fs.OpenWriter(dst)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("failed to close %s: %w", dst, closeErr)
		}
	}()

	reader := bufio.NewReaderSize(src, chunkSize)
	writer := bufio.NewWriterSize(out, chunkSize)
	buf := make([]byte, chunkSize)

	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			if _, err := writer.Write(buf[:n]); err != nil {
				return fmt.Errorf("failed to write %s: %w", dst, err)
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return fmt.Errorf("failed to read source for %s: %w", dst, readErr)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	return nil
}

// CopyFile copies the file at srcPath to dst
func (c *StreamCopier) CopyFile(srcPath, dst string) error {
	src, err := c.fs.OpenReader(srcPath)
	if err != nil {
		return err
	}
	return c.Copy(src, dst)
}
