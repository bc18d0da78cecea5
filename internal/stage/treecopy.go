package stage

import (
	"path/filepath"

	"github.com/zoro11031/treestage/internal/system"
)

// TreeCopier mirrors a file or directory tree into a destination
type TreeCopier struct {
	fs      system.PathAccess
	streams *StreamCopier
}

// NewTreeCopier creates a new TreeCopier instance
func NewTreeCopier(fs system.PathAccess, streams *StreamCopier) *TreeCopier {
	return &TreeCopier{
		fs:      fs,
		streams: streams,
	}
}

type copyJob struct {
	src string
	dst string
}

// Copy mirrors src into dst. A directory source creates dst (with full access)
// when missing and copies every child below it; a file source is copied
// directly. The first failure aborts the walk; entries already copied stay.
func (t *TreeCopier) Copy(src, dst string) error {
	if !t.fs.IsDirectory(src) {
		return t.streams.CopyFile(src, dst)
	}

	pending := []copyJob{{src: src, dst: dst}}
	for len(pending) > 0 {
		job := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if !t.fs.Exists(job.dst) {
			if err := t.fs.CreateDirectory(job.dst); err != nil {
				return err
			}
			t.fs.GrantFullAccess(job.dst)
		}

		for _, child := range t.fs.ListChildren(job.src) {
			target := filepath.Join(job.dst, filepath.Base(child))
			if t.fs.IsDirectory(child) {
				pending = append(pending, copyJob{src: child, dst: target})
				continue
			}
			if err := t.streams.CopyFile(child, target); err != nil {
				return err
			}
		}
	}

	return nil
}
