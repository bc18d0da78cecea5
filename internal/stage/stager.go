package stage

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/zoro11031/treestage/internal/system"
)

// Stager replaces a destination with a copy of a source file or tree
type Stager struct {
	fs        system.PathAccess
	eraser    *Eraser
	ancestors *AncestorMaterializer
	streams   *StreamCopier
	trees     *TreeCopier
	log       zerolog.Logger
}

// New creates a Stager and the components it drives
func New(fs system.PathAccess, logger zerolog.Logger) *Stager {
	streams := NewStreamCopier(fs)
	return &Stager{
		fs:        fs,
		eraser:    NewEraser(fs, logger),
		ancestors: NewAncestorMaterializer(fs),
		streams:   streams,
		trees:     NewTreeCopier(fs, streams),
		log:       logger,
	}
}

// Eraser returns the eraser used by the stager
func (s *Stager) Eraser() *Eraser {
	return s.eraser
}

// Ancestors returns the ancestor materializer used by the stager
func (s *Stager) Ancestors() *AncestorMaterializer {
	return s.ancestors
}

// Stage copies src to dst, replacing whatever dst held. When clearParent is
// set, every entry in dst's parent directory is removed first. A missing
// src is not an error and leaves the filesystem untouched.
func (s *Stager) Stage(src, dst string, clearParent bool) error {
	if src == "" {
		return fmt.Errorf("%w: source path is empty", ErrInvalidArgument)
	}
	if dst == "" {
		return fmt.Errorf("%w: destination path is empty", ErrInvalidArgument)
	}

	if !s.fs.Exists(src) {
		s.log.Debug().Str("source", src).Msg("source does not exist, nothing to stage")
		return nil
	}

	if parent, ok := ParentOf(dst); ok && clearParent {
		s.log.Debug().Str("parent", parent).Msg("clearing destination parent")
		s.eraser.EraseChildren(parent)
	}

	if err := s.ancestors.Materialize(dst); err != nil {
		return err
	}

	if s.fs.Exists(dst) {
		if err := s.eraser.EraseRecursive(dst); err != nil {
			return fmt.Errorf("failed to replace %s: %w", dst, err)
		}
	}

	if !s.fs.Exists(src) {
		return fmt.Errorf("failed to stage %s: source was removed while clearing %s", src, dst)
	}

	if err := s.trees.Copy(src, dst); err != nil {
		return fmt.Errorf("failed to stage %s to %s: %w", src, dst, err)
	}

	s.log.Debug().Str("source", src).Str("destination", dst).Msg("staged")
	return nil
}

// StageFromStream writes r to the file at dst, replacing whatever dst held.
// r is closed before StageFromStream returns, including on invalid arguments.
func (s *Stager) StageFromStream(r io.ReadCloser, dst string) error {
	if r == nil {
		return fmt.Errorf("%w: input stream is nil", ErrInvalidArgument)
	}
	if dst == "" {
		if err := r.Close(); err != nil {
			s.log.Debug().Err(err).Msg("failed to close input stream")
		}
		return fmt.Errorf("%w: destination path is empty", ErrInvalidArgument)
	}

	if s.fs.Exists(dst) {
		if err := s.eraser.EraseRecursive(dst); err != nil {
			_ = r.Close()
			return fmt.Errorf("failed to replace %s: %w", dst, err)
		}
	}

	if err := s.ancestors.Materialize(dst); err != nil {
		_ = r.Close()
		return err
	}

	if err := s.streams.Copy(r, dst); err != nil {
		return fmt.Errorf("failed to stage stream to %s: %w", dst, err)
	}

	return nil
}
