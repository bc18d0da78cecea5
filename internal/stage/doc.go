// Package stage copies and deletes directory trees on behalf of callers that
// need a destination in a known state.
//
// Every directory and file the package creates is given full access (0777)
// before the creating call returns. Deletion is depth-first. Nothing is cached
// between calls: each traversal lists children from the filesystem again.
//
// The Stager is the entry point. It combines the Eraser, the
// AncestorMaterializer, the StreamCopier and the TreeCopier:
//
//	fs := system.NewFileSystem(logger)
//	s := stage.New(fs, logger)
//	if err := s.Stage("/downloads/theme", "/data/themes/current", false); err != nil {
//	    return err
//	}
//
// None of the types lock anything. A destination and its ancestors are
// assumed to belong to one caller for the duration of a call.
package stage
