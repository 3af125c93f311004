package worddiff

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/spf13/afero"
)

// Scratch creates the temporary files of comparisons and removes them on
// Cleanup. Files are created readable and writable for the owner only. A
// Scratch may be cleaned up from another goroutine, e.g. a signal handler.
type Scratch struct {
	fs  afero.Fs
	dir string

	mu    sync.Mutex
	files []afero.File
}

// NewScratch uses the OS file system if fs is nil and the default directory
// for temporary files if dir is empty.
func NewScratch(fs afero.Fs, dir string) *Scratch {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Scratch{fs: fs, dir: dir}
}

func (s *Scratch) Fs() afero.Fs { return s.fs }

// Create makes a new scratch file. The recursion depth and role only serve
// to make the file names distinct and recognizable.
func (s *Scratch) Create(depth int, role string) (afero.File, error) {
	f, err := afero.TempFile(s.fs, s.dir, fmt.Sprintf("worddiff-%d-%s-*", depth, role))
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	s.mu.Lock()
	s.files = append(s.files, f)
	s.mu.Unlock()
	return f, nil
}

// Release closes and removes files before the final Cleanup.
func (s *Scratch) Release(files ...afero.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, f := range files {
		if f == nil {
			continue
		}
		i := slices.Index(s.files, f)
		if i < 0 {
			continue
		}
		s.files = slices.Delete(s.files, i, i+1)
		errs = append(errs, s.remove(f))
	}
	return errors.Join(errs...)
}

// Cleanup closes and removes all files that were not released yet.
func (s *Scratch) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, f := range s.files {
		errs = append(errs, s.remove(f))
	}
	s.files = nil
	return errors.Join(errs...)
}

func (s *Scratch) remove(f afero.File) error {
	f.Close()
	if err := s.fs.Remove(f.Name()); err != nil {
		return fmt.Errorf("remove scratch file: %w", err)
	}
	return nil
}
