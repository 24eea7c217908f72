// Package staging copies the bundled game data into writable storage on
// first run.
package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// MarkerFile is written to the destination once a copy completes. Its
// presence makes Stage a no-op.
const MarkerFile = ".assets_copied"

// DefaultRoot is the subtree of the bundle that holds game data.
const DefaultRoot = "gamedata"

// Dirs are created under the destination for user content.
var Dirs = []string{"addons", "demos", "luafiles"}

// Result summarizes a Stage call.
type Result struct {
	Copied        int
	Skipped       int
	AlreadyStaged bool
}

// Stager copies a subtree of a bundle into a destination directory.
type Stager struct {
	src  fs.FS
	root string
	dest string
}

// New creates a Stager that copies root from src into dest. A nil src
// stages nothing but still manages dest.
func New(src fs.FS, root, dest string) *Stager {
	if root == "" {
		root = "."
	}
	return &Stager{src: src, root: root, dest: dest}
}

// Dest returns the destination directory.
func (s *Stager) Dest() string {
	return s.dest
}

// EnsureDirs creates the destination and its user content directories.
func (s *Stager) EnsureDirs() error {
	for _, dir := range append([]string{""}, Dirs...) {
		if err := os.MkdirAll(filepath.Join(s.dest, dir), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Join(s.dest, dir), err)
		}
	}
	return nil
}

// Staged reports whether a previous copy completed.
func (s *Stager) Staged() bool {
	_, err := os.Stat(filepath.Join(s.dest, MarkerFile))
	return err == nil
}

// Stage copies every file under the root into the destination, unless the
// marker file says this already happened. Files that already exist at the
// destination are left alone. The marker is written only after every file
// was copied, so an interrupted copy resumes on the next call.
func (s *Stager) Stage(ctx context.Context) (Result, error) {
	var res Result

	if err := os.MkdirAll(s.dest, 0o755); err != nil {
		return res, fmt.Errorf("creating %s: %w", s.dest, err)
	}
	if s.Staged() {
		log.Printf("Assets already staged in %s", s.dest)
		res.AlreadyStaged = true
		return res, nil
	}

	if s.src == nil {
		log.Printf("No bundled game data; using %s as is", s.dest)
		return res, nil
	}

	log.Printf("Staging game data to %s", s.dest)

	err := fs.WalkDir(s.src, s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(p, s.root), "/")
		if s.root == "." {
			rel = p
		}
		target := filepath.Join(s.dest, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		if _, err := os.Stat(target); err == nil {
			res.Skipped++
			return nil
		}
		if err := s.copyFile(p, target); err != nil {
			return err
		}
		res.Copied++
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("staging %s: %w", s.root, err)
	}

	if err := os.WriteFile(filepath.Join(s.dest, MarkerFile), nil, 0o644); err != nil {
		return res, fmt.Errorf("writing marker: %w", err)
	}
	log.Printf("Staged %d files (%d already present)", res.Copied, res.Skipped)
	return res, nil
}

// copyFile writes through a temporary file so a partial copy is never
// mistaken for a complete one.
func (s *Stager) copyFile(src, target string) error {
	in, err := s.src.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// HasGameFile reports whether name exists in the destination.
func (s *Stager) HasGameFile(name string) bool {
	_, err := os.Stat(filepath.Join(s.dest, name))
	return err == nil
}

// GameFiles lists the .pk3 archives in the destination, sorted by name.
// A missing destination yields an empty list.
func (s *Stager) GameFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dest, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".pk3" {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)
	return files, nil
}
