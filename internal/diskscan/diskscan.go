// Package diskscan measures how much space a set of directories occupies on
// the root filesystem. Scans run on demand, independent of sampling.
package diskscan

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"
)

// OtherName labels the remainder of used space not covered by scanned
// directories.
const OtherName = "System & Other"

// DefaultMinSize is the smallest directory listed in results.
const DefaultMinSize = 10_000_000

// Entry is one row of a scan result.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size uint64 `json:"size_bytes"`
}

// Directory is a named scan target.
type Directory struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Options configures a Scanner.
type Options struct {
	Directories       []Directory
	IncludeHiddenHome bool
	MinSize           uint64
	Root              string
	Home              string
	Logger            *slog.Logger
}

// Scanner walks its directories and attributes the rest of the used space
// on Root to OtherName.
type Scanner struct {
	opts      Options
	usedSpace func(path string) (uint64, error)
}

func New(opts Options) *Scanner {
	if opts.Home == "" {
		opts.Home, _ = os.UserHomeDir()
	}
	if opts.Directories == nil {
		opts.Directories = DefaultDirectories(opts.Home)
	}
	if opts.Root == "" {
		opts.Root = "/"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Scanner{
		opts:      opts,
		usedSpace: usedSpace,
	}
}

// DefaultDirectories returns the library and applications folders.
func DefaultDirectories(home string) []Directory {
	return []Directory{
		{Name: "Library", Path: filepath.Join(home, "Library")},
		{Name: "Applications", Path: "/Applications"},
	}
}

// Scan sizes every target and returns entries sorted largest first.
// Directories under MinSize are not listed but still count towards the
// scanned total. Only context cancellation produces an error.
func (s *Scanner) Scan(ctx context.Context) ([]Entry, error) {
	targets := make([]Directory, 0, len(s.opts.Directories))
	for _, d := range s.opts.Directories {
		targets = append(targets, Directory{Name: d.Name, Path: ExpandHome(d.Path, s.opts.Home)})
	}
	if s.opts.IncludeHiddenHome {
		targets = append(targets, hiddenDirectories(s.opts.Home, targets)...)
	}

	var entries []Entry
	var scanned uint64
	for _, d := range targets {
		size, err := DirSize(ctx, d.Path)
		if err != nil {
			return nil, err
		}
		s.opts.Logger.Debug("directory scanned", "name", d.Name, "path", d.Path, "size", size)

		if size > s.opts.MinSize {
			entries = append(entries, Entry{Name: d.Name, Path: d.Path, Size: size})
		}
		scanned += size
	}

	used, err := s.usedSpace(s.opts.Root)
	if err != nil {
		s.opts.Logger.Warn("root usage unavailable", "path", s.opts.Root, "error", err)
	}
	if used > scanned {
		entries = append(entries, Entry{Name: OtherName, Path: s.opts.Root, Size: used - scanned})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Size > entries[j].Size
	})

	return entries, nil
}

// DirSize sums allocated bytes of regular files below path. Unreadable
// subtrees contribute nothing.
func DirSize(ctx context.Context, path string) (uint64, error) {
	var total uint64

	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += allocatedSize(info)
		return nil
	})

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, err
	}
	return total, nil
}

// ExpandHome replaces a leading "~" with home.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// hiddenDirectories lists dot-directories directly under home that are not
// already targets.
func hiddenDirectories(home string, known []Directory) []Directory {
	if home == "" {
		return nil
	}

	entries, err := os.ReadDir(home)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool, len(known))
	for _, d := range known {
		seen[filepath.Base(d.Path)] = true
	}

	var dirs []Directory
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, ".") || len(name) < 2 || seen[name] || !e.IsDir() {
			continue
		}
		dirs = append(dirs, Directory{Name: displayName(name), Path: filepath.Join(home, name)})
	}
	return dirs
}

// displayName drops the leading dot and capitalizes the first letter.
func displayName(name string) string {
	name = strings.TrimPrefix(name, ".")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func usedSpace(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	if usage.Free > usage.Total {
		return 0, nil
	}
	return usage.Total - usage.Free, nil
}
