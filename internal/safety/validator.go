package safety

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidPath    = errors.New("invalid path")
	ErrProtectedPath  = errors.New("protected path")
	ErrOutsideAllowed = errors.New("outside allowed roots")
	ErrTraversal      = errors.New("path traversal detected")
	ErrSymlinkEscape  = errors.New("symlink escape detected")
)

// Validator decides whether a path may be touched by cleanup operations
type Validator struct {
	AllowedRoots   []string
	ProtectedPaths []string
}

// NewValidator creates a validator with allowed roots and optional additional protected paths
func NewValidator(allowed []string, extraProtected []string) *Validator {
	return &Validator{
		AllowedRoots:   normalizeRoots(allowed),
		ProtectedPaths: defaultProtected(extraProtected),
	}
}

// ValidateTarget returns a typed error when path must not be cleaned
func (v *Validator) ValidateTarget(path string) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}

	if DetectTraversal(path) {
		return ErrTraversal
	}

	if IsProtectedPath(p, v.ProtectedPaths) {
		return ErrProtectedPath
	}

	if !IsWithinAllowedRoots(p, v.AllowedRoots) {
		return ErrOutsideAllowed
	}

	escaped, err := DetectSymlinkEscape(p, v.AllowedRoots)
	if err != nil {
		// A missing target cannot escape anything
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if escaped {
		return ErrSymlinkEscape
	}

	return nil
}

// NormalizePath converts path to absolute, cleaned form
func NormalizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrInvalidPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ErrInvalidPath
	}
	return filepath.Clean(abs), nil
}

// DetectTraversal reports any ".." segment in raw input
func DetectTraversal(raw string) bool {
	for _, p := range strings.Split(filepath.ToSlash(raw), "/") {
		if p == ".." {
			return true
		}
	}
	return false
}

// IsWithinAllowedRoots checks if path is within any allowed root
func IsWithinAllowedRoots(path string, allowedRoots []string) bool {
	for _, r := range allowedRoots {
		if hasPathPrefix(path, r) {
			return true
		}
	}
	return false
}

// DetectSymlinkEscape resolves symlinks and checks whether the target leaves the allowed roots
func DetectSymlinkEscape(cleanAbs string, allowedRoots []string) (bool, error) {
	resolved, err := filepath.EvalSymlinks(cleanAbs)
	if err != nil {
		return false, err
	}
	// Roots may themselves sit behind symlinks (e.g. /tmp on macOS)
	roots := make([]string, 0, len(allowedRoots)*2)
	for _, r := range allowedRoots {
		roots = append(roots, r)
		if rr, err := filepath.EvalSymlinks(r); err == nil {
			roots = append(roots, rr)
		}
	}
	return !IsWithinAllowedRoots(filepath.Clean(resolved), roots), nil
}

// IsProtectedPath checks if path equals or sits below a protected path
func IsProtectedPath(path string, protected []string) bool {
	p := filepath.Clean(path)
	if p == string(os.PathSeparator) {
		return true
	}
	for _, prot := range protected {
		if hasPathPrefix(p, prot) {
			return true
		}
	}
	return false
}

func hasPathPrefix(path, prefix string) bool {
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)

	if prefix == string(os.PathSeparator) {
		return path == prefix
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(os.PathSeparator))
}

func normalizeRoots(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		if p, err := NormalizePath(r); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// defaultProtected returns the system paths that are never cleaned plus any extras
func defaultProtected(extra []string) []string {
	base := []string{
		"/",
		"/etc",
		"/bin",
		"/usr",
		"/boot",
		"/lib",
		"/lib64",
		"/sbin",
		"/proc",
		"/sys",
		"/dev",
	}
	return append(base, extra...)
}
