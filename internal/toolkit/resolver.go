package toolkit

import (
	"path/filepath"
	"strings"

	"github.com/nexusforge/agentcore/pkg/models"
)

// Resolver confines candidate paths to a set of allowed roots. Adapted
// from the teacher's internal/tools/files.Resolver, generalized to
// accept multiple roots (workspace root plus per-guardrail extra
// roots) instead of just one.
type Resolver struct {
	Roots []string
}

// NewResolver builds a Resolver from the workspace root plus any extra
// allowed roots (e.g. allowedWriteRoots, allowedExecRoots).
func NewResolver(workspaceRoot string, extraRoots []string) Resolver {
	roots := make([]string, 0, len(extraRoots)+1)
	roots = append(roots, cleanRoot(workspaceRoot))
	for _, r := range extraRoots {
		roots = append(roots, cleanRoot(r))
	}
	return Resolver{Roots: roots}
}

func cleanRoot(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Clean(root)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

// Resolve resolves path (relative paths are joined against the first
// root) and requires the result to equal, or be a descendant of, at
// least one configured root. Symlinks are resolved where possible so a
// symlink cannot be used to escape confinement.
func (r Resolver) Resolve(path string) (string, error) {
	if path == "" {
		return "", models.New(models.KindInvalidPayload, "path must not be empty")
	}
	var candidate string
	if filepath.IsAbs(path) {
		candidate = filepath.Clean(path)
	} else if len(r.Roots) > 0 {
		candidate = filepath.Clean(filepath.Join(r.Roots[0], path))
	} else {
		candidate = filepath.Clean(path)
	}

	resolved := candidate
	if real, err := filepath.EvalSymlinks(candidate); err == nil {
		resolved = real
	} else if real, err := resolveExistingAncestor(candidate); err == nil {
		resolved = real
	}

	for _, root := range r.Roots {
		if root == "" {
			continue
		}
		if resolved == root {
			return resolved, nil
		}
		rel, err := filepath.Rel(root, resolved)
		if err != nil {
			continue
		}
		if rel == "." || (!strings.HasPrefix(rel, "..") && rel != "..") {
			return resolved, nil
		}
	}
	return "", models.New(models.KindPathNotAllowed, "path escapes all allowed roots: "+path)
}

// resolveExistingAncestor walks up from path until it finds an
// existing ancestor, resolves symlinks on that ancestor, then rejoins
// the remaining (not-yet-created) suffix. Used for write targets whose
// final component does not exist yet.
func resolveExistingAncestor(path string) (string, error) {
	dir := filepath.Dir(path)
	var suffix []string
	for {
		if real, err := filepath.EvalSymlinks(dir); err == nil {
			joined := real
			for i := len(suffix) - 1; i >= 0; i-- {
				joined = filepath.Join(joined, suffix[i])
			}
			return filepath.Join(joined, filepath.Base(path)), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Clean(path), nil
		}
		suffix = append(suffix, filepath.Base(dir))
		dir = parent
	}
}
