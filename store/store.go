package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"solder/domain"

	zlog "github.com/rs/zerolog/log"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidPath   = errors.New("invalid path")
	ErrIsDirectory   = errors.New("is a directory")
)

// ProjectStore owns the on-disk project hierarchy: one sub-directory per
// project under Root. Every path-accepting operation resolves and validates
// the final absolute path before touching the filesystem.
type ProjectStore struct {
	Root string
}

func NewProjectStore(root string) *ProjectStore {
	return &ProjectStore{Root: root}
}

// validateProjectName rejects names that could escape the projects root or
// produce surprising directory entries.
func validateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: project name is empty", ErrInvalidPath)
	}
	if strings.ContainsAny(name, "/\\\x00") || name == "." || name == ".." {
		return fmt.Errorf("%w: project name %q", ErrInvalidPath, name)
	}
	return nil
}

// resolve joins a project-relative path onto the project directory and
// verifies the result stays within it. All store operations go through this
// single containment check.
func (s *ProjectStore) resolve(project, relPath string) (string, error) {
	if err := validateProjectName(project); err != nil {
		return "", err
	}
	if strings.ContainsRune(relPath, '\x00') {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, relPath)
	}

	projectDir := filepath.Join(s.Root, project)
	abs := filepath.Join(projectDir, filepath.FromSlash(relPath))
	abs = filepath.Clean(abs)
	if abs != projectDir && !strings.HasPrefix(abs, projectDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes project root", ErrInvalidPath, relPath)
	}
	return abs, nil
}

// ProjectDir returns the validated absolute directory of a project.
func (s *ProjectStore) ProjectDir(project string) (string, error) {
	return s.resolve(project, ".")
}

// RequireProject returns the project directory, or ErrNotFound when the
// project does not exist.
func (s *ProjectStore) RequireProject(project string) (string, error) {
	dir, err := s.resolve(project, ".")
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: project %q", ErrNotFound, project)
	}
	return dir, nil
}

// ListProjects returns the directory entries under the projects root,
// filtered to directories only.
func (s *ProjectStore) ListProjects() ([]domain.Project, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects root: %w", err)
	}

	projects := []domain.Project{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			zlog.Warn().Err(err).Str("project", entry.Name()).Msg("Failed to stat project directory")
			continue
		}
		projects = append(projects, domain.Project{
			Name:        entry.Name(),
			IsDirectory: true,
			CreatedAt:   info.ModTime(),
			ModifiedAt:  info.ModTime(),
		})
	}
	return projects, nil
}

// CreateProjectDir reserves a project directory. Scaffolding its contents is
// the toolchain's job; the API handler composes the two.
func (s *ProjectStore) CreateProjectDir(project string) error {
	dir, err := s.resolve(project, ".")
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("%w: project %q", ErrAlreadyExists, project)
	}
	return os.MkdirAll(dir, 0755)
}

// DeleteProject removes a project directory and everything under it.
func (s *ProjectStore) DeleteProject(project string) error {
	dir, err := s.resolve(project, ".")
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("%w: project %q", ErrNotFound, project)
	}
	return os.RemoveAll(dir)
}

// GetTree rebuilds a project's full directory tree from the filesystem.
// There is no incremental diffing: the returned snapshot is an immutable
// value object.
func (s *ProjectStore) GetTree(project string) ([]domain.FileNode, error) {
	dir, err := s.resolve(project, ".")
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: project %q", ErrNotFound, project)
	}
	return buildTree(dir, "")
}

func buildTree(dir, relPath string) ([]domain.FileNode, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", relPath, err)
	}

	// directories first, then lexical by name
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	nodes := []domain.FileNode{}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// entry vanished between ReadDir and stat
			continue
		}
		childRel := entry.Name()
		if relPath != "" {
			childRel = relPath + "/" + entry.Name()
		}
		node := domain.FileNode{
			Name:       entry.Name(),
			Path:       childRel,
			CreatedAt:  info.ModTime(),
			ModifiedAt: info.ModTime(),
		}
		if entry.IsDir() {
			node.Type = domain.NodeTypeDirectory
			children, err := buildTree(filepath.Join(dir, entry.Name()), childRel)
			if err != nil {
				return nil, err
			}
			node.Children = children
		} else {
			node.Type = domain.NodeTypeFile
			node.Size = info.Size()
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// ReadFile returns the content of a file within a project.
func (s *ProjectStore) ReadFile(project, relPath string) (string, error) {
	abs, err := s.resolve(project, relPath)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, relPath)
	} else if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", relPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrIsDirectory, relPath)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", relPath, err)
	}
	return string(content), nil
}

// WriteFile writes content to a file, creating intermediate directories as
// needed. Writes are unconditional: two concurrent writers to the same path
// race with last-write-wins semantics.
func (s *ProjectStore) WriteFile(project, relPath, content string) error {
	abs, err := s.resolve(project, relPath)
	if err != nil {
		return err
	}
	if relPath == "" || relPath == "." {
		return fmt.Errorf("%w: file path is empty", ErrInvalidPath)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("failed to create parent directories for %s: %w", relPath, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	return nil
}

// MakeDirectory creates a directory (and any missing parents) within a
// project. Idempotent.
func (s *ProjectStore) MakeDirectory(project, relPath string) error {
	abs, err := s.resolve(project, relPath)
	if err != nil {
		return err
	}
	if relPath == "" || relPath == "." {
		return fmt.Errorf("%w: directory path is empty", ErrInvalidPath)
	}
	return os.MkdirAll(abs, 0755)
}

// DeleteEntry unlinks a file or recursively removes a directory.
func (s *ProjectStore) DeleteEntry(project, relPath string) error {
	abs, err := s.resolve(project, relPath)
	if err != nil {
		return err
	}
	if relPath == "" || relPath == "." {
		return fmt.Errorf("%w: refusing to delete project root via entry delete", ErrInvalidPath)
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, relPath)
	} else if err != nil {
		return fmt.Errorf("failed to stat %s: %w", relPath, err)
	}
	if info.IsDir() {
		return os.RemoveAll(abs)
	}
	return os.Remove(abs)
}

// RenameEntry renames an entry to a sibling path dirname(path)/newName.
// Moves across directories are deliberately not supported.
func (s *ProjectStore) RenameEntry(project, relPath, newName string) error {
	if newName == "" || strings.ContainsAny(newName, "/\\\x00") || newName == "." || newName == ".." {
		return fmt.Errorf("%w: new name %q", ErrInvalidPath, newName)
	}
	abs, err := s.resolve(project, relPath)
	if err != nil {
		return err
	}
	if relPath == "" || relPath == "." {
		return fmt.Errorf("%w: cannot rename project root", ErrInvalidPath)
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, relPath)
	}

	dest := filepath.Join(filepath.Dir(abs), newName)
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, newName)
	}
	if err := os.Rename(abs, dest); err != nil {
		return fmt.Errorf("failed to rename %s: %w", relPath, err)
	}
	return nil
}
