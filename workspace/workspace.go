package workspace

import (
	"errors"
	"fmt"
	"sync"

	"solder/client"
	"solder/domain"
)

var (
	ErrUnknownProject  = errors.New("unknown project")
	ErrNoActiveProject = errors.New("no active project")
)

// API is the slice of the server client the workspace needs. Satisfied by
// *client.Client.
type API interface {
	ListProjects() ([]domain.Project, error)
	CreateProject(name string) (string, error)
	DeleteProject(name string) error
	GetTree(project string) ([]domain.FileNode, error)
	ReadFile(project, path string) (string, error)
	WriteFile(project, path, content string) error
	RenameEntry(project, path, newName string) error
	DeleteEntry(project, path string) error
	MakeDirectory(project, path string) error
}

var _ API = (*client.Client)(nil)

// State is the client-side source of truth for which project is active and
// what its tree looks like. The cached tree is a snapshot: it is replaced
// wholesale by RefreshTree, never patched in place.
//
// Tree fetches are tagged with a generation counter taken when they are
// issued. Switching projects bumps the generation, so a fetch that resolves
// after a later switch is discarded instead of overwriting the new
// project's tree.
type State struct {
	api API

	mu         sync.Mutex
	projects   []domain.Project
	active     string
	tree       []domain.FileNode
	generation uint64
}

func NewState(api API) *State {
	return &State{api: api}
}

// ListProjects fetches and caches the project list. When no project is
// active yet, the first listed project becomes active and its tree is
// fetched.
func (s *State) ListProjects() ([]domain.Project, error) {
	projects, err := s.api.ListProjects()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.projects = projects
	activateFirst := s.active == "" && len(projects) > 0
	if activateFirst {
		s.active = projects[0].Name
		s.generation++
	}
	s.mu.Unlock()

	if activateFirst {
		if err := s.RefreshTree(); err != nil {
			return projects, err
		}
	}
	return projects, nil
}

// ActiveProject returns the currently active project name, or "" when none
// is active.
func (s *State) ActiveProject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Tree returns the cached tree snapshot for the active project.
func (s *State) Tree() []domain.FileNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// SwitchProject makes name the active project and refetches its tree. Fails
// with ErrUnknownProject when name is not in the cached project list.
func (s *State) SwitchProject(name string) error {
	s.mu.Lock()
	known := false
	for _, p := range s.projects {
		if p.Name == name {
			known = true
			break
		}
	}
	if !known {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownProject, name)
	}
	s.active = name
	s.generation++
	s.tree = nil
	s.mu.Unlock()

	return s.RefreshTree()
}

// RefreshTree refetches the full tree for the active project. The result is
// discarded when the active project changed while the fetch was in flight.
func (s *State) RefreshTree() error {
	s.mu.Lock()
	project := s.active
	generation := s.generation
	s.mu.Unlock()
	if project == "" {
		return ErrNoActiveProject
	}

	tree, err := s.api.GetTree(project)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		// stale response from before a project switch
		return nil
	}
	s.tree = tree
	return nil
}

// CreateProject scaffolds a new project, makes it active and loads its
// tree. Returns the toolchain's scaffold output.
func (s *State) CreateProject(name string) (string, error) {
	output, err := s.api.CreateProject(name)
	if err != nil {
		return "", err
	}

	projects, err := s.api.ListProjects()
	if err != nil {
		return output, err
	}
	s.mu.Lock()
	s.projects = projects
	s.active = name
	s.generation++
	s.tree = nil
	s.mu.Unlock()

	return output, s.RefreshTree()
}

// DeleteProject removes a project. When it was the active project, the
// first remaining project becomes active.
func (s *State) DeleteProject(name string) error {
	if err := s.api.DeleteProject(name); err != nil {
		return err
	}

	projects, err := s.api.ListProjects()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.projects = projects
	wasActive := s.active == name
	if wasActive {
		s.active = ""
		s.tree = nil
		s.generation++
		if len(projects) > 0 {
			s.active = projects[0].Name
		}
	}
	refresh := wasActive && s.active != ""
	s.mu.Unlock()

	if refresh {
		return s.RefreshTree()
	}
	return nil
}

// mutate runs one file operation against the active project and refreshes
// the tree on success. On failure the cached tree is left untouched.
func (s *State) mutate(op func(project string) error) error {
	project := s.ActiveProject()
	if project == "" {
		return ErrNoActiveProject
	}
	if err := op(project); err != nil {
		return err
	}
	return s.RefreshTree()
}

func (s *State) CreateFile(path, content string) error {
	return s.mutate(func(project string) error {
		return s.api.WriteFile(project, path, content)
	})
}

func (s *State) CreateFolder(path string) error {
	return s.mutate(func(project string) error {
		return s.api.MakeDirectory(project, path)
	})
}

func (s *State) Delete(path string) error {
	return s.mutate(func(project string) error {
		return s.api.DeleteEntry(project, path)
	})
}

func (s *State) Rename(path, newName string) error {
	return s.mutate(func(project string) error {
		return s.api.RenameEntry(project, path, newName)
	})
}

// SaveFile persists content for an existing file. Like every other write it
// refreshes the tree snapshot on success: the snapshot carries file sizes
// and modification times, which a save changes.
func (s *State) SaveFile(path, content string) error {
	return s.mutate(func(project string) error {
		return s.api.WriteFile(project, path, content)
	})
}

// ReadFile fetches file content for the active project.
func (s *State) ReadFile(path string) (string, error) {
	project := s.ActiveProject()
	if project == "" {
		return "", ErrNoActiveProject
	}
	return s.api.ReadFile(project, path)
}
