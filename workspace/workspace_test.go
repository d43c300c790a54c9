package workspace

import (
	"sync"
	"testing"
	"time"

	"solder/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory API with optional per-project tree fetch delays,
// used to exercise the stale-response discard.
type fakeAPI struct {
	mu         sync.Mutex
	projects   []domain.Project
	trees      map[string][]domain.FileNode
	files      map[string]string
	treeDelays map[string]time.Duration
}

func newFakeAPI(projects ...string) *fakeAPI {
	f := &fakeAPI{
		trees:      make(map[string][]domain.FileNode),
		files:      make(map[string]string),
		treeDelays: make(map[string]time.Duration),
	}
	for _, name := range projects {
		f.projects = append(f.projects, domain.Project{Name: name, IsDirectory: true})
		f.trees[name] = []domain.FileNode{
			{Name: name + ".rs", Path: name + ".rs", Type: domain.NodeTypeFile},
		}
	}
	return f
}

func (f *fakeAPI) ListProjects() ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Project(nil), f.projects...), nil
}

func (f *fakeAPI) CreateProject(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, domain.Project{Name: name, IsDirectory: true})
	f.trees[name] = nil
	return "Initialized " + name, nil
}

func (f *fakeAPI) DeleteProject(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.projects[:0]
	for _, p := range f.projects {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	f.projects = kept
	delete(f.trees, name)
	return nil
}

func (f *fakeAPI) GetTree(project string) ([]domain.FileNode, error) {
	f.mu.Lock()
	delay := f.treeDelays[project]
	tree := f.trees[project]
	f.mu.Unlock()
	time.Sleep(delay)
	return tree, nil
}

func (f *fakeAPI) ReadFile(project, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[project+"/"+path], nil
}

func (f *fakeAPI) WriteFile(project, path, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[project+"/"+path] = content
	return nil
}

func (f *fakeAPI) RenameEntry(project, path, newName string) error { return nil }
func (f *fakeAPI) DeleteEntry(project, path string) error          { return nil }
func (f *fakeAPI) MakeDirectory(project, path string) error        { return nil }

func TestListProjectsActivatesFirst(t *testing.T) {
	t.Parallel()
	s := NewState(newFakeAPI("alpha", "beta"))

	projects, err := s.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "alpha", s.ActiveProject())
	require.Len(t, s.Tree(), 1)
	assert.Equal(t, "alpha.rs", s.Tree()[0].Name)
}

func TestSwitchProjectUnknown(t *testing.T) {
	t.Parallel()
	s := NewState(newFakeAPI("alpha"))
	_, err := s.ListProjects()
	require.NoError(t, err)

	err = s.SwitchProject("ghost")
	assert.ErrorIs(t, err, ErrUnknownProject)
	assert.Equal(t, "alpha", s.ActiveProject())
}

func TestSwitchProjectRefetchesTree(t *testing.T) {
	t.Parallel()
	s := NewState(newFakeAPI("alpha", "beta"))
	_, err := s.ListProjects()
	require.NoError(t, err)

	require.NoError(t, s.SwitchProject("beta"))
	assert.Equal(t, "beta", s.ActiveProject())
	require.Len(t, s.Tree(), 1)
	assert.Equal(t, "beta.rs", s.Tree()[0].Name)
}

func TestStaleTreeFetchIsDiscarded(t *testing.T) {
	t.Parallel()
	api := newFakeAPI("a", "b")
	api.treeDelays["a"] = 300 * time.Millisecond
	s := NewState(api)
	_, err := s.ListProjects()
	require.NoError(t, err)

	// switch to "a" in the background; its slow tree fetch will resolve
	// after the switch to "b" below
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.SwitchProject("a")
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, s.SwitchProject("b"))
	wg.Wait()

	assert.Equal(t, "b", s.ActiveProject())
	require.Len(t, s.Tree(), 1)
	assert.Equal(t, "b.rs", s.Tree()[0].Name, "stale fetch for %q must not overwrite the tree", "a")
}

func TestCreateProjectActivatesIt(t *testing.T) {
	t.Parallel()
	s := NewState(newFakeAPI("alpha"))
	_, err := s.ListProjects()
	require.NoError(t, err)

	output, err := s.CreateProject("fresh")
	require.NoError(t, err)
	assert.Contains(t, output, "Initialized fresh")
	assert.Equal(t, "fresh", s.ActiveProject())
}

func TestDeleteActiveProjectActivatesFirstRemaining(t *testing.T) {
	t.Parallel()
	s := NewState(newFakeAPI("alpha", "beta"))
	_, err := s.ListProjects()
	require.NoError(t, err)

	require.NoError(t, s.DeleteProject("alpha"))
	assert.Equal(t, "beta", s.ActiveProject())

	require.NoError(t, s.DeleteProject("beta"))
	assert.Equal(t, "", s.ActiveProject())
	assert.Empty(t, s.Tree())
}

func TestMutationsRequireActiveProject(t *testing.T) {
	t.Parallel()
	s := NewState(newFakeAPI())

	assert.ErrorIs(t, s.CreateFile("a.rs", "x"), ErrNoActiveProject)
	assert.ErrorIs(t, s.Delete("a.rs"), ErrNoActiveProject)
	assert.ErrorIs(t, s.Rename("a.rs", "b.rs"), ErrNoActiveProject)
	assert.ErrorIs(t, s.SaveFile("a.rs", "x"), ErrNoActiveProject)
}

func TestCreateFileRefreshesTree(t *testing.T) {
	t.Parallel()
	api := newFakeAPI("alpha")
	s := NewState(api)
	_, err := s.ListProjects()
	require.NoError(t, err)

	api.mu.Lock()
	api.trees["alpha"] = append(api.trees["alpha"],
		domain.FileNode{Name: "new.rs", Path: "new.rs", Type: domain.NodeTypeFile})
	api.mu.Unlock()

	require.NoError(t, s.CreateFile("new.rs", "fn main() {}"))
	assert.Len(t, s.Tree(), 2)
}

func TestSaveFileRefreshesTree(t *testing.T) {
	t.Parallel()
	api := newFakeAPI("alpha")
	s := NewState(api)
	_, err := s.ListProjects()
	require.NoError(t, err)
	require.Zero(t, s.Tree()[0].Size)

	api.mu.Lock()
	api.trees["alpha"][0].Size = 12
	api.mu.Unlock()

	require.NoError(t, s.SaveFile("alpha.rs", "fn main() {}"))
	require.Len(t, s.Tree(), 1)
	assert.EqualValues(t, 12, s.Tree()[0].Size, "saved file's size must show up in the snapshot")
}

func TestSearchByName(t *testing.T) {
	t.Parallel()
	api := newFakeAPI("alpha")
	api.trees["alpha"] = []domain.FileNode{
		{
			Name: "src", Path: "src", Type: domain.NodeTypeDirectory,
			Children: []domain.FileNode{
				{Name: "lib.rs", Path: "src/lib.rs", Type: domain.NodeTypeFile},
				{Name: "LibTest.rs", Path: "src/LibTest.rs", Type: domain.NodeTypeFile},
			},
		},
		{Name: "Cargo.toml", Path: "Cargo.toml", Type: domain.NodeTypeFile},
	}
	s := NewState(api)
	_, err := s.ListProjects()
	require.NoError(t, err)

	results := s.SearchByName("lib")
	require.Len(t, results, 2)
	assert.Equal(t, "src/lib.rs", results[0].Path)
	assert.Equal(t, "src/LibTest.rs", results[1].Path)

	assert.Empty(t, s.SearchByName(""), "empty query matches nothing")
	assert.Empty(t, s.SearchByName("zzz"))
}

func TestSearchGlob(t *testing.T) {
	t.Parallel()
	api := newFakeAPI("alpha")
	api.trees["alpha"] = []domain.FileNode{
		{
			Name: "src", Path: "src", Type: domain.NodeTypeDirectory,
			Children: []domain.FileNode{
				{Name: "lib.rs", Path: "src/lib.rs", Type: domain.NodeTypeFile},
				{Name: "util.rs", Path: "src/util.rs", Type: domain.NodeTypeFile},
			},
		},
		{Name: "Cargo.toml", Path: "Cargo.toml", Type: domain.NodeTypeFile},
	}
	s := NewState(api)
	_, err := s.ListProjects()
	require.NoError(t, err)

	results, err := s.SearchGlob("src/**/*.rs")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, err = s.SearchGlob("src/[")
	assert.Error(t, err)
}
