package editor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"solder/common"

	zlog "github.com/rs/zerolog/log"
)

var ErrNotOpen = errors.New("file is not open in the editor")

const historyLimit = 50

// FileService is the slice of the workspace the editor persists through.
// Satisfied by *workspace.State.
type FileService interface {
	ReadFile(path string) (string, error)
	SaveFile(path, content string) error
}

// OpenFileBuffer is one open file's editing state. At most one buffer per
// path exists at a time, owned exclusively by the State that created it.
type OpenFileBuffer struct {
	Path         string
	Content      string
	IsDirty      bool
	Language     common.LanguageName
	LastModified time.Time

	// linear undo/redo history, bounded on both sides
	past   []string
	future []string
}

// State holds the open file buffers, the active file and the debounced
// autosave timers. Buffer lifecycle per file: open, edit, save, close.
type State struct {
	files    FileService
	autosave common.AutosaveConfig

	mu         sync.Mutex
	buffers    map[string]*OpenFileBuffer
	order      []string
	active     string
	saveTimers map[string]*time.Timer
}

func NewState(files FileService, autosave common.AutosaveConfig) *State {
	return &State{
		files:      files,
		autosave:   autosave,
		buffers:    make(map[string]*OpenFileBuffer),
		saveTimers: make(map[string]*time.Timer),
	}
}

func (s *State) autosaveEnabled() bool {
	return s.autosave.Enabled == nil || *s.autosave.Enabled
}

func (s *State) debounce() time.Duration {
	ms := s.autosave.DebounceMs
	if ms <= 0 {
		ms = common.DefaultDebounceMs
	}
	return time.Duration(ms) * time.Millisecond
}

// Open opens a file for editing and makes it active. Opening an already
// open file only activates it. When the file has no content yet, a
// language-appropriate placeholder is seeded and persisted immediately, so
// opening a nonexistent path creates it.
func (s *State) Open(path string) (*OpenFileBuffer, error) {
	s.mu.Lock()
	if buffer, ok := s.buffers[path]; ok {
		s.active = path
		s.mu.Unlock()
		return buffer, nil
	}
	s.mu.Unlock()

	content, err := s.files.ReadFile(path)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if content == "" {
		content = placeholderFor(path)
		if err := s.files.SaveFile(path, content); err != nil {
			return nil, fmt.Errorf("failed to seed new file %q: %w", path, err)
		}
	}

	buffer := &OpenFileBuffer{
		Path:         path,
		Content:      content,
		Language:     common.InferLanguageFromPath(path),
		LastModified: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.buffers[path]; ok {
		// lost the race to another Open of the same path
		s.active = path
		return existing, nil
	}
	s.buffers[path] = buffer
	s.order = append(s.order, path)
	s.active = path
	return buffer, nil
}

// UpdateContent applies an edit to an open buffer. Identical text is a
// no-op: no history entry, no dirty flip, no autosave reschedule. Otherwise
// the prior content is pushed onto the undo stack, the redo stack is
// cleared, and a debounced autosave is scheduled.
func (s *State) UpdateContent(path, text string) error {
	s.mu.Lock()
	buffer, ok := s.buffers[path]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotOpen, path)
	}
	if buffer.Content == text {
		s.mu.Unlock()
		return nil
	}

	buffer.past = pushBounded(buffer.past, buffer.Content)
	buffer.future = nil
	buffer.Content = text
	buffer.IsDirty = true
	buffer.LastModified = time.Now()
	s.scheduleAutosaveLocked(path)
	s.mu.Unlock()
	return nil
}

// scheduleAutosaveLocked resets the trailing-edge autosave timer for path.
// Caller holds s.mu.
func (s *State) scheduleAutosaveLocked(path string) {
	if !s.autosaveEnabled() {
		return
	}
	if timer, ok := s.saveTimers[path]; ok {
		timer.Stop()
	}
	s.saveTimers[path] = time.AfterFunc(s.debounce(), func() {
		if err := s.Save(path); err != nil {
			zlog.Error().Err(err).Str("path", path).Msg("Autosave failed")
		}
	})
}

// cancelAutosaveLocked stops a pending autosave for path. Caller holds s.mu.
func (s *State) cancelAutosaveLocked(path string) {
	if timer, ok := s.saveTimers[path]; ok {
		timer.Stop()
		delete(s.saveTimers, path)
	}
}

// Save persists a buffer unconditionally, dirty or not, and clears the
// dirty flag on success. On failure the flag stays set.
func (s *State) Save(path string) error {
	s.mu.Lock()
	buffer, ok := s.buffers[path]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotOpen, path)
	}
	content := buffer.Content
	s.cancelAutosaveLocked(path)
	s.mu.Unlock()

	if err := s.files.SaveFile(path, content); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if buffer, ok := s.buffers[path]; ok && buffer.Content == content {
		buffer.IsDirty = false
	}
	return nil
}

// SaveAll persists every open buffer, returning the first error after
// attempting them all.
func (s *State) SaveAll() error {
	s.mu.Lock()
	paths := append([]string(nil), s.order...)
	s.mu.Unlock()

	var firstErr error
	for _, path := range paths {
		if err := s.Save(path); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close removes a buffer. A dirty buffer is flushed first when autosave is
// enabled. When the closed file was active, the first remaining open file
// becomes active.
func (s *State) Close(path string) error {
	s.mu.Lock()
	buffer, ok := s.buffers[path]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotOpen, path)
	}
	flush := buffer.IsDirty && s.autosaveEnabled()
	content := buffer.Content
	s.cancelAutosaveLocked(path)
	s.mu.Unlock()

	if flush {
		if err := s.files.SaveFile(path, content); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == path {
		s.active = ""
		if len(s.order) > 0 {
			s.active = s.order[0]
		}
	}
	return nil
}

// Undo restores the immediately prior content. A no-op when the undo stack
// is empty. Moving through history marks the buffer dirty.
func (s *State) Undo(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buffer, ok := s.buffers[path]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotOpen, path)
	}
	if len(buffer.past) == 0 {
		return nil
	}

	buffer.future = pushBounded(buffer.future, buffer.Content)
	buffer.Content = buffer.past[len(buffer.past)-1]
	buffer.past = buffer.past[:len(buffer.past)-1]
	buffer.IsDirty = true
	buffer.LastModified = time.Now()
	s.scheduleAutosaveLocked(path)
	return nil
}

// Redo re-applies the most recently undone edit. A no-op when the redo
// stack is empty.
func (s *State) Redo(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buffer, ok := s.buffers[path]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotOpen, path)
	}
	if len(buffer.future) == 0 {
		return nil
	}

	buffer.past = pushBounded(buffer.past, buffer.Content)
	buffer.Content = buffer.future[len(buffer.future)-1]
	buffer.future = buffer.future[:len(buffer.future)-1]
	buffer.IsDirty = true
	buffer.LastModified = time.Now()
	s.scheduleAutosaveLocked(path)
	return nil
}

// ActiveFile returns the active file path, or "" when nothing is open.
func (s *State) ActiveFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Buffer returns the open buffer for path.
func (s *State) Buffer(path string) (*OpenFileBuffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buffer, ok := s.buffers[path]
	return buffer, ok
}

// IsDirty reports whether the buffer at path has unsaved changes.
func (s *State) IsDirty(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	buffer, ok := s.buffers[path]
	return ok && buffer.IsDirty
}

// OpenFiles returns the open file paths in the order they were opened.
func (s *State) OpenFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Shutdown cancels every pending autosave timer without flushing. Callers
// that want buffers persisted call SaveAll first.
func (s *State) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, timer := range s.saveTimers {
		timer.Stop()
		delete(s.saveTimers, path)
	}
}

func pushBounded(stack []string, entry string) []string {
	if len(stack) >= historyLimit {
		stack = append(stack[:0], stack[1:]...)
	}
	return append(stack, entry)
}
