package workspace

import (
	"strings"

	"solder/domain"

	"github.com/bmatcuk/doublestar/v4"
)

// SearchResult is one tree entry matched by a search.
type SearchResult struct {
	Path string          `json:"path"`
	Name string          `json:"name"`
	Type domain.NodeType `json:"type"`
}

// SearchByName scans the cached tree snapshot for entries whose name
// contains query, case-insensitive. An empty query matches nothing.
func (s *State) SearchByName(query string) []SearchResult {
	if query == "" {
		return nil
	}
	query = strings.ToLower(query)

	var results []SearchResult
	for _, node := range s.Tree() {
		node.Walk(func(n domain.FileNode) {
			if strings.Contains(strings.ToLower(n.Name), query) {
				results = append(results, SearchResult{Path: n.Path, Name: n.Name, Type: n.Type})
			}
		})
	}
	return results
}

// SearchGlob matches cached tree paths against a doublestar pattern, e.g.
// "src/**/*.rs". An invalid pattern yields no results and the error.
func (s *State) SearchGlob(pattern string) ([]SearchResult, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	var results []SearchResult
	for _, node := range s.Tree() {
		node.Walk(func(n domain.FileNode) {
			if ok, _ := doublestar.Match(pattern, n.Path); ok {
				results = append(results, SearchResult{Path: n.Path, Name: n.Name, Type: n.Type})
			}
		})
	}
	return results, nil
}
