package client

import (
	"net/http"
	"net/url"

	"solder/domain"
)

type projectListResponse struct {
	Projects []domain.Project `json:"projects"`
}

// ListProjects fetches the projects known to the server.
func (c *Client) ListProjects() ([]domain.Project, error) {
	var resp projectListResponse
	if err := c.do(http.MethodGet, "/api/v1/projects", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

type createProjectResponse struct {
	Message string `json:"message"`
	Output  string `json:"output"`
}

// CreateProject scaffolds a new project on the server and returns the
// toolchain's scaffold output.
func (c *Client) CreateProject(name string) (string, error) {
	var resp createProjectResponse
	if err := c.do(http.MethodPost, "/api/v1/projects", map[string]string{"name": name}, &resp); err != nil {
		return "", err
	}
	return resp.Output, nil
}

// DeleteProject removes a project and everything under it.
func (c *Client) DeleteProject(name string) error {
	return c.do(http.MethodDelete, "/api/v1/projects/"+url.PathEscape(name), nil, nil)
}

type treeResponse struct {
	Structure []domain.FileNode `json:"structure"`
}

// GetTree fetches the full directory tree of a project.
func (c *Client) GetTree(project string) ([]domain.FileNode, error) {
	var resp treeResponse
	if err := c.do(http.MethodGet, "/api/v1/projects/"+url.PathEscape(project)+"/files", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Structure, nil
}

func (c *Client) filePath(project, path string) string {
	return "/api/v1/projects/" + url.PathEscape(project) + "/files/" + escapePath(path)
}

type readFileResponse struct {
	Content string `json:"content"`
}

// ReadFile fetches the content of one file.
func (c *Client) ReadFile(project, path string) (string, error) {
	var resp readFileResponse
	if err := c.do(http.MethodGet, c.filePath(project, path), nil, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// WriteFile persists content at a project-relative path, creating parent
// directories as needed.
func (c *Client) WriteFile(project, path, content string) error {
	return c.do(http.MethodPost, c.filePath(project, path), map[string]string{"content": content}, nil)
}

// RenameEntry renames a file or directory within its parent directory.
func (c *Client) RenameEntry(project, path, newName string) error {
	return c.do(http.MethodPut, c.filePath(project, path), map[string]string{"newName": newName}, nil)
}

// DeleteEntry removes a file, or a directory recursively.
func (c *Client) DeleteEntry(project, path string) error {
	return c.do(http.MethodDelete, c.filePath(project, path), nil, nil)
}

// MakeDirectory creates a directory and any missing parents.
func (c *Client) MakeDirectory(project, path string) error {
	return c.do(http.MethodPost, "/api/v1/projects/"+url.PathEscape(project)+"/directories/"+escapePath(path), nil, nil)
}
