package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type CreateProjectRequest struct {
	Name string `json:"name"`
}

func (ctrl *Controller) ListProjectsHandler(c *gin.Context) {
	projects, err := ctrl.store.ListProjects()
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

// CreateProjectHandler reserves the project directory, then delegates
// content scaffolding to the toolchain. A failed scaffold removes the
// half-created directory so the create can be retried.
func (ctrl *Controller) CreateProjectHandler(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project name is required"})
		return
	}

	if err := ctrl.store.CreateProjectDir(req.Name); err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}

	output, err := ctrl.runner.Scaffold(c.Request.Context(), ctrl.store.Root, req.Name, ctrl.outputSink(req.Name))
	if err != nil {
		ctrl.store.DeleteProject(req.Name)
		ctrl.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Project created successfully",
		"output":  output,
	})
}

func (ctrl *Controller) DeleteProjectHandler(c *gin.Context) {
	if err := ctrl.store.DeleteProject(c.Param("name")); err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Project deleted successfully"})
}

func (ctrl *Controller) GetTreeHandler(c *gin.Context) {
	structure, err := ctrl.store.GetTree(c.Param("name"))
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "structure": structure})
}

// entryPath extracts the project-relative path from a wildcard route
// parameter, which gin provides with a leading slash.
func entryPath(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("path"), "/")
}

func (ctrl *Controller) ReadFileHandler(c *gin.Context) {
	content, err := ctrl.store.ReadFile(c.Param("name"), entryPath(c))
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "content": content})
}

type WriteFileRequest struct {
	Content string `json:"content"`
}

func (ctrl *Controller) WriteFileHandler(c *gin.Context) {
	var req WriteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := ctrl.store.WriteFile(c.Param("name"), entryPath(c), req.Content); err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "File saved successfully"})
}

type RenameEntryRequest struct {
	NewName string `json:"newName"`
}

func (ctrl *Controller) RenameEntryHandler(c *gin.Context) {
	var req RenameEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.NewName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "newName is required"})
		return
	}

	if err := ctrl.store.RenameEntry(c.Param("name"), entryPath(c), req.NewName); err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Renamed successfully"})
}

func (ctrl *Controller) DeleteEntryHandler(c *gin.Context) {
	if err := ctrl.store.DeleteEntry(c.Param("name"), entryPath(c)); err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Deleted successfully"})
}

func (ctrl *Controller) MakeDirectoryHandler(c *gin.Context) {
	if err := ctrl.store.MakeDirectory(c.Param("name"), entryPath(c)); err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Directory created successfully"})
}
