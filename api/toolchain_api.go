package api

import (
	"errors"
	"net/http"
	"time"

	"solder/domain"
	"solder/toolchain"

	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"
	"github.com/segmentio/ksuid"
)

// CompileHandler runs build then optimize for a project. A toolchain
// failure returns the captured stderr verbatim as the error message; the
// optimize step is skipped when the build fails.
func (ctrl *Controller) CompileHandler(c *gin.Context) {
	project := c.Param("name")
	projectDir, err := ctrl.store.RequireProject(project)
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}

	buildOutput, optimizeOutput, err := ctrl.runner.Build(c.Request.Context(), projectDir, project, ctrl.outputSink(project))
	if err != nil {
		var cmdErr *toolchain.CommandError
		if errors.As(err, &cmdErr) {
			c.JSON(http.StatusInternalServerError, domain.BuildResult{
				Success:     false,
				Error:       cmdErr.Error(),
				BuildOutput: buildOutput,
			})
			return
		}
		ctrl.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.BuildResult{
		Success:        true,
		BuildOutput:    buildOutput,
		OptimizeOutput: optimizeOutput,
	})
}

type DeployRequest struct {
	Source  string `json:"source"`
	Network string `json:"network"`
}

// DeployHandler deploys a built contract and records the attempt in deploy
// history. A deploy without a parseable contract id is still a success with
// a null contractId.
func (ctrl *Controller) DeployHandler(c *gin.Context) {
	project := c.Param("name")
	projectDir, err := ctrl.store.RequireProject(project)
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}

	var req DeployRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Source == "" || req.Network == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source and network are required"})
		return
	}

	result, err := ctrl.runner.Deploy(c.Request.Context(), projectDir, req.Source, req.Network, project, ctrl.outputSink(project))
	if err != nil {
		var cmdErr *toolchain.CommandError
		if errors.As(err, &cmdErr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   cmdErr.Error(),
				"output":  result.Output,
			})
			return
		}
		ctrl.ErrorHandler(c, err)
		return
	}

	record := domain.DeployRecord{
		Id:          "deploy_" + ksuid.New().String(),
		ProjectName: project,
		Network:     req.Network,
		Source:      req.Source,
		ContractId:  result.ContractId,
		Created:     time.Now(),
	}
	if err := ctrl.storage.PersistDeploy(c.Request.Context(), record); err != nil {
		// history is best effort, the deploy itself succeeded
		zlog.Error().Err(err).Str("project", project).Msg("Failed to persist deploy record")
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"output":     result.Output,
		"contractId": result.ContractId,
	})
}

func (ctrl *Controller) GetDeploysHandler(c *gin.Context) {
	project := c.Param("name")
	if _, err := ctrl.store.RequireProject(project); err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}

	deploys, err := ctrl.storage.GetDeploys(c.Request.Context(), project)
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deploys": deploys})
}
