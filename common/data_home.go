package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetSolderDataHome returns a directory path for storing user-specific
// solder data. If needed, it also creates the necessary directories
// according to the XDG spec. Can be overridden by setting the
// SOLDER_DATA_HOME environment variable.
func GetSolderDataHome() (string, error) {
	solderDataDir := os.Getenv("SOLDER_DATA_HOME")
	if solderDataDir != "" {
		return solderDataDir, nil
	}

	solderDataDir = filepath.Join(xdg.DataHome, "solder")
	err := os.MkdirAll(solderDataDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create solder data directory: %w", err)
	}
	return solderDataDir, nil
}

// GetSolderStateHome returns a directory path for storing user-specific
// solder state data, such as log files. Can be overridden by setting the
// SOLDER_STATE_HOME environment variable.
func GetSolderStateHome() (string, error) {
	solderStateDir := os.Getenv("SOLDER_STATE_HOME")
	if solderStateDir != "" {
		err := os.MkdirAll(solderStateDir, 0755)
		if err != nil {
			return "", fmt.Errorf("failed to create solder state directory from SOLDER_STATE_HOME: %w", err)
		}
		return solderStateDir, nil
	}

	solderStateDir = filepath.Join(xdg.StateHome, "solder")
	err := os.MkdirAll(solderStateDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create solder state directory: %w", err)
	}
	return solderStateDir, nil
}

// GetProjectsDir returns the root directory holding one sub-directory per
// contract project. Can be overridden by setting the SOLDER_PROJECTS_DIR
// environment variable.
func GetProjectsDir() (string, error) {
	projectsDir := os.Getenv("SOLDER_PROJECTS_DIR")
	if projectsDir != "" {
		err := os.MkdirAll(projectsDir, 0755)
		if err != nil {
			return "", fmt.Errorf("failed to create projects directory from SOLDER_PROJECTS_DIR: %w", err)
		}
		return projectsDir, nil
	}

	dataHome, err := GetSolderDataHome()
	if err != nil {
		return "", err
	}
	projectsDir = filepath.Join(dataHome, "projects")
	err = os.MkdirAll(projectsDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create projects directory: %w", err)
	}
	return projectsDir, nil
}
