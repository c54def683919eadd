package ports

import (
	"context"
)

// GitInfo holds the repository context a run was recorded in.
type GitInfo struct {
	Branch     string
	Commit     string
	IsClean    bool
	Repository string
}

// GitDetector defines the interface for git context detection.
// This is a driven port (implemented by adapters).
type GitDetector interface {
	// Detect reads the git context of workingDir, or of the process
	// working directory when it is empty.
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)
}
