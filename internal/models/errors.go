package models

import "errors"

var (
	ErrWorkspaceNotFound   = errors.New("workspace not found")
	ErrNoFiles             = errors.New("no resumes uploaded")
	ErrNoRequirements      = errors.New("no job requirements")
	ErrFileIndexOutOfRange = errors.New("file index out of range")
	ErrRequirementNotFound = errors.New("requirement not found")
	ErrAnalysisInProgress  = errors.New("analysis already in progress")
	ErrAnalysisSuperseded  = errors.New("analysis batch no longer current")
	ErrFileTooLarge        = errors.New("file exceeds maximum upload size")
)
