package util

import (
	"regexp"

	"github.com/yotaki/bancheck/internal/models"
)

// Program ids are used to build filesystem paths and upstream URLs, so
// the allowed alphabet is a strict allow-list.
var programIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// ValidateProgramID checks that a program id consists only of
// alphanumeric characters and hyphens (e.g. "26-249").
func ValidateProgramID(programID string) error {
	if !programIDPattern.MatchString(programID) {
		return &models.InvalidProgramIDError{
			ProgramID: programID,
			Reason:    "contains invalid characters",
		}
	}
	return nil
}
