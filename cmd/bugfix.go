package cmd

import (
	"fmt"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/bugfix"
	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
)

func detectBugfixes(log *fossil.ChangeLog, patterns []string) (*bugfix.BugfixResult, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	detector, err := bugfix.NewDetector(patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid bug pattern: %w", err)
	}
	return detector.Detect(log), nil
}
