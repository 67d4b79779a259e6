// Package navigation picks the page a completed step redirects to.
package navigation

import (
	"strings"

	"github.com/aretw0/formflow/pkg/chain"
	"github.com/aretw0/formflow/pkg/domain"
)

// ResolveNext returns the first candidate that is not blank.
// It fails with domain.ErrMissingDestination when every candidate is blank.
func ResolveNext(candidates ...string) (string, error) {
	trimmed := make([]string, len(candidates))
	for i, c := range candidates {
		trimmed[i] = strings.TrimSpace(c)
	}
	dest, ok := chain.First(trimmed...)
	if !ok {
		return "", domain.ErrMissingDestination
	}
	return dest, nil
}

// SubmissionCandidates orders the destinations of a form submission:
// the service's next_step, then the submitter, form and step fallbacks.
func SubmissionCandidates(resp domain.Response, submitter, form domain.Declaration, step domain.StepConfig) []string {
	return []string{resp.NextStep, submitter.NextStepFallback, form.NextStepFallback, step.NextStepFallback}
}

// ActionCandidates orders the destinations of a discrete action.
func ActionCandidates(resp domain.Response, action domain.Declaration, step domain.StepConfig) []string {
	return []string{resp.NextStep, action.NextStepFallback, step.NextStepFallback}
}

// InitializationCandidates orders the destinations of a landing page initialization.
func InitializationCandidates(resp domain.Response, init domain.Initialization) []string {
	return []string{resp.NextStep, init.StartPage}
}
