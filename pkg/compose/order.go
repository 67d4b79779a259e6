package compose

import (
	"github.com/aretw0/formflow/pkg/chain"
	"github.com/aretw0/formflow/pkg/domain"
)

// lowerLayers merges the session, configured and page layers, then applies the
// lookup_id alias so a lookup_id already held by any of them is kept.
func lowerLayers(state domain.State, configured map[string]any, page domain.Page) map[string]any {
	return AliasLookupID(chain.Merge(state.Variables, configured, PageVariables(page.Query)))
}

// ForInitialization composes the variables of an initialization round trip.
func ForInitialization(state domain.State, cfg domain.Initialization, page domain.Page) (map[string]any, error) {
	return Compose(
		Mapping(SourcePage, lowerLayers(state, cfg.RequestVariables, page)),
	)
}

// ForSubmission composes the variables of a form submission.
func ForSubmission(state domain.State, step domain.StepConfig, page domain.Page, form, submitter domain.Declaration) (map[string]any, error) {
	return Compose(
		Mapping(SourcePage, lowerLayers(state, step.RequestVariables, page)),
		Declared(SourceForm, form.RequestVariables),
		Declared(SourceSubmitter, submitter.RequestVariables),
	)
}

// ForAction composes the variables of a discrete action.
func ForAction(state domain.State, step domain.StepConfig, page domain.Page, action domain.Declaration) (map[string]any, error) {
	return Compose(
		Mapping(SourcePage, lowerLayers(state, step.RequestVariables, page)),
		Declared(SourceAction, action.RequestVariables),
	)
}
