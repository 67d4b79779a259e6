package navigation_test

import (
	"testing"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNext(t *testing.T) {
	dest, err := navigation.ResolveNext("", "", "p.html", "q.html")
	require.NoError(t, err)
	assert.Equal(t, "p.html", dest)

	dest, err = navigation.ResolveNext("  ", " step3.html ")
	require.NoError(t, err)
	assert.Equal(t, "step3.html", dest)

	_, err = navigation.ResolveNext("", "")
	assert.ErrorIs(t, err, domain.ErrMissingDestination)

	_, err = navigation.ResolveNext()
	assert.ErrorIs(t, err, domain.ErrMissingDestination)
}

func TestSubmissionCandidates_Order(t *testing.T) {
	resp := domain.Response{}
	submitter := domain.Declaration{NextStepFallback: "submitter.html"}
	form := domain.Declaration{NextStepFallback: "form.html"}
	step := domain.StepConfig{NextStepFallback: "step.html"}

	dest, err := navigation.ResolveNext(navigation.SubmissionCandidates(resp, submitter, form, step)...)
	require.NoError(t, err)
	assert.Equal(t, "submitter.html", dest)

	dest, err = navigation.ResolveNext(navigation.SubmissionCandidates(resp, domain.Declaration{}, form, step)...)
	require.NoError(t, err)
	assert.Equal(t, "form.html", dest)

	dest, err = navigation.ResolveNext(navigation.SubmissionCandidates(resp, domain.Declaration{}, domain.Declaration{}, step)...)
	require.NoError(t, err)
	assert.Equal(t, "step.html", dest)

	resp.NextStep = "service.html"
	dest, err = navigation.ResolveNext(navigation.SubmissionCandidates(resp, submitter, form, step)...)
	require.NoError(t, err)
	assert.Equal(t, "service.html", dest)
}

func TestActionCandidates_Order(t *testing.T) {
	action := domain.Declaration{NextStepFallback: "action.html"}
	step := domain.StepConfig{NextStepFallback: "step.html"}

	dest, err := navigation.ResolveNext(navigation.ActionCandidates(domain.Response{}, action, step)...)
	require.NoError(t, err)
	assert.Equal(t, "action.html", dest)

	_, err = navigation.ResolveNext(navigation.ActionCandidates(domain.Response{}, domain.Declaration{}, domain.StepConfig{})...)
	assert.ErrorIs(t, err, domain.ErrMissingDestination)
}

func TestInitializationCandidates_Order(t *testing.T) {
	init := domain.Initialization{StartPage: "step1.html"}

	dest, err := navigation.ResolveNext(navigation.InitializationCandidates(domain.Response{NextStep: "step2.html"}, init)...)
	require.NoError(t, err)
	assert.Equal(t, "step2.html", dest)

	dest, err = navigation.ResolveNext(navigation.InitializationCandidates(domain.Response{}, init)...)
	require.NoError(t, err)
	assert.Equal(t, "step1.html", dest)
}
