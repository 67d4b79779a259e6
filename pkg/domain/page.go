package domain

import "net/url"

// Page identifies the page being driven.
type Page struct {
	// File is the page file name, e.g. "step2.html". It keys FlowConfig.StepsByPage.
	File string

	// Query holds the page URL's query parameters.
	Query url.Values

	// Landing marks the flow's entry page, which always initializes and navigates away.
	Landing bool
}

// Declaration carries the attributes a form element or a submitter declares.
type Declaration struct {
	// RequestVariables is a raw JSON object of extra request variables.
	RequestVariables string `json:"request_variables,omitempty"`

	// NextStepFallback is used when the webhook provides no next_step.
	NextStepFallback string `json:"next_step_fallback,omitempty"`

	// WaitingMessage replaces the default busy message while the request is in flight.
	WaitingMessage string `json:"waiting_message,omitempty"`
}

// Submission is a form submission trigger.
type Submission struct {
	Fields    map[string]string `json:"fields"`
	Form      Declaration       `json:"form"`
	Submitter Declaration       `json:"submitter"`
}
