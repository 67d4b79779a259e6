package domain

// FlowConfig is the declarative per-flow configuration document.
type FlowConfig struct {
	// Route is the URL segment the flow is published under.
	Route string `json:"route,omitempty" mapstructure:"route"`

	Initialization Initialization        `json:"initialization" mapstructure:"initialization"`
	StepsByPage    map[string]StepConfig `json:"steps_by_page,omitempty" mapstructure:"steps_by_page"`
	Archive        ArchiveConfig         `json:"archive,omitempty" mapstructure:"archive"`
}

// Initialization configures the flow's webhook and entry behavior.
type Initialization struct {
	WebhookURL       string         `json:"webhook_url" mapstructure:"webhook_url"`
	RequestVariables map[string]any `json:"request_variables,omitempty" mapstructure:"request_variables"`
	StartPage        string         `json:"start_page,omitempty" mapstructure:"start_page"`
}

// StepConfig configures a single page of the flow.
type StepConfig struct {
	RequestVariables map[string]any `json:"request_variables,omitempty" mapstructure:"request_variables"`
	NextStepFallback string         `json:"next_step_fallback,omitempty" mapstructure:"next_step_fallback"`
}

// ArchiveConfig configures archive-style list retrieval.
type ArchiveConfig struct {
	SummaryPage string `json:"summary_page,omitempty" mapstructure:"summary_page"`
}

// Step returns the configuration for page, or a zero StepConfig.
func (c *FlowConfig) Step(page string) StepConfig {
	if c == nil || c.StepsByPage == nil {
		return StepConfig{}
	}
	return c.StepsByPage[page]
}

// SummaryPage returns the archive destination, defaulting to DefaultSummaryPage.
func (c *FlowConfig) SummaryPage() string {
	if c == nil || c.Archive.SummaryPage == "" {
		return DefaultSummaryPage
	}
	return c.Archive.SummaryPage
}
