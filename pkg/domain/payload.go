package domain

// Request is the body POSTed to a flow's webhook.
type Request struct {
	Variables map[string]any    `json:"variables"`
	Form      map[string]string `json:"form"`
	Init      bool              `json:"init,omitempty"`
}

// NewRequest builds a request, materializing nil mappings as empty objects.
func NewRequest(vars map[string]any, form map[string]string, init bool) Request {
	if vars == nil {
		vars = make(map[string]any)
	}
	if form == nil {
		form = make(map[string]string)
	}
	return Request{Variables: vars, Form: form, Init: init}
}

// Response is a webhook answer reduced to its canonical parts.
type Response struct {
	// Variables is the flat variable mapping extracted from the answer. Never nil.
	Variables map[string]any

	// NextStep is the service-provided destination, empty when absent.
	NextStep string

	// Form is the echoed form object, valid only when HasForm is true.
	Form    map[string]string
	HasForm bool
}

// Title is a normalized archive record.
type Title struct {
	Title    string         `json:"title"`
	ID       string         `json:"id"`
	Subtitle string         `json:"subtitle,omitempty"`
	Raw      map[string]any `json:"raw,omitempty"`
}
