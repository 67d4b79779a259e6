package domain

// Field names shared by the wire formats.
const (
	KeyVariables = "variables"
	KeyForm      = "form"
	KeyInit      = "init"
	KeyNextStep  = "next_step"
	KeyJSON      = "json"
	KeyMessage   = "message"

	// KeyCastingID is exposed again as KeyLookupID when no lower layer sets it.
	KeyCastingID = "casting_id"
	KeyLookupID  = "lookup_id"
)

// DefaultStorageKey is the namespace of the single session record in a storage origin.
const DefaultStorageKey = "n8nFormDemoState"

// DefaultWaitingMessage is shown while a round trip is in flight.
const DefaultWaitingMessage = "Waiting for response..."

// DefaultSummaryPage is the destination after an archive entry is selected.
const DefaultSummaryPage = "summary.html"

// UntitledSentinel names archive records that carry no usable title.
const UntitledSentinel = "Untitled"
