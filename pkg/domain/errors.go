package domain

import "errors"

// ErrConfigLoad is returned when the flow configuration document is missing or unreadable.
var ErrConfigLoad = errors.New("unable to load flow config")

// ErrMissingWebhook is returned when the configuration declares no initialization webhook_url.
var ErrMissingWebhook = errors.New("initialization webhook_url is missing in config")

// ErrInvalidVariableJSON is returned when a declared variable source cannot be parsed as a JSON object.
var ErrInvalidVariableJSON = errors.New("invalid JSON")

// ErrRequestFailed is returned when the webhook answers with a non-2xx status or cannot be reached.
var ErrRequestFailed = errors.New("request failed")

// ErrMissingDestination is returned when no navigation candidate resolves to a page.
var ErrMissingDestination = errors.New("no next_step or fallback defined")

// ErrNotFound is returned by blob stores when a key holds no value.
var ErrNotFound = errors.New("key not found")

// ErrRouteNotFound is returned when a route segment is not listed in the routes table.
var ErrRouteNotFound = errors.New("route not found")

// ErrRouteMismatch is returned when a flow config is opened under a different route than it declares.
var ErrRouteMismatch = errors.New("route mismatch")
