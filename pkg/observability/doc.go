/*
Package observability turns driver lifecycle events into Prometheus metrics and
structured log lines.

Everything here is expressed as domain.LifecycleHooks so hosts can stack several
observers on one driver with Combine.
*/
package observability
