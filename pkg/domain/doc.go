/*
Package domain contains the core models of the formflow engine.

It defines the durable session record, the request and response payloads exchanged with a
flow's decision webhook, the declarative flow configuration and the lifecycle events a host
can observe. This package is kept free of I/O and persistence concerns so every adapter and
the driver can depend on it.

# Key Entities

  - State: the single persisted session record (variables, form, initialized).
  - Request / Response: the outbound webhook payload and its normalized answer.
  - FlowConfig: the per-flow configuration document (webhook, start page, per-step fallbacks).
  - Page / Declaration: the page being driven and the attributes its elements declare.
*/
package domain
