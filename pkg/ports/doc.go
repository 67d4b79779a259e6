/*
Package ports defines the driven ports (interfaces) of the formflow engine.

These interfaces decouple the flow driver from the storage origin, the decision service
transport, the configuration source and the host's navigation mechanism.

# Key Interfaces

  - BlobStore: the storage origin the session record lives in (memory, file, redis).
  - ConfigSource: fetches the flow configuration document, fresh on every call.
  - Webhook: performs one POST round trip to the decision service.
  - Navigator: performs the full page redirect to the resolved destination.
*/
package ports
