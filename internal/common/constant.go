package common

// AuthHeaderName carries the bearer token on outbound requests to the
// remote entity service.
const AuthHeaderName = "Authorization"

// IdempotencyKeyHeaderName carries the client-generated dedup token on
// replayed create requests, so an interrupted reconciliation pass cannot
// produce a second remote record for the same offline-originated entity.
const IdempotencyKeyHeaderName = "Idempotency-Key"
