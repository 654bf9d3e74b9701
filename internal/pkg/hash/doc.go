// Package hash provides keyed hashing for signing and verifying payloads.
//
// Its main consumer is the payment flow, which signs "order_id|payment_id"
// pairs and verifies gateway callbacks against that signature.
package hash
