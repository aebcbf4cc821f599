// Package store abstracts the key-value store behind the tool layer. It
// ships a go-redis backed driver for production and an in-memory driver with
// the same semantics for development and tests.
package store
