// Package api exposes the tool-invocation surface over HTTP. Each tool is a
// single POST endpoint that accepts one JSON argument object and returns a
// structured result; the package also serves tool metadata and metrics.
package api
