// Package tool implements the command dispatcher that turns loosely-typed
// JSON argument bags into Redis operations. It resolves the target data type
// from the live store, the explicit type tag, or field inference, and routes
// each operation through a dispatch table over the closed set of supported
// Redis data types.
package tool
