// Package testing provides helpers for testing code that uses rota.
//
// It includes a types.Logger that writes to the test log and an embedded
// NATS server with JetStream enabled for exercising the notify package
// without external infrastructure.
//
// Import it under an alias to avoid clashing with the standard library:
//
//	import rotatest "github.com/ansonyc/rota/testing"
package testing
