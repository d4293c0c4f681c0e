// Package source provides built-in TaskSource implementations.
//
// The engine reads task definitions through the types.TaskSource interface;
// production deployments implement it over the application's own task store.
// This package supplies a static in-memory source for tests, examples, and
// setups where the task list is known at startup.
package source
