// Package driving defines the interfaces through which callers drive
// the core (the "primary" ports). The CLI adapter depends on these,
// core services implement them.
package driving
