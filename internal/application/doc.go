// Package application wires the document source, snapshot storage and reload
// triggers together. It hands every committed configuration to subscribers
// explicitly instead of exposing it as process-wide state.
package application
