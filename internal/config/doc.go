// Package config resolves hyperconf's own runtime settings (document path,
// strictness, logging and reload throttling) from environment variables and CLI
// flags with precedence: CLI flags > Environment variables > Defaults. The
// terminal configuration itself is handled by package termconfig.
package config
