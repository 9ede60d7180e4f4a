// Package source locates the user's configuration dotfile and turns it into a
// validated termconfig.Configuration.
package source
