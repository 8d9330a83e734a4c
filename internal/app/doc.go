// Package app provides the application service layer.
//
// Orchestrates use cases: the authentication gate, posting a mood, and reading the latest
// mood with the caller's streak. Sits between HTTP handlers and domain repositories and
// depends on domain interfaces, not concrete implementations.
package app
