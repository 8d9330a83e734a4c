// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (user.go, session.go, mood.go, date.go, errors.go) hold shared
// types and the repository contracts implemented by the adapters. No storage or transport
// code lives here.
package domain
