// Package cli provides the interactive worktracker client.
//
// It wires configuration, the remote document store, the optimistic engine
// and its collaborators (attachment storage, notifications), then runs a
// REPL over them. Every change is visible immediately; the REPL prints a
// line when the server later rejects one and the change has been undone.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher and runREPL for details.
package cli
