// Package cli provides the interactive pen-and-paper reader.
//
// It wires configuration, the local document store, the remote services, the
// viewer and an interactive REPL that keeps working offline with the
// documents already cached. Typical flow: restore or prompt for a session,
// start the background connectivity watcher (and the inbox watcher when an
// inbox folder is configured), then execute user commands.
//
// Key features:
//   - Login / Logout
//   - List, open, import, delete and export cached documents
//   - Page navigation, zoom, rotation and in-document search
//   - Search across all documents on the server and open a hit at its page
//   - Sync every document of the session into the local cache
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
