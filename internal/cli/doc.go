// Package cli provides the interactive mutestr command-line client.
//
// It wires configuration, local storage, the relay gateway, and an
// interactive REPL over the per-category services. Typical flow: unlock
// (or create) the key ring, then run mute/protect/block commands, with
// changes pushed to relays in the background and a "sync" command for a
// full reconciliation pass.
//
// Key features:
//   - Key ring create/unlock with a passphrase-sealed secret key
//   - Mute list editing with public and private entries
//   - Protected users, blacklist, preferences, imported packs
//   - Profile backup ring and restore
//   - Full sync against the configured relay set
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
