// Package process manages the transient external processes a migration
// depends on.
//
// Process is a generic start/poll-ready/stop wrapper around an OS process.
// The child is placed in its own process group so that Stop terminates it
// together with anything it spawned. Two concrete services are built on it:
//
//   - Exposer: serves the local asset directory over plain HTTP
//   - Tunnel: publishes the exposer's port under a public URL and
//     reports that URL through its local management API
//
// Factory builds both for an allocated port from domain.Settings.
package process
