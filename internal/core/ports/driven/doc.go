// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - AssetCatalog: Read-only access to the local asset store
//   - RemoteAPI: The remote asset-management API
//   - PortAllocator: Finds a free local TCP port
//   - Service: A transient process with start/stop semantics
//   - Tunnel: A Service that also publishes a public URL
//   - ServiceFactory: Builds the exposer and tunnel for an allocated port
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
