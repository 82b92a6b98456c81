// Package ports defines interfaces between layers in the hexagonal architecture.
// Service ports are implemented by the application layer and called by inbound
// adapters (HTTP handlers, command dispatch). Store and gateway ports are
// implemented by outbound adapters (Postgres, Discord) and called by the
// application layer.
package ports
