// Package store defines the persistence interfaces and sentinel errors
// shared by all storage backends. Implementations live under
// internal/platform; services and handlers depend only on these
// interfaces.
package store
