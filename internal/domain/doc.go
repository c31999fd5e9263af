// Package domain defines the core business entities of the application:
// users, their scheduled tasks, and the pure rules that govern task
// status over time. Persistence concerns live in the store packages;
// everything here operates on explicit data.
package domain
