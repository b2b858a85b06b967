// Package runtime implements execution method planning: validating the
// requested method against a tool profile's supported set and probing
// the host for the corresponding container runtime when "auto" is
// requested.
//
// Singularity availability is a search-path check. Docker availability
// additionally requires a reachable daemon, verified through the Docker
// Engine SDK with automatic socket detection (DOCKER_HOST, then the
// platform's default socket locations).
package runtime
