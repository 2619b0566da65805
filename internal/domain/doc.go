// Package domain holds the core types and collaborator contracts shared
// across the platform: signals, reports, classification results, and the
// interfaces the verification and broadcast pipelines are wired through.
package domain
