// Package cache provides a TTL key/value cache in front of expensive
// external lookups. Caching is an optimization only: a store outage degrades
// to a miss and is never surfaced to callers as a failure.
package cache
