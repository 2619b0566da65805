// Package feed produces the mock social-media signal stream: on a fixed
// cadence it synthesizes one signal from a bounded template pool, classifies
// it for priority, and pushes it through the broadcast hub.
package feed
