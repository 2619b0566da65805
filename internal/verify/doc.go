// Package verify drives the report verification state machine: one
// classification attempt per call moves a pending report to verified or
// rejected, committing status and image reference together. Any failure
// along the way leaves the report untouched.
package verify
