// Package session composes the stream combinators into a single live
// read-model for a presentation layer.
//
// A [Session] owns one pagination activation per filter context and
// one favorite-toggle reducer for its whole lifetime. The UI interacts
// through four calls (SetFilter, Advance, Toggle, Close) and reads
// everything back as [Snapshot] values from one channel. Changing the
// filter cancels the previous activation before starting the next, so
// a stale page can never land in a fresh listing.
package session
