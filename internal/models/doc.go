// Package models holds the shared domain types for marquee.
//
// [Movie] and [Genre] mirror the mock backend's JSON payloads.
// [Filter] names one pagination context (category, genre, or search);
// the session layer treats a Filter change as a full reset of the
// accumulated listing.
package models
