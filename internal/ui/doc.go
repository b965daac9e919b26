// package ui implements the terminal browser for the movie catalog.
//
// The model is a thin projection of the catalog session. All list,
// pagination, and favorite state arrives through session snapshots, so
// the TUI never mutates stream state directly. Key presses translate to
// session calls (SetFilter, Advance, Toggle) and the resulting snapshot
// flows back in as a message.
package ui
