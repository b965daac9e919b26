package ui

import (
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/session"
)

// snapshotMsg delivers one combined session snapshot to the TUI.
type snapshotMsg session.Snapshot

// snapshotsClosedMsg signals that the session has been torn down.
type snapshotsClosedMsg struct{}

// genresMsg delivers the browsable genre list.
type genresMsg struct {
	genres []models.Genre
	err    error
}
