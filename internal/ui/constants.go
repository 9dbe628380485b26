package ui

import "time"

// Icons
const (
	IconSettings = "⚙"
	IconDelete   = "🗑"
	IconFile     = "📄"
)

// Layout sizing
const (
	StatusLabelWidth float32 = 140
	RowMinHeight     float32 = 40

	WindowWidth  float32 = 640
	WindowHeight float32 = 480

	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 460
)

// Notification behavior
const (
	NotificationAutoHide = 4 * time.Second
)
