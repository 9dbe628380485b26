package ui

// Package ui contains the Fyne user interface for the download manager.
// RootUI submits URLs to the download core, renders the persisted download list
// and receives progress notifications as a download.Listener. All UI strings are
// localized via Localization.
