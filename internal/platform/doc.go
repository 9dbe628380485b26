package platform

// Package platform contains OS integration: standard directory discovery,
// directory creation, and free-space probing for download destinations.
