package model

// Package model defines domain data structures shared by the core and its
// collaborators: tracked list entries, transfer handles, transfer and monitor
// status enums, and the progress snapshot returned by the download service.
