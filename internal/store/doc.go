package store

// Package store persists the ordered list of tracked download filenames. The
// serialized form is a JSON array of strings, kept either as a record in the
// application preferences or as a file committed with write-then-rename.
