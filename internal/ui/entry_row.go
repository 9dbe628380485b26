package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// EntryRow renders one filename of the download list
type EntryRow struct {
	widget.BaseWidget

	index    int
	filename string

	filenameLabel *widget.Label
	statusLabel   *widget.Label
	deleteBtn     *widget.Button

	onDelete func(index int, filename string)
}

// NewEntryRow creates an empty row; SetEntry fills it
func NewEntryRow(onDelete func(index int, filename string)) *EntryRow {
	row := &EntryRow{onDelete: onDelete}

	row.filenameLabel = widget.NewLabel("")
	row.filenameLabel.Truncation = fyne.TextTruncateEllipsis

	row.statusLabel = widget.NewLabel("")
	row.statusLabel.Alignment = fyne.TextAlignTrailing

	row.deleteBtn = widget.NewButton(IconDelete, func() {
		if row.onDelete != nil {
			row.onDelete(row.index, row.filename)
		}
	})
	row.deleteBtn.Importance = widget.LowImportance

	row.ExtendBaseWidget(row)
	return row
}

// SetEntry binds the row to the list position index
func (r *EntryRow) SetEntry(index int, filename, status string) {
	r.index = index
	r.filename = filename
	r.filenameLabel.SetText(IconFile + " " + filename)
	r.statusLabel.SetText(status)
}

// Filename returns the filename shown by the row
func (r *EntryRow) Filename() string {
	return r.filename
}

// Status returns the status text shown by the row
func (r *EntryRow) Status() string {
	return r.statusLabel.Text
}

// CreateRenderer implements fyne.Widget
func (r *EntryRow) CreateRenderer() fyne.WidgetRenderer {
	status := container.New(layout.NewGridWrapLayout(fyne.NewSize(StatusLabelWidth, RowMinHeight)), r.statusLabel)
	return widget.NewSimpleRenderer(
		container.NewBorder(nil, nil, nil, container.NewHBox(status, r.deleteBtn), r.filenameLabel),
	)
}
