package ui

import (
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/download-manager/internal/config"
)

// SettingsDialog edits the persisted settings
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	downloadDirEntry  *widget.Entry
	maxParallelEntry  *widget.Entry
	rateLimitEntry    *widget.Entry
	pollIntervalEntry *widget.Entry
	listStorageSelect *widget.Select
	languageSelect    *widget.Select
	notifyCheck       *widget.Check
}

// ShowSettingsDialog builds and shows the settings dialog; onSaved runs after a save
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, localization, window)
	sd.onSaved = onSaved
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	text := sd.localization.GetText

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(text(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder("1-10")

	sd.rateLimitEntry = widget.NewEntry()
	sd.rateLimitEntry.SetPlaceHolder("0")

	sd.pollIntervalEntry = widget.NewEntry()
	sd.pollIntervalEntry.SetPlaceHolder("100-60000")

	sd.listStorageSelect = widget.NewSelect(sd.settings.GetListStorageOptions(), nil)

	languageOptions := []string{}
	for code := range sd.settings.GetLanguageOptions() {
		languageOptions = append(languageOptions, code)
	}
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	sd.notifyCheck = widget.NewCheck(text(KeyNotifyOnComplete), nil)

	form := container.NewVBox(
		widget.NewLabel(text(KeyDownloadDirectory)+":"),
		downloadDirRow,

		widget.NewLabel(text(KeyMaxParallel)+":"),
		sd.maxParallelEntry,

		widget.NewLabel(text(KeyRateLimit)+":"),
		sd.rateLimitEntry,

		widget.NewLabel(text(KeyPollInterval)+":"),
		sd.pollIntervalEntry,

		widget.NewLabel(text(KeyListStorage)+":"),
		sd.listStorageSelect,

		widget.NewSeparator(),

		widget.NewLabel(text(KeyLanguage)+":"),
		sd.languageSelect,
		sd.notifyCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		text(KeySettings),
		text(KeySave),
		text(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelDownloads()))
	sd.rateLimitEntry.SetText(strconv.FormatInt(sd.settings.GetRateLimit()/1024, 10))
	sd.pollIntervalEntry.SetText(strconv.FormatInt(sd.settings.GetPollInterval().Milliseconds(), 10))
	sd.listStorageSelect.SetSelected(sd.settings.GetListStorage())
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
	sd.notifyCheck.SetChecked(sd.settings.GetNotifyOnComplete())
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave writes valid fields back; invalid numbers keep the stored value
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}

	if n, err := strconv.Atoi(sd.maxParallelEntry.Text); err == nil {
		sd.settings.SetMaxParallelDownloads(n)
	}

	if kb, err := strconv.ParseInt(sd.rateLimitEntry.Text, 10, 64); err == nil {
		sd.settings.SetRateLimit(kb * 1024)
	}

	if ms, err := strconv.Atoi(sd.pollIntervalEntry.Text); err == nil {
		sd.settings.SetPollInterval(time.Duration(ms) * time.Millisecond)
	}

	if sd.listStorageSelect.Selected != "" {
		sd.settings.SetListStorage(sd.listStorageSelect.Selected)
	}

	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}

	sd.settings.SetNotifyOnComplete(sd.notifyCheck.Checked)

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
