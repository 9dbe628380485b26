package ui

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/download-manager/internal/config"
	"github.com/ytget/download-manager/internal/download"
	"github.com/ytget/download-manager/internal/model"
)

// RootUI represents the main window and listens to the download core
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	downloadSvc  download.Downloader
	settings     *config.Settings
	localization *Localization

	urlEntry    *widget.Entry
	downloadBtn *widget.Button
	entryList   *widget.List
	entries     binding.StringList

	notification uint64

	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
	notificationMutex     sync.Mutex
}

var _ download.Listener = (*RootUI)(nil)

// NewRootUI creates the main UI and registers it as the core's listener
func NewRootUI(window fyne.Window, app fyne.App, downloadSvc download.Downloader, settings *config.Settings) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		downloadSvc:  downloadSvc,
		settings:     settings,
		localization: localization,
		entries:      binding.NewStringList(),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()

	ui.entries.Set(model.Filenames(downloadSvc.Entries()))
	downloadSvc.SetListener(ui)

	log.Printf("RootUI initialized with %d listed downloads", ui.entries.Length())
	return ui
}

func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onDownloadClick()
	}

	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	topPanel := container.NewBorder(nil, nil, settingsBtn, ui.downloadBtn, ui.urlEntry)

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewHBox(ui.notificationSpinner, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	ui.entryList = widget.NewList(
		ui.entries.Length,
		func() fyne.CanvasObject { return NewEntryRow(ui.onRemoveEntry) },
		ui.updateEntryRow,
	)
	ui.entries.AddListener(binding.NewDataListener(ui.entryList.Refresh))

	content := container.NewBorder(
		container.NewVBox(topPanel, ui.notificationContainer),
		nil,
		nil,
		nil,
		ui.entryList,
	)
	ui.window.SetContent(content)
}

func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownload))
	ui.entryList.Refresh()
}

// onDownloadClick submits the URL field; errors become notifications
func (ui *RootUI) onDownloadClick() {
	text := ui.urlEntry.Text

	handle, err := ui.downloadSvc.Submit(context.Background(), text)
	switch {
	case err == nil:
		log.Printf("Submitted %s as %s", text, handle)
		ui.urlEntry.SetText("")
	case errors.Is(err, download.ErrEmptyInput):
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL), false)
	case errors.Is(err, download.ErrServiceUnavailable):
		ui.showNotification(ui.localization.GetText(KeyServiceUnavailable), false)
	default:
		log.Printf("Submit failed: %v", err)
		ui.showNotification(ui.localization.GetText(KeyEnqueueFailed)+": "+err.Error(), false)
	}
}

// onRemoveEntry asks for confirmation before deleting the entry at index
func (ui *RootUI) onRemoveEntry(index int, filename string) {
	dialog.ShowConfirm(
		ui.localization.GetText(KeyDeleteTitle),
		ui.localization.Format(KeyDeleteConfirm, filename),
		func(confirmed bool) {
			if confirmed {
				ui.removeEntry(index, filename)
			}
		},
		ui.window,
	)
}

// removeEntry deletes index if it still holds filename
func (ui *RootUI) removeEntry(index int, filename string) bool {
	current := ui.downloadSvc.Entries()
	if index < 0 || index >= len(current) || current[index].Filename != filename {
		log.Printf("Entry %d no longer holds %s, skipping removal", index, filename)
		return false
	}
	if !ui.downloadSvc.Remove(index) {
		return false
	}

	// Keep the save failure from OnListChanged visible
	if ui.downloadSvc.LastSaveError() == nil {
		ui.showNotification(ui.localization.GetText(KeyDeletedItem), false)
	}
	return true
}

func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.onLanguageChange(ui.settings.GetLanguage())
		ui.showNotification(ui.localization.GetText(KeySettingsSaved), false)
	})
}

func (ui *RootUI) updateEntryRow(id widget.ListItemID, item fyne.CanvasObject) {
	filename, err := ui.entries.GetValue(id)
	if err != nil {
		return
	}
	if row, ok := item.(*EntryRow); ok {
		row.SetEntry(id, filename, ui.status(filename))
	}
}

// status describes the latest transfer of filename submitted in this process,
// or returns "" when there is none
func (ui *RootUI) status(filename string) string {
	transfers := ui.downloadSvc.Transfers()
	for i := len(transfers) - 1; i >= 0; i-- {
		t := transfers[i]
		if t.Filename != filename {
			continue
		}
		switch {
		case t.State == model.MonitorSucceeded:
			return ui.localization.GetText(KeyDownloadCompleted)
		case t.State == model.MonitorFailed:
			return ui.localization.GetText(KeyDownloadFailed)
		case t.Percent < 0:
			return ui.localization.GetText(KeyQueued)
		default:
			return ui.localization.Format(KeyDownloadingPercent, t.Percent)
		}
	}
	return ""
}

func (ui *RootUI) refreshEntries() {
	fyne.Do(ui.entryList.Refresh)
}

// OnSubmitAck implements download.Listener
func (ui *RootUI) OnSubmitAck() {
	ui.showNotification(ui.localization.GetText(KeyStartingDownload), true)
}

// OnProgress implements download.Listener
func (ui *RootUI) OnProgress(filename string, percent int) {
	ui.refreshEntries()
	ui.showNotification(ui.localization.Format(KeyDownloadingPercent, percent), true)
}

// OnTerminal implements download.Listener
func (ui *RootUI) OnTerminal(filename string, succeeded bool) {
	key := KeyDownloadFailed
	if succeeded {
		key = KeyDownloadCompleted
	}
	text := ui.localization.GetText(key)
	ui.refreshEntries()
	ui.showNotification(text+": "+filename, false)

	if succeeded && ui.settings.GetNotifyOnComplete() {
		ui.app.SendNotification(fyne.NewNotification(text, filename))
	}
}

// OnListChanged implements download.Listener. It runs under the list lock, so
// the binding is updated asynchronously on the UI goroutine.
func (ui *RootUI) OnListChanged(entries []model.DownloadEntry) {
	filenames := model.Filenames(entries)
	fyne.Do(func() {
		ui.entries.Set(filenames)
	})

	if err := ui.downloadSvc.LastSaveError(); err != nil {
		ui.showNotification(ui.localization.Format(KeySaveFailed, err), false)
	}
}

// showNotification displays a message under the URL input and hides it after a delay.
// When spinning is true, a spinner indicates background activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	ui.notificationMutex.Lock()
	ui.notification++
	generation := ui.notification
	ui.notificationMutex.Unlock()

	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
		} else {
			ui.notificationSpinner.Hide()
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})

	time.AfterFunc(NotificationAutoHide, func() {
		ui.notificationMutex.Lock()
		current := ui.notification
		ui.notificationMutex.Unlock()
		if current == generation {
			ui.hideNotification()
		}
	})
}

func (ui *RootUI) hideNotification() {
	fyne.Do(func() {
		ui.notificationSpinner.Hide()
		ui.notificationContainer.Hide()
	})
}
