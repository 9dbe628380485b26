package main

import (
	"log"
	"net/http"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/download-manager/internal/config"
	"github.com/ytget/download-manager/internal/download"
	"github.com/ytget/download-manager/internal/executor"
	"github.com/ytget/download-manager/internal/platform"
	"github.com/ytget/download-manager/internal/store"
	"github.com/ytget/download-manager/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.download-manager"
	AppName = "Download Manager"
)

func main() {
	log.Printf("%s v%s starting...", AppName, version)

	myApp := app.NewWithID(AppID)
	myWindow := myApp.NewWindow(AppName + " v" + version)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	settings := config.NewSettings(myApp)
	publicDir := settings.GetDownloadDirectory()
	privateDir := settings.GetPrivateDirectory()
	if err := platform.EnsureDirectories(publicDir, privateDir); err != nil {
		log.Printf("Failed to ensure directories: %v", err)
	}

	listStore, err := store.New(settings.GetListStorage(), settings.Preferences(), privateDir)
	if err != nil {
		log.Printf("Falling back to file list storage: %v", err)
		listStore = store.NewFileStore(filepath.Join(privateDir, store.DefaultFileName))
	}
	list := download.NewListController(listStore)

	rateLimit := settings.GetRateLimit()
	router := executor.NewRouter(
		executor.Dirs{Public: publicDir, Private: privateDir},
		settings.GetMaxParallelDownloads(),
		executor.NewMagnetBackend(rateLimit),
		executor.NewMediaBackend(settings.GetMediaHosts()),
		executor.NewHTTPBackend(&http.Client{}, rateLimit),
	)

	downloadSvc := download.NewService(router, list, download.Options{
		PollInterval:      settings.GetPollInterval(),
		QueryTimeout:      settings.GetQueryTimeout(),
		MaxActiveMonitors: settings.GetMaxActiveMonitors(),
	})

	ui.NewRootUI(myWindow, myApp, downloadSvc, settings)

	myWindow.ShowAndRun()

	if active := downloadSvc.ActiveMonitors(); active > 0 {
		log.Printf("Stopping %d active monitors", active)
	}
	downloadSvc.Shutdown()
	if err := router.Close(); err != nil {
		log.Printf("Failed to close download service: %v", err)
	}
	log.Printf("%s stopped", AppName)
}
