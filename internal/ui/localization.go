package ui

import "fmt"

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyDownload           = "download"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeyEnterURL           = "enter_url"
	KeyPleaseEnterURL     = "please_enter_url"
	KeyStartingDownload   = "starting_download"
	KeyDownloadingPercent = "downloading_percent"
	KeyDownloadCompleted  = "download_completed"
	KeyDownloadFailed     = "download_failed"
	KeyServiceUnavailable = "service_unavailable"
	KeyEnqueueFailed      = "enqueue_failed"
	KeyDeleteTitle        = "delete_title"
	KeyDeleteConfirm      = "delete_confirm"
	KeyDeletedItem        = "deleted_item"
	KeyQueued             = "queued"
	KeySaveFailed         = "save_failed"
	KeyDownloadDirectory  = "download_directory"
	KeyMaxParallel        = "max_parallel"
	KeyRateLimit          = "rate_limit"
	KeyPollInterval       = "poll_interval"
	KeyListStorage        = "list_storage"
	KeyNotifyOnComplete   = "notify_on_complete"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeyBrowse             = "browse"
	KeySettingsSaved      = "settings_saved"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// Format returns localized text for key with args applied
func (l *Localization) Format(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "Download Manager",
		KeyDownload:           "Download",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeyEnterURL:           "Enter URL (https://..., magnet:?...)",
		KeyPleaseEnterURL:     "Please enter a valid URL.",
		KeyStartingDownload:   "Starting download...",
		KeyDownloadingPercent: "Downloading... %d%%",
		KeyDownloadCompleted:  "Download completed",
		KeyDownloadFailed:     "Download failed",
		KeyServiceUnavailable: "Download service is not available",
		KeyEnqueueFailed:      "Could not start download",
		KeyDeleteTitle:        "Delete",
		KeyDeleteConfirm:      "Remove %s from the list?",
		KeyDeletedItem:        "Deleted item from list",
		KeyQueued:             "Queued",
		KeySaveFailed:         "Could not save the download list: %v",
		KeyDownloadDirectory:  "Download Directory",
		KeyMaxParallel:        "Max Parallel Downloads",
		KeyRateLimit:          "Rate Limit (KB/s, 0 = unlimited)",
		KeyPollInterval:       "Progress Interval (ms)",
		KeyListStorage:        "List Storage",
		KeyNotifyOnComplete:   "Notify when a download completes",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeyBrowse:             "Browse",
		KeySettingsSaved:      "Settings saved. Some changes apply after restart.",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "Менеджер загрузок",
		KeyDownload:           "Скачать",
		KeySettings:           "Настройки",
		KeyFile:               "Файл",
		KeyLanguage:           "Язык",
		KeyEnterURL:           "Введите URL (https://..., magnet:?...)",
		KeyPleaseEnterURL:     "Пожалуйста, введите корректный URL.",
		KeyStartingDownload:   "Начинаем загрузку...",
		KeyDownloadingPercent: "Загрузка... %d%%",
		KeyDownloadCompleted:  "Загрузка завершена",
		KeyDownloadFailed:     "Ошибка загрузки",
		KeyServiceUnavailable: "Служба загрузок недоступна",
		KeyEnqueueFailed:      "Не удалось начать загрузку",
		KeyDeleteTitle:        "Удалить",
		KeyDeleteConfirm:      "Удалить %s из списка?",
		KeyDeletedItem:        "Элемент удалён из списка",
		KeyQueued:             "В очереди",
		KeySaveFailed:         "Не удалось сохранить список загрузок: %v",
		KeyDownloadDirectory:  "Папка загрузки",
		KeyMaxParallel:        "Макс. параллельных",
		KeyRateLimit:          "Ограничение скорости (КБ/с, 0 = без ограничений)",
		KeyPollInterval:       "Интервал прогресса (мс)",
		KeyListStorage:        "Хранение списка",
		KeyNotifyOnComplete:   "Уведомлять о завершении загрузки",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeyBrowse:             "Обзор",
		KeySettingsSaved:      "Настройки сохранены. Часть изменений вступит в силу после перезапуска.",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "Gerenciador de Downloads",
		KeyDownload:           "Baixar",
		KeySettings:           "Configurações",
		KeyFile:               "Arquivo",
		KeyLanguage:           "Idioma",
		KeyEnterURL:           "Digite a URL (https://..., magnet:?...)",
		KeyPleaseEnterURL:     "Por favor, digite uma URL válida.",
		KeyStartingDownload:   "Iniciando download...",
		KeyDownloadingPercent: "Baixando... %d%%",
		KeyDownloadCompleted:  "Download concluído",
		KeyDownloadFailed:     "Falha no download",
		KeyServiceUnavailable: "Serviço de download indisponível",
		KeyEnqueueFailed:      "Não foi possível iniciar o download",
		KeyDeleteTitle:        "Excluir",
		KeyDeleteConfirm:      "Remover %s da lista?",
		KeyDeletedItem:        "Item removido da lista",
		KeyQueued:             "Na fila",
		KeySaveFailed:         "Não foi possível salvar a lista de downloads: %v",
		KeyDownloadDirectory:  "Diretório de Download",
		KeyMaxParallel:        "Max Downloads Paralelos",
		KeyRateLimit:          "Limite de Velocidade (KB/s, 0 = ilimitado)",
		KeyPollInterval:       "Intervalo de Progresso (ms)",
		KeyListStorage:        "Armazenamento da Lista",
		KeyNotifyOnComplete:   "Notificar quando um download terminar",
		KeySave:               "Salvar",
		KeyCancel:             "Cancelar",
		KeyBrowse:             "Navegar",
		KeySettingsSaved:      "Configurações salvas. Algumas mudanças valem após reiniciar.",
	}
}
