// Package i18n translates the labels shown by the front ends.
package i18n

import (
	"os"
	"strings"
	"sync"

	"github.com/jeandeaual/go-locale"
	"go.uber.org/zap"
)

// EnvLang forces the language regardless of the system locale.
const EnvLang = "TRAFFICLIGHT_LANG"

var (
	mu   sync.RWMutex
	lang = "en"
)

var translations = map[string]map[string]string{
	"Red": {
		"pt": "Vermelho",
		"es": "Rojo",
		"ru": "Красный",
	},
	"RedYellow": {
		"pt": "Vermelho-Amarelo",
		"es": "Rojo-Amarillo",
		"ru": "Красный-Жёлтый",
	},
	"Yellow": {
		"pt": "Amarelo",
		"es": "Amarillo",
		"ru": "Жёлтый",
	},
	"Green": {
		"pt": "Verde",
		"es": "Verde",
		"ru": "Зелёный",
	},
	"FlashingGreen": {
		"pt": "Verde piscante",
		"es": "Verde intermitente",
		"ru": "Мигающий зелёный",
	},
	"Red Duration": {
		"pt": "Duração do vermelho",
		"es": "Duración del rojo",
		"ru": "Длительность красного",
	},
	"Red-Yellow Duration": {
		"pt": "Duração do vermelho-amarelo",
		"es": "Duración del rojo-amarillo",
		"ru": "Длительность красного-жёлтого",
	},
	"Yellow Duration (Before Green)": {
		"pt": "Duração do amarelo (antes do verde)",
		"es": "Duración del amarillo (antes del verde)",
		"ru": "Длительность жёлтого (перед зелёным)",
	},
	"Green Duration": {
		"pt": "Duração do verde",
		"es": "Duración del verde",
		"ru": "Длительность зелёного",
	},
	"Flashing Green Duration": {
		"pt": "Duração do verde piscante",
		"es": "Duración del verde intermitente",
		"ru": "Длительность мигающего зелёного",
	},
	"Yellow Duration (After Green)": {
		"pt": "Duração do amarelo (após o verde)",
		"es": "Duración del amarillo (después del verde)",
		"ru": "Длительность жёлтого (после зелёного)",
	},
	"Time": {
		"pt": "Tempo",
		"es": "Tiempo",
		"ru": "Время",
	},
	"Start": {
		"pt": "Iniciar",
		"es": "Iniciar",
		"ru": "Старт",
	},
	"Stop": {
		"pt": "Parar",
		"es": "Parar",
		"ru": "Стоп",
	},
	"Resume": {
		"pt": "Retomar",
		"es": "Reanudar",
		"ru": "Продолжить",
	},
	"Reset": {
		"pt": "Resetar",
		"es": "Reiniciar",
		"ru": "Сброс",
	},
	"Traffic Light": {
		"pt": "Semáforo",
		"es": "Semáforo",
		"ru": "Светофор",
	},
}

// durationLabels are the duration setting labels in cycle order.
var durationLabels = []string{
	"Red Duration",
	"Red-Yellow Duration",
	"Yellow Duration (Before Green)",
	"Green Duration",
	"Flashing Green Duration",
	"Yellow Duration (After Green)",
}

// DurationLabel returns the translated label of the duration setting of the
// phase at index i.
func DurationLabel(i int) string {
	if i < 0 || i >= len(durationLabels) {
		return ""
	}
	return T(durationLabels[i])
}

// Detect picks the language from forced (usually the config value), then
// TRAFFICLIGHT_LANG, then the system locale, defaulting to English.
func Detect(forced string, logger *zap.Logger) string {
	if logger == nil {
		logger = zap.NewNop()
	}

	if forced = strings.TrimSpace(forced); forced != "" {
		logger.Info("language forced by config", zap.String("lang", forced))
		return SetLang(forced)
	}
	if env := strings.TrimSpace(os.Getenv(EnvLang)); env != "" {
		logger.Info("language forced by environment", zap.String("env", EnvLang), zap.String("lang", env))
		return SetLang(env)
	}

	userLocales, err := locale.GetLocales()
	if err != nil || len(userLocales) == 0 {
		logger.Info("no user locale detected, defaulting to english")
		return SetLang("en")
	}
	logger.Debug("detected user locale", zap.String("locale", userLocales[0]))
	return SetLang(userLocales[0])
}

// SetLang normalizes a locale such as "pt_BR" or "es-ES" to a supported
// language and makes it current.
func SetLang(l string) string {
	l = strings.ToLower(strings.TrimSpace(l))
	normalized := "en"
	for _, supported := range []string{"pt", "es", "ru"} {
		if strings.HasPrefix(l, supported) {
			normalized = supported
			break
		}
	}

	mu.Lock()
	lang = normalized
	mu.Unlock()
	return normalized
}

// T translates key into the current language, falling back to key.
func T(key string) string {
	mu.RLock()
	current := lang
	mu.RUnlock()

	if translated, ok := translations[key][current]; ok {
		return translated
	}
	return key
}

// GetLang returns the current language.
func GetLang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}
