package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App  AppConfig
	API  APIConfig
	Auth AuthConfig
	Log  LogConfig
	PDF  PDFConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// APIConfig configuración del cliente REST hacia el backend ACME.
type APIConfig struct {
	BaseURL        string // ej. https://acme.infoking.win/api
	TimeoutSeconds int    // timeout de cada request HTTP
}

// AuthConfig configuración del token de acceso.
//
// El login contra el proveedor de identidad ocurre fuera de esta aplicación;
// aquí solo se consume el token resultante, ya sea inline (ACME_TOKEN) o
// desde un archivo (ACME_TOKEN_FILE). Audience se guarda para trazabilidad.
type AuthConfig struct {
	Token     string
	TokenFile string
	Audience  string
	LoginURL  string // a dónde enviar al operador cuando la sesión expira
}

// LogConfig configuración del logger.
type LogConfig struct {
	Level string
	File  string
}

// PDFConfig configuración de la salida de comprobantes impresos.
type PDFConfig struct {
	OutputDir string
}

// ResolveToken devuelve el token de acceso: el inline tiene prioridad, si no
// se intenta leer TokenFile. Sin token devuelve cadena vacía (la aplicación
// arranca igualmente con todo deshabilitado).
func (c AuthConfig) ResolveToken() string {
	if c.Token != "" {
		return strings.TrimSpace(c.Token)
	}
	if c.TokenFile != "" {
		b, err := os.ReadFile(c.TokenFile)
		if err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	return ""
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, ACME_API_BASE_URL, ACME_TOKEN, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// Bind de variables de entorno (Viper las lee automáticamente si AutomaticEnv está activo)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "acme-pos"),
		},
		API: APIConfig{
			BaseURL:        getString(v, "ACME_API_BASE_URL", "https://acme.infoking.win/api"),
			TimeoutSeconds: getInt(v, "ACME_API_TIMEOUT_SECONDS", 30),
		},
		Auth: AuthConfig{
			Token:     getString(v, "ACME_TOKEN", ""),
			TokenFile: getString(v, "ACME_TOKEN_FILE", ""),
			Audience:  getString(v, "ACME_AUTH_AUDIENCE", "https://acme.infoking.win/api"),
			LoginURL:  getString(v, "ACME_LOGIN_URL", "/api/auth/login"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
			File:  getString(v, "ACME_LOG_FILE", "pos.log"),
		},
		PDF: PDFConfig{
			OutputDir: getString(v, "ACME_PDF_DIR", "comprobantes"),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
