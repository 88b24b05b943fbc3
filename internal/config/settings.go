package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings are the values that may differ between deployments.
// Everything else lives in the constants above.
type Settings struct {
	ListenAddr    string
	DataDir       string
	UploadDir     string
	ImageDir      string
	RecordBackend string
	RedisAddr     string
	RedisPassword string
	IsProd        bool

	// AllowedOrigins are the browser origins allowed by CORS.
	AllowedOrigins []string
}

// LoadSettings reads an optional .env file and then the process environment.
// A missing .env is not an error.
func LoadSettings(envFiles ...string) Settings {
	_ = godotenv.Load(envFiles...)

	return Settings{
		ListenAddr:    getEnv("LISTEN_ADDR", ServerListenAddr),
		DataDir:       getEnv("DATA_DIR", DataDir),
		UploadDir:     getEnv("UPLOAD_DIR", UploadDir),
		ImageDir:      getEnv("IMAGE_DIR", ImageDir),
		RecordBackend: getEnv("RECORD_BACKEND", RecordBackendFile),
		RedisAddr:     getEnv("REDIS_ADDR", RedisAddr),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		IsProd:        getBool("IS_PROD", IS_PROD),

		AllowedOrigins: getList("CORS_ORIGINS", DefaultAllowedOrigin),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getList(key, fallback string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, fallback), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
