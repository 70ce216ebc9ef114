package env

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Env holds the values read from the .env file, nil if none was found.
var Env map[string]string

// GetEnv resolves key from the process environment first, then from the
// .env file, then falls back to def.
func GetEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	if val, ok := Env[key]; ok {
		return val
	}
	return def
}

func GetEnvInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(GetEnv(key, "")))
	if err != nil {
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(GetEnv(key, "")))
	if err != nil {
		return def
	}
	return b
}

// Lookup reports whether key is set in the process environment or the .env file.
func Lookup(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	val, ok := Env[key]
	return val, ok
}

// SetupEnvFile loads the first .env file found. Running without one is fine
// in containers where everything comes from the environment.
func SetupEnvFile() bool {
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/pixelpress to project root
		"../../../.env", // Fallback for deeper nesting
	}

	for _, envFile := range envFiles {
		values, err := godotenv.Read(envFile)
		if err == nil {
			Env = values
			return true
		}
	}
	return false
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
