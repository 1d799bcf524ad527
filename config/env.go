package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppEnv         = "local"
	defaultAppPort        = "8080"
	defaultAppKey         = "change-me-in-production"
	defaultAPIURL         = "http://127.0.0.1:8000"
	defaultCurrency       = "KES"
	defaultAPITimeout     = 30 * time.Second
	defaultCacheDriver    = "memory"
	defaultRedisAddr      = "localhost:6379"
	defaultSessionCookie  = "cafe_session"
	defaultSessionTTL     = 2 * time.Hour
	defaultCatalogTTL     = 30 * time.Second
	defaultLoginRateLimit = 10
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json, then .env, then the process environment.
// Later sources win. Missing files are not an error.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":          defaultAppEnv,
		"APP_PORT":         defaultAppPort,
		"APP_KEY":          defaultAppKey,
		"API_URL":          defaultAPIURL,
		"CURRENCY":         defaultCurrency,
		"API_TIMEOUT":      defaultAPITimeout.String(),
		"CACHE_DRIVER":     defaultCacheDriver,
		"REDIS_ADDR":       defaultRedisAddr,
		"REDIS_PASSWORD":   "",
		"SESSION_COOKIE":   defaultSessionCookie,
		"SESSION_TTL":      defaultSessionTTL.String(),
		"SESSION_SECURE":   "false",
		"CATALOG_TTL":      defaultCatalogTTL.String(),
		"CSRF_ENABLED":     "true",
		"LOGIN_RATE_LIMIT": strconv.Itoa(defaultLoginRateLimit),
	}
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

func IsProduction() bool {
	switch AppEnv() {
	case "production", "prod":
		return true
	}
	return false
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

// AppKey seeds the session token encryption and the CSRF key.
func AppKey() string {
	_ = Load()
	return get("APP_KEY", defaultAppKey)
}

// APIURL is the base address of the upstream cafe API, without a trailing slash.
func APIURL() string {
	_ = Load()
	return strings.TrimRight(get("API_URL", defaultAPIURL), "/")
}

// Currency is the display-only label printed before every amount.
func Currency() string {
	_ = Load()
	return get("CURRENCY", defaultCurrency)
}

func APITimeout() time.Duration {
	_ = Load()
	return duration("API_TIMEOUT", defaultAPITimeout)
}

func CacheDriver() string {
	_ = Load()

	driver := strings.ToLower(get("CACHE_DRIVER", defaultCacheDriver))
	switch driver {
	case "memory", "redis":
		return driver
	default:
		return defaultCacheDriver
	}
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

// ── Session ──────────────────────────────────────────────────────────────────

func SessionCookie() string { _ = Load(); return get("SESSION_COOKIE", defaultSessionCookie) }
func SessionTTL() time.Duration { _ = Load(); return duration("SESSION_TTL", defaultSessionTTL) }
func SessionSecure() bool { _ = Load(); return boolean("SESSION_SECURE", false) }

// ── Web ──────────────────────────────────────────────────────────────────────

// CatalogTTL is how long the public menu is cached. Zero turns the cache off.
func CatalogTTL() time.Duration { _ = Load(); return durationOrZero("CATALOG_TTL", defaultCatalogTTL) }
func CSRFEnabled() bool { _ = Load(); return boolean("CSRF_ENABLED", true) }

// LoginRateLimit is the number of login attempts allowed per client IP per minute.
func LoginRateLimit() int {
	_ = Load()
	n, err := strconv.Atoi(get("LOGIN_RATE_LIMIT", ""))
	if err != nil || n <= 0 {
		return defaultLoginRateLimit
	}
	return n
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mergeEnviron(loaded)

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		var s string
		switch v := val.(type) {
		case string:
			s = v
		case bool, float64:
			s = fmt.Sprint(v)
		default:
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}

	return nil
}

// mergeEnviron lets the process environment override any known key.
func mergeEnviron(out map[string]string) {
	for key := range defaultValues() {
		if v, ok := os.LookupEnv(key); ok {
			out[key] = strings.TrimSpace(v)
		}
	}
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(get(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// durationOrZero is duration that also accepts an explicit zero.
func durationOrZero(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(get(key, ""))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func boolean(key string, fallback bool) bool {
	b, err := strconv.ParseBool(get(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a single key in memory. Intended for tests and CLI flags.
func Set(key, value string) {
	_ = Load()

	mu.Lock()
	defer mu.Unlock()
	values[strings.ToUpper(key)] = value
}

// LoadFrom replaces the current values with the given files and the
// process environment, bypassing the load-once guard.
func LoadFrom(configPath, envPath string) error {
	loadOnce.Do(func() {})
	return loadFromFiles(configPath, envPath)
}

// Reset restores the defaults and forgets any loaded files.
func Reset() {
	mu.Lock()
	values = defaultValues()
	mu.Unlock()

	loadOnce = sync.Once{}
	loadOnce.Do(func() {})
	loadErr = nil
}
