package pkgconfig

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// defaults apply to keys missing from both the file and the environment.
// Without them AutomaticEnv cannot see nested keys that the file omits.
//
//nolint:gochecknoglobals // static table
var defaults = map[string]any{
	"log.level":                      "info",
	"goroutine.max":                  100,
	"server.address.http":            ":8080",
	"server.read_timeout":            "5m",
	"modules.sheet.enabled":          true,
	"upload.max_file_size":           200 << 20,
	"upload.chunk_size":              1 << 20,
	"upload.cell_limit":              10_000_000,
	"upload.batch_size":              10_000,
	"upload.max_attempts":            3,
	"upload.base_backoff":            "2s",
	"upload.workers":                 4,
	"upload.queue_size":              8,
	"upload.status_retention":        "24h",
	"google.token_path":              "token.json",
	"google.cleanup_orphans":         true,
	"google.requests_per_minute":     60,
	"google.call_timeout":            "60s",
	"google.user_agent":              "gosheets",
	"google.use_default_credentials": false,
}

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper loads configuration from the given file path and returns a Viper-backed Config.
//
// The config file type is inferred by Viper from the filename extension.
// Every key can be overridden by an environment variable named after the key
// in upper case with dots replaced by underscores (upload.max_file_size ->
// UPLOAD_MAX_FILE_SIZE).
func NewViper(pathFile string) (*Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(filepath.Clean(pathFile))
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config file changed, new values apply to new uploads", "file", e.Name)
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// GetInt returns the value for key as int64.
func (vc *Viper) GetInt(key string) int64 {
	return vc.v.GetInt64(key)
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetDuration returns the value for key parsed as a time.Duration ("2s", "500ms").
func (vc *Viper) GetDuration(key string) time.Duration {
	return vc.v.GetDuration(key)
}

// GetArray returns the value for key split by commas, without blank items.
func (vc *Viper) GetArray(key string) []string {
	var items []string
	for _, item := range strings.Split(vc.v.GetString(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

// Close satisfies io.Closer so the config can sit in the app closers list.
func (vc *Viper) Close() error {
	return nil
}
