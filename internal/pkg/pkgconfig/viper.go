package pkgconfig

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadEnv loads KEY=value pairs from a dotenv file into the process
// environment. Variables that are already set win. A missing file is not an
// error.
func LoadEnv(file string) error {
	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Viper is a Config backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper reads the config file at file (its type follows the extension)
// and layers the process environment on top of it.
func NewViper(file string) (*Viper, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	v.WatchConfig()

	return &Viper{v: v}, nil
}

func (vc *Viper) GetInt(key string) int64              { return vc.v.GetInt64(key) }
func (vc *Viper) GetBool(key string) bool              { return vc.v.GetBool(key) }
func (vc *Viper) GetString(key string) string          { return vc.v.GetString(key) }
func (vc *Viper) GetDuration(key string) time.Duration { return vc.v.GetDuration(key) }

// GetArray accepts either a YAML list or a comma separated string, the form
// an environment variable override takes. Blank items are dropped.
func (vc *Viper) GetArray(key string) []string {
	var items []string
	switch raw := vc.v.Get(key).(type) {
	case []any:
		for _, item := range raw {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	case []string:
		items = raw
	case string:
		items = strings.Split(raw, ",")
	}

	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Close satisfies Config; viper holds nothing to release.
func (vc *Viper) Close() error { return nil }
