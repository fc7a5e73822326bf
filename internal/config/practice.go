package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PracticeConfig is the branding printed on documents.
type PracticeConfig struct {
	Name         string `mapstructure:"name"`
	Tagline      string `mapstructure:"tagline"`
	Address      string `mapstructure:"address"`
	Email        string `mapstructure:"email"`
	Phone        string `mapstructure:"phone"`
	FooterNotes  string `mapstructure:"footer"`
	PrimaryColor string `mapstructure:"primary_color"`
	LogoPath     string `mapstructure:"logo_path"`
}

// PracticeConfigHolder serves the current branding. A practice.yml in the config
// directory overrides the environment and is reloaded when it changes.
type PracticeConfigHolder struct {
	current atomic.Value // holds PracticeConfig
}

func NewPracticeConfigHolder(cfg Config, log *zap.Logger) (*PracticeConfigHolder, error) {
	log = log.Named("config.practice")

	v := viper.New()
	v.SetConfigName("practice")
	v.SetConfigType("yml")
	if dir := strings.TrimSpace(cfg.ConfigDir); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath("/etc/clinicbill")

	v.SetDefault("practice.name", cfg.Practice.Name)
	v.SetDefault("practice.tagline", cfg.Practice.Tagline)
	v.SetDefault("practice.address", cfg.Practice.Address)
	v.SetDefault("practice.email", cfg.Practice.Email)
	v.SetDefault("practice.phone", cfg.Practice.Phone)
	v.SetDefault("practice.footer", cfg.Practice.FooterNotes)
	v.SetDefault("practice.primary_color", cfg.Practice.PrimaryColor)
	v.SetDefault("practice.logo_path", cfg.Practice.LogoPath)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
	}

	practice, err := decodePractice(v)
	if err != nil {
		return nil, err
	}

	holder := &PracticeConfigHolder{}
	holder.current.Store(practice)

	if fileFound {
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodePractice(v)
			if err != nil {
				log.Warn("practice config reload ignored", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("practice config reloaded", zap.String("file", e.Name))
		})
		v.WatchConfig()
	}

	return holder, nil
}

// NewStaticPracticeConfigHolder serves fixed branding without watching files.
func NewStaticPracticeConfigHolder(practice PracticeConfig) *PracticeConfigHolder {
	holder := &PracticeConfigHolder{}
	holder.current.Store(practice)
	return holder
}

func (h *PracticeConfigHolder) Get() PracticeConfig {
	return h.current.Load().(PracticeConfig)
}

func decodePractice(v *viper.Viper) (PracticeConfig, error) {
	var file struct {
		Practice PracticeConfig `mapstructure:"practice"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return PracticeConfig{}, err
	}
	practice := file.Practice
	practice.Name = strings.TrimSpace(practice.Name)
	if err := validatePractice(practice); err != nil {
		return PracticeConfig{}, err
	}
	return practice, nil
}

func validatePractice(p PracticeConfig) error {
	if email := strings.TrimSpace(p.Email); email != "" && !strings.Contains(email, "@") {
		return errors.New("practice.email must be an email address")
	}
	return nil
}
