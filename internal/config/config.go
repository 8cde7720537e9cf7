// Package config はフラグ・環境変数・設定ファイルを統合した設定を提供します
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix は環境変数の接頭辞です（例: SCANFOLD_DETAILS）
	EnvPrefix = "SCANFOLD"

	appDirName      = "scanfold"
	configFileName  = "config.yaml"
	localConfigName = "scanfold.yaml"
)

// 設定キー
const (
	KeyDetails       = "details"
	KeyOutputDir     = "output_dir"
	KeyStdout        = "stdout"
	KeyClipboard     = "clipboard"
	KeyPDF           = "pdf"
	KeyProgress      = "progress"
	KeyLogLevel      = "log_level"
	KeyServeAddr     = "serve.addr"
	KeyWatchDebounce = "watch.debounce"
)

// ServeSettings は HTTP サービスの設定です
type ServeSettings struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// WatchSettings は監視モードの設定です
type WatchSettings struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// Settings はアプリケーション全体の設定です
type Settings struct {
	Details   bool          `mapstructure:"details" yaml:"details"`
	OutputDir string        `mapstructure:"output_dir" yaml:"output_dir"`
	Stdout    bool          `mapstructure:"stdout" yaml:"stdout"`
	Clipboard bool          `mapstructure:"clipboard" yaml:"clipboard"`
	PDF       bool          `mapstructure:"pdf" yaml:"pdf"`
	Progress  bool          `mapstructure:"progress" yaml:"progress"`
	LogLevel  string        `mapstructure:"log_level" yaml:"log_level"`
	Serve     ServeSettings `mapstructure:"serve" yaml:"serve"`
	Watch     WatchSettings `mapstructure:"watch" yaml:"watch"`
}

// Defaults はデフォルト設定を返します
func Defaults() Settings {
	return Settings{
		Details:   false,
		OutputDir: DefaultOutputDir(),
		Progress:  true,
		LogLevel:  "info",
		Serve:     ServeSettings{Addr: "127.0.0.1:8080"},
		Watch:     WatchSettings{Debounce: 500 * time.Millisecond},
	}
}

// DefaultOutputDir は実行ファイルのあるディレクトリを返します
func DefaultOutputDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// ConfigDir はユーザー設定ディレクトリを返します
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".config", appDirName)
	}
	return filepath.Join(base, appDirName)
}

// DefaultConfigPath はユーザー設定ファイルのパスを返します
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// SetDefaults は viper にデフォルト値と環境変数の設定を登録します
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyDetails, d.Details)
	v.SetDefault(KeyOutputDir, d.OutputDir)
	v.SetDefault(KeyStdout, d.Stdout)
	v.SetDefault(KeyClipboard, d.Clipboard)
	v.SetDefault(KeyPDF, d.PDF)
	v.SetDefault(KeyProgress, d.Progress)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyServeAddr, d.Serve.Addr)
	v.SetDefault(KeyWatchDebounce, d.Watch.Debounce)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load は設定ファイルを読み込み、Settings を返します。
// cfgFile が空の場合はユーザー設定、次にカレントディレクトリの scanfold.yaml を探します。
// 見つからなければデフォルトとフラグ・環境変数のみを使います
func Load(v *viper.Viper, cfgFile string) (Settings, string, error) {
	path := cfgFile
	if path == "" {
		for _, candidate := range []string{DefaultConfigPath(), localConfigName} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, "", fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, "", fmt.Errorf("failed to decode configuration: %w", err)
	}
	if s.OutputDir == "" {
		s.OutputDir = DefaultOutputDir()
	}
	return s, path, nil
}

// ErrConfigExists は設定ファイルが既に存在する場合のエラーです
var ErrConfigExists = errors.New("config file already exists")

// Save は設定を YAML で書き出します。force が false の場合は既存ファイルを上書きしません
func Save(path string, s Settings, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
