package config

import (
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cipher   CipherConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Addr         string
	CookieSecret string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type CipherConfig struct {
	// Shift is the default cipher shift, valid range [1,25]. Invalid
	// or unparsable values silently fall back to DefaultShift.
	Shift int
	// Layered selects the layered cipher tier instead of the plain
	// shift cipher.
	Layered bool
}

type AuthConfig struct {
	BcryptCost     int
	MinPasswordLen int
}

// DefaultShift is used whenever the configured shift is out of range.
const DefaultShift = 7

func Load() (config Config, err error) {
	viper.SetConfigName("cloakchat")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config, err
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.cookiesecret", "change-me-in-production")
	viper.SetDefault("server.readtimeout", 10*time.Second)
	viper.SetDefault("server.writetimeout", 10*time.Second)
	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.dsn", "cloakchat.db")
	viper.SetDefault("cipher.shift", DefaultShift)
	viper.SetDefault("cipher.layered", false)
	viper.SetDefault("auth.bcryptcost", bcrypt.DefaultCost)
	viper.SetDefault("auth.minpasswordlen", 6)

	err = viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	// GetInt yields 0 for unparsable input, which the range check
	// below turns into the default. Env overrides are read here
	// because Unmarshal does not see AutomaticEnv values.
	shift := viper.GetInt("cipher.shift")
	if shift < 1 || shift > 25 {
		shift = DefaultShift
	}
	config.Cipher.Shift = shift

	return config, nil
}
