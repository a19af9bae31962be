package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Debug    bool
		TestMode bool
		AppName  string
		Build    string

		SecretKey        []byte
		DefaultFromEmail mail.Address
		ReportRecipients []string
		SendgridApiKey   string
		RollbarToken     string

		Server     ServerConfig
		SchoolAPI  SchoolAPIConfig
		Attendance AttendanceConfig
	}

	ServerConfig struct {
		Host                      string
		Addr                      string
		DebugAddr                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	// SchoolAPIConfig points at the upstream school service that owns the
	// roster and all attendance event persistence.
	SchoolAPIConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	AttendanceConfig struct {
		// LateThreshold is a wall-clock "HH:MM" cutoff; entries after it are late.
		LateThreshold string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Mahudhurio")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w3+u$b0q(t-4%yfz#!p_8n&c5@vj2^ehxm9k*d6r1lgas7io0")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("reportRecipients", "")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugAddr", ":4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("schoolApiBaseUrl", "http://localhost:9000")
	v.SetDefault("schoolApiTimeout", 10*time.Second)
	v.SetDefault("lateThreshold", "08:30")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		SecretKey:        []byte(v.GetString("secretKey")),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Addr:                      v.GetString("serverAddr"),
			DebugAddr:                 v.GetString("serverDebugAddr"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		SchoolAPI: SchoolAPIConfig{
			BaseURL: v.GetString("schoolApiBaseUrl"),
			Timeout: v.GetDuration("schoolApiTimeout"),
		},
		Attendance: AttendanceConfig{
			LateThreshold: v.GetString("lateThreshold"),
		},
	}
	if recipients := v.GetString("reportRecipients"); recipients != "" {
		for _, addr := range strings.Split(recipients, ",") {
			if addr = CleanString(addr, true /* lower */); addr != "" {
				conf.ReportRecipients = append(conf.ReportRecipients, addr)
			}
		}
	}
	return conf
}
