package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default), TEST, QA, PROD
		Build    string
		AppName  string

		// BaseURL is the canonical origin of the app; QR payloads embed it.
		BaseURL string

		// SecretKey verifies session tokens minted by the identity provider.
		SecretKey string

		InstructorSearchLimit int

		Server struct {
			Host            string
			Port            int
			ShutdownTimeout time.Duration
		}

		Database struct {
			Engine        string
			Name          string
			User          string
			Password      string
			AdminUser     string
			AdminPassword string
			Host          string
			Port          int
			DisableTLS    bool
		}

		Auth struct {
			URL     string
			APIKey  string
			Timeout time.Duration
		}

		RollbarToken string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Flightcheck")
	v.SetDefault("build", "develop")
	v.SetDefault("baseUrl", "http://localhost:8000")
	v.SetDefault("secretKey", "0y$z#ep-wq3(2!dunused-dev-only-secret)x7m&f5")
	v.SetDefault("searchLimit", 30)
	v.SetDefault("serverHost", "0.0.0.0")
	v.SetDefault("serverPort", 8000)
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "flightcheck")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", 5432)
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("authUrl", "http://localhost:9999")
	v.SetDefault("authTimeout", 10*time.Second)

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:                 v.GetBool("debug"),
		TestMode:              v.GetBool("testMode"),
		Env:                   env,
		Build:                 v.GetString("build"),
		AppName:               v.GetString("appName"),
		BaseURL:               strings.TrimRight(v.GetString("baseUrl"), "/"),
		SecretKey:             v.GetString("secretKey"),
		InstructorSearchLimit: v.GetInt("searchLimit"),
		RollbarToken:          v.GetString("rollbarToken"),
	}
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.Port = v.GetInt("serverPort")
	conf.Server.ShutdownTimeout = v.GetDuration("shutdownTimeout")
	conf.Database.Engine = v.GetString("dbEngine")
	conf.Database.Name = v.GetString("dbName")
	conf.Database.User = v.GetString("dbUser")
	conf.Database.Password = v.GetString("dbPassword")
	conf.Database.AdminUser = v.GetString("dbAdminUser")
	conf.Database.AdminPassword = v.GetString("dbAdminPassword")
	conf.Database.Host = v.GetString("dbHost")
	conf.Database.Port = v.GetInt("dbPort")
	conf.Database.DisableTLS = v.GetBool("dbDisableTLS")
	conf.Auth.URL = strings.TrimRight(v.GetString("authUrl"), "/")
	conf.Auth.APIKey = v.GetString("authApiKey")
	conf.Auth.Timeout = v.GetDuration("authTimeout")
	return conf
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func (c *Config) DatabaseAddress() string {
	return net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port))
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run during tests;
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			// fall back to the original working directory
			return wd
		}
		currDir = newDir
	}
}
