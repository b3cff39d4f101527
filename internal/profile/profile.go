package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start the main server.
type Profile struct {
	// Mode can be "prod", "dev" or "demo".
	Mode string
	// Addr is the binding address for the server.
	Addr string
	// Port is the binding port for the server.
	Port int
	// Data is the directory for local state (sqlite file, logs).
	Data string
	// Driver is the database driver, "sqlite" or "postgres".
	Driver string
	// DSN is the database source name.
	DSN string
	// JWTSecret signs the access tokens issued at signin.
	JWTSecret string
	// ExtractionWorkers caps concurrent image feature extractions.
	ExtractionWorkers int
	// ExtractionTimeoutSec bounds a single match request's extraction work.
	ExtractionTimeoutSec int
	// Version is the current server version.
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	if p.JWTSecret == "" {
		p.JWTSecret = getEnvOrDefault("SNAPSELL_JWT_SECRET", "")
	}
	p.ExtractionWorkers = getEnvOrDefaultInt("SNAPSELL_EXTRACTION_WORKERS", runtime.NumCPU())
	p.ExtractionTimeoutSec = getEnvOrDefaultInt("SNAPSELL_EXTRACTION_TIMEOUT_SECONDS", 5)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies.
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "snapsell")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					return errors.Wrapf(err, "failed to create data directory %s", p.Data)
				}
			}
		} else {
			p.Data = "/var/opt/snapsell"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver: %s", p.Driver)
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("snapsell_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for the postgres driver")
	}

	if p.Mode == "prod" && p.JWTSecret == "" {
		return errors.New("SNAPSELL_JWT_SECRET is required in prod mode")
	}
	if p.JWTSecret == "" {
		// Fixed development secret so local sessions survive restarts.
		p.JWTSecret = "snapsell-dev-secret"
	}

	if p.ExtractionWorkers <= 0 {
		p.ExtractionWorkers = runtime.NumCPU()
	}
	if p.ExtractionTimeoutSec <= 0 {
		p.ExtractionTimeoutSec = 5
	}

	return nil
}
