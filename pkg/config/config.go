// Package config gets default settings from the environment. A .env
// file in the working directory is read first. Values already in the
// environment win over the file, and command line flags win over both.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Radius   float64  // Angstrom, for programs that need a distance search
	Workers  int      // ensemble members classified at once
	LogFile  string   // "" for no log, "stdout", "stderr" or a file name
	LogLevel string   // debug, info or error
	Programs []string          // prediction programs to look for
	PredDirs map[string]string // program name to the directory of its output
}

// dirPrefix starts the variables naming a program's output directory,
// as in POCKETPROB_DIR_LIGSITE=/data/ligsite.
const dirPrefix = "POCKETPROB_DIR_"

// Load reads the named .env files, or .env if none are given, then
// the environment. A missing default .env is not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return &Config{
		Radius:   getEnvFloat("POCKETPROB_RADIUS", 4.0),
		Workers:  getEnvInt("POCKETPROB_WORKERS", 1),
		LogFile:  getEnv("POCKETPROB_LOG", ""),
		LogLevel: getEnv("POCKETPROB_LOG_LEVEL", "info"),
		Programs: strings.Split(getEnv("POCKETPROB_PROGRAM", "fpocket"), ","),
		PredDirs: getEnvDirs(),
	}, nil
}

// getEnvDirs collects the POCKETPROB_DIR_ variables. The program name
// is lower cased. It is nil if there are none.
func getEnvDirs() map[string]string {
	var dirs map[string]string
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		name, ok := strings.CutPrefix(key, dirPrefix)
		if !ok || name == "" || value == "" {
			continue
		}
		if dirs == nil {
			dirs = make(map[string]string)
		}
		dirs[strings.ToLower(name)] = value
	}
	return dirs
}

func (c *Config) Validate() error {
	if c.Radius <= 0 || math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) {
		return fmt.Errorf("radius must be positive, got %g", c.Radius)
	}
	if c.Workers < 1 {
		return fmt.Errorf("need at least one worker, got %d", c.Workers)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
