package env

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file for one of the dataset tools. ENV_PATH
// overrides the tool's default .env location. Outside local mode a missing
// file is fine since settings come from the process environment directly.
func LoadDotEnv(env string, defaultPath string) error {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		slog.Info("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	if err := godotenv.Load(envPath); err != nil {
		if env == "local" || env == "" {
			slog.Error("failed to load .env in local mode", "path", envPath, "error", err)
			return err
		}
		slog.Debug("no .env file, relying on process environment", "path", envPath)
	}

	return nil
}
