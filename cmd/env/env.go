package env

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

const (
	// Prefix is the prefix of every kpremium environment variable.
	// ff joins it to the flag name with an underscore (KPREMIUM_LISTEN)
	Prefix = "KPREMIUM"

	// DBURLSuffix is the suffix of the PostgreSQL connection string variable
	DBURLSuffix = "DB_URL"
)

// Var returns the prefixed name of an environment variable
func Var(suffix string) string {
	return Prefix + "_" + suffix
}

// LoadDotEnv loads the given .env files (./.env when none are given) into
// the process environment. Variables already set are never overridden,
// and a missing file is not an error
func LoadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("unable to load .env file: %w", err)
	}

	return nil
}
