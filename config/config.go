// Package config provides the configuration of the fin command.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/finance"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvFile       = "FIN_FILE"
	EnvArchive    = "FIN_ARCHIVE"
	EnvCurrency   = "FIN_CURRENCY"
	EnvCategories = "FIN_CATEGORIES"
	EnvVerbose    = "FIN_VERBOSE"
)

// Config represents the application configuration.
type Config struct {
	// File is the path of the snapshot document.
	File string
	// Archive is the path of the snapshot archive database.
	Archive string
	// Currency is the ISO code used to display amounts.
	Currency string
	// Categories is an optional YAML file with the categories of a new book.
	Categories string
	Verbose    bool
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	verbose, err := parseBoolEnv(EnvVerbose, false)
	if err != nil {
		return nil, err
	}

	return &Config{
		File:       getEnvOrDefault(EnvFile, "finance.json"),
		Archive:    getEnvOrDefault(EnvArchive, ".finance.db"),
		Currency:   strings.ToUpper(getEnvOrDefault(EnvCurrency, "USD")),
		Categories: os.Getenv(EnvCategories),
		Verbose:    verbose,
	}, nil
}

// categoriesFile is the layout of the categories YAML file.
type categoriesFile struct {
	Income  []string `yaml:"income"`
	Expense []string `yaml:"expense"`
}

// NewBook returns the book to start with when there is no snapshot yet. It
// uses the categories file if one is configured, and the defaults otherwise.
// A list missing from the file keeps its defaults.
func (c *Config) NewBook() (finance.Book, error) {
	book := finance.NewBook()
	if c.Categories == "" {
		return book, nil
	}
	data, err := os.ReadFile(c.Categories)
	if err != nil {
		return book, fmt.Errorf("failed to read categories file: %w", err)
	}
	var f categoriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return book, fmt.Errorf("failed to parse YAML in %q: %w", c.Categories, err)
	}
	if f.Income != nil {
		book.Categories.Income = nil
	}
	if f.Expense != nil {
		book.Categories.Expense = nil
	}
	for _, name := range f.Income {
		if book, err = book.AddCategory(finance.Income, name); err != nil {
			return finance.NewBook(), fmt.Errorf("categories file %q: %w", c.Categories, err)
		}
	}
	for _, name := range f.Expense {
		if book, err = book.AddCategory(finance.Expense, name); err != nil {
			return finance.NewBook(), fmt.Errorf("categories file %q: %w", c.Categories, err)
		}
	}
	return book, nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseBoolEnv parses a bool from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}
	return parsed, nil
}
