// Package env contains utilities to manage environemnt variables
package env

import (
	"os"
	"strconv"
	"time"
)

// Simple helper function to read an environment variable or return a default value
func GetEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// Simple helper function to read an environment variable into an integer or return a default value
func GetEnvAsInt(key string, defaultVal int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

// Simple helper function to read an environment variable as a duration (e.g. "5s") or return a default value
func GetEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valueStr := GetEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultVal
}

// Simple helper function to read an environment variable as a bool or return a default value
func GetEnvAsBool(key string, defaultVal bool) bool {
	valueStr := GetEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultVal
}
