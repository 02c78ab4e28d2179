package utils

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppEnv  string `yaml:"APP_ENV"`
	AppPort string `yaml:"APP_PORT"`
	AppURL  string `yaml:"APP_URL"`
	DataDir string `yaml:"DATA_DIR"`

	// Requests per second per client, 0 disables the limiter.
	RateLimitPerSecond int `yaml:"RATE_LIMIT_PER_SECOND"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret     string `yaml:"JWT_SECRET"`
	JWTTTLMinutes int    `yaml:"JWT_TTL_MINUTES"`

	// Redis cache
	RedisHost       string `yaml:"REDIS_HOST"`
	RedisPort       string `yaml:"REDIS_PORT"`
	RedisPassword   string `yaml:"REDIS_PASSWORD"`
	RedisDB         int    `yaml:"REDIS_DB"`
	CacheTTLSeconds int    `yaml:"CACHE_TTL_SECONDS"`

	// Media storage
	MediaRoot    string `yaml:"MEDIA_ROOT"`
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Set for S3 compatible stores such as MinIO or Garage.
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT"`
}

var config Config

// LoadConfig reads config.yaml and an optional .env file. Values found in the
// process environment take precedence over the YAML file.
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error reading .env file: %s\n", err)
	}

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

func GetConfig(key string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}

	switch key {
	case "APP_ENV":
		return defaultString(config.AppEnv, "development")
	case "APP_PORT":
		return defaultString(config.AppPort, "8080")
	case "APP_URL":
		return config.AppURL
	case "DATA_DIR":
		return defaultString(config.DataDir, "data")
	case "RATE_LIMIT_PER_SECOND":
		return defaultInt(config.RateLimitPerSecond, 10)
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "JWT_TTL_MINUTES":
		return defaultInt(config.JWTTTLMinutes, 60*24)
	case "REDIS_HOST":
		return config.RedisHost
	case "REDIS_PORT":
		return defaultString(config.RedisPort, "6379")
	case "REDIS_PASSWORD":
		return config.RedisPassword
	case "REDIS_DB":
		return strconv.Itoa(config.RedisDB)
	case "CACHE_TTL_SECONDS":
		return defaultInt(config.CacheTTLSeconds, 300)
	case "MEDIA_ROOT":
		return defaultString(config.MediaRoot, "media")
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	default:
		return ""
	}
}

// GetConfigInt returns the integer value of key or def when it is unset or
// not a number.
func GetConfigInt(key string, def int) int {
	v, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return def
	}
	return v
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) string {
	if v == 0 {
		return strconv.Itoa(def)
	}
	return strconv.Itoa(v)
}
