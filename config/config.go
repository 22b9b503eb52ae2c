package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ZillowAPIKey   string
	RentcastAPIKey string

	CacheDir          string
	CacheTTLDays      int
	MaxBatchSize      int
	RequestTimeoutSec int

	// Per-bedroom rent premiums, applied when a rent figure for a
	// neighbouring bedroom count substitutes for a missing one.
	// Premium-market ZIPs carry the larger premium.
	BedroomPremiumStandard float64
	BedroomPremiumPremium  float64

	// PremiumLeniency scales the minimum cash-on-cash threshold for
	// premium-market ZIPs (0.5 = half the configured minimum).
	PremiumLeniency float64

	// SampleDataOnly skips live resolution entirely and generates synthetic
	// listings for every ZIP (debug mode). SampleFallback substitutes
	// synthetic listings only for ZIPs whose live resolution came up empty.
	SampleDataOnly bool
	SampleFallback bool

	ZipCodes       []string
	CSVOutputPath  string
	XLSXOutputPath string
	Port           string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ZillowAPIKey:   getEnv("ZILLOW_API_KEY", ""),
		RentcastAPIKey: getEnv("RENTCAST_API_KEY", ""),

		CacheDir:          getEnv("CACHE_DIR", "./cache"),
		CacheTTLDays:      getEnvInt("CACHE_TTL_DAYS", 30),
		MaxBatchSize:      getEnvInt("MAX_BATCH_SIZE", 300),
		RequestTimeoutSec: getEnvInt("REQUEST_TIMEOUT_SEC", 30),

		BedroomPremiumStandard: getEnvFloat("BEDROOM_PREMIUM_STANDARD", 200),
		BedroomPremiumPremium:  getEnvFloat("BEDROOM_PREMIUM_PREMIUM", 500),
		PremiumLeniency:        getEnvFloat("PREMIUM_LENIENCY", 0.5),

		SampleDataOnly: getEnvBool("SAMPLE_DATA_ONLY", false),
		SampleFallback: getEnvBool("SAMPLE_FALLBACK", true),

		ZipCodes:       SplitZips(getEnv("ZIP_CODES", "")),
		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/rental_properties.csv"),
		XLSXOutputPath: getEnv("XLSX_OUTPUT_PATH", "./output/rental_properties.xlsx"),
		Port:           getEnv("PORT", "8080"),
	}
}

// SplitZips parses a comma- or newline-separated ZIP code list, trimming
// whitespace and dropping empty entries.
func SplitZips(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	zips := make([]string, 0, len(fields))
	for _, f := range fields {
		if z := strings.TrimSpace(f); z != "" {
			zips = append(zips, z)
		}
	}
	return zips
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1"
	}
	return fallback
}
