package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Env         string
	DatabaseURL string
	ElasticURL  string
	Port        string

	// ETL 同步参数
	LoadLimit int           // 单次轮询的最大行数
	EtlRate   time.Duration // 两次同步周期之间的间隔
	StateFile string        // 水位状态文件路径
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "movies")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	esHost := getEnv("ES_HOST", "localhost")
	esPort := getEnv("ES_PORT", "9200")
	esURL := fmt.Sprintf("http://%s:%s", esHost, esPort)

	loadLimit, _ := strconv.Atoi(getEnv("ETL_LOAD_LIMIT", "100"))
	if loadLimit <= 0 {
		loadLimit = 100
	}
	rateSeconds, _ := strconv.Atoi(getEnv("ETL_RATE_SECONDS", "5"))
	if rateSeconds <= 0 {
		rateSeconds = 5
	}

	return &Config{
		Env:         getEnv("APP_ENV", "development"),
		DatabaseURL: dbURL,
		ElasticURL:  esURL,
		Port:        getEnv("PORT", "5008"),
		LoadLimit:   loadLimit,
		EtlRate:     time.Duration(rateSeconds) * time.Second,
		StateFile:   getEnv("ETL_STATE_FILE", "state.json"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
