package inits

import (
	"fmt"
	"os"
	"recipe-app-api/app/server/config"
	"strconv"
	"strings"
)

func Config() (*config.Config, error) {
	var cfg config.Config

	// 手动配置映射
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":1323" // 默认监听地址
	} else {
		cfg.System.Listen = listen
	}

	if dbconn, exist := os.LookupEnv("DB_CONN"); !exist {
		return nil, fmt.Errorf("DB_CONN environment variable not set")
	} else {
		cfg.System.DBConnectionString = dbconn
	}

	if redisconn, exist := os.LookupEnv("REDIS_CONN"); !exist {
		return nil, fmt.Errorf("REDIS_CONN environment variable not set")
	} else {
		cfg.System.RedisConnectionString = redisconn
	}

	if rateStr, exist := os.LookupEnv("TOKEN_RATE_LIMIT"); !exist {
		cfg.Security.TokenRateLimit = 5 // 默认每秒 5 次
	} else if rate, err := strconv.ParseFloat(rateStr, 64); err != nil || rate < 0 {
		return nil, fmt.Errorf("TOKEN_RATE_LIMIT should be a non-negative number")
	} else {
		cfg.Security.TokenRateLimit = rate
	}

	// 存储
	cfg.Storage.Driver = lookupEnvDefault("STORAGE_DRIVER", "local")
	switch cfg.Storage.Driver {
	case "local":
		cfg.Storage.MediaRoot = lookupEnvDefault("MEDIA_ROOT", "/vol/web/media")
		cfg.Storage.MediaURL = lookupEnvDefault("MEDIA_URL", "/static/media/")
	case "s3":
		if bucket, exist := os.LookupEnv("S3_BUCKET"); !exist {
			return nil, fmt.Errorf("S3_BUCKET environment variable not set")
		} else {
			cfg.Storage.S3Bucket = bucket
		}
		cfg.Storage.S3Region = lookupEnvDefault("S3_REGION", "us-east-1")
		cfg.Storage.S3Endpoint = os.Getenv("S3_ENDPOINT")
		cfg.Storage.S3AccessKey = os.Getenv("S3_ACCESS_KEY")
		cfg.Storage.S3SecretKey = os.Getenv("S3_SECRET_KEY")
		cfg.Storage.S3PublicURL = os.Getenv("S3_PUBLIC_URL")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.Storage.Driver)
	}

	// 初始超级用户（可选），两个变量需要同时设置
	cfg.Bootstrap.SuperuserEmail = os.Getenv("SUPERUSER_EMAIL")
	cfg.Bootstrap.SuperuserPassword = os.Getenv("SUPERUSER_PASSWORD")
	if (cfg.Bootstrap.SuperuserEmail == "") != (cfg.Bootstrap.SuperuserPassword == "") {
		return nil, fmt.Errorf("SUPERUSER_EMAIL and SUPERUSER_PASSWORD must be set together")
	}

	cfg.Telemetry.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	return &cfg, nil
}

func lookupEnvDefault(key string, defaultValue string) string {
	if value, exist := os.LookupEnv(key); exist {
		return value
	}
	return defaultValue
}
