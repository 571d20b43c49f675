package config

type Config struct {
	System struct {
		IsProd                bool   // 是否为生产环境
		Listen                string // 监听地址
		DBConnectionString    string // Postgres 数据库的连接字符串
		RedisConnectionString string // Redis 数据库的连接字符串（URL 格式）
	}
	Security struct {
		TokenRateLimit float64 // 登录（换取 token ）接口每个 IP 每秒允许的请求数， 0 表示不限制
	}
	Storage struct {
		Driver    string // 图片存储方式： local 或 s3
		MediaRoot string // local 模式下的存储目录
		MediaURL  string // local 模式下对外访问的路径前缀

		S3Bucket    string
		S3Region    string
		S3Endpoint  string // 自定义端点（例如 MinIO ），为空时使用 AWS 默认端点
		S3AccessKey string
		S3SecretKey string
		S3PublicURL string // 对外访问的 URL 前缀，为空时由 bucket 和 region 推算
	}
	Bootstrap struct {
		SuperuserEmail    string // 启动时若不存在则创建的超级用户
		SuperuserPassword string
	}
	Telemetry struct {
		OTLPEndpoint string // OTLP HTTP 导出端点，为空时不启用链路追踪
	}
}
