package config

// Config contains all configuration grouped by domain
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Worker    WorkerConfig
	Logging   LoggingConfig
	Upload    UploadConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

// All config structs use string fields only - packages handle conversion during initialization
type ServerConfig struct {
	Port         string `env:"SERVER_PORT"`
	Environment  string `env:"SERVER_ENV"`
	ReadTimeout  string `env:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `env:"SERVER_WRITE_TIMEOUT"`
	AllowOrigins string `env:"SERVER_ALLOW_ORIGINS"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	DBName   string `env:"DB_NAME"`
	SSLMode  string `env:"DB_SSLMODE"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       string `env:"REDIS_DB"`
}

type JWTConfig struct {
	Secret     string `env:"JWT_SECRET"`
	Expiration string `env:"JWT_EXPIRATION"`
}

type WorkerConfig struct {
	UploadSweepInterval  string `env:"WORKER_UPLOAD_SWEEP_INTERVAL"`
	UploadGracePeriod    string `env:"WORKER_UPLOAD_GRACE_PERIOD"`
	RatingRecalcInterval string `env:"WORKER_RATING_RECALC_INTERVAL"`
}

type LoggingConfig struct {
	Level       string `env:"LOG_LEVEL"`
	Format      string `env:"LOG_FORMAT"`
	ServiceName string `env:"SERVICE_NAME"`
}

type UploadConfig struct {
	Dir         string `env:"UPLOAD_DIR"`
	MaxFileSize string `env:"UPLOAD_MAX_FILE_SIZE"`
}

type CacheConfig struct {
	Enabled string `env:"CACHE_ENABLED"`
	TTL     string `env:"CACHE_TTL"`
	Prefix  string `env:"CACHE_PREFIX"`
}

type RateLimitConfig struct {
	RequestsPerSecond string `env:"RATE_LIMIT_RPS"`
	Burst             string `env:"RATE_LIMIT_BURST"`
	ClientTTL         string `env:"RATE_LIMIT_CLIENT_TTL"`
}

type AdminConfig struct {
	Name     string `env:"ADMIN_NAME"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}
