package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Password   PasswordConfig
	OTP        OTPConfig
	SMS        SMSConfig
	Zarinpal   ZarinpalConfig
	Snapp      SnappConfig
	Restaurant RestaurantConfig
	Printer    PrinterConfig
	Features   FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DARCHIN_APP_ENV" required:"true"`
	Port         string `envconfig:"DARCHIN_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"DARCHIN_APP_BASE_URL" default:"http://localhost:5000"`
	LogLevel     string `envconfig:"DARCHIN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DARCHIN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DARCHIN_DB_DSN"`
	Driver string `envconfig:"DARCHIN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DARCHIN_DB_HOST"`
	LegacyPort     int    `envconfig:"DARCHIN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DARCHIN_DB_USER"`
	LegacyPassword string `envconfig:"DARCHIN_DB_PASSWORD"`
	LegacyName     string `envconfig:"DARCHIN_DB_NAME"`
	LegacySSLMode  string `envconfig:"DARCHIN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DARCHIN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DARCHIN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DARCHIN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DARCHIN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DARCHIN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DARCHIN_REDIS_ADDR"`
	Password     string        `envconfig:"DARCHIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"DARCHIN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DARCHIN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DARCHIN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DARCHIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DARCHIN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DARCHIN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DARCHIN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DARCHIN_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DARCHIN_JWT_EXPIRATION_MINUTES" default:"10080"`
}

// TokenTTL returns the access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DARCHIN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DARCHIN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DARCHIN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DARCHIN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DARCHIN_ARGON_KEY_LEN" default:"32"`
}

type OTPConfig struct {
	CodeTTL        time.Duration `envconfig:"DARCHIN_OTP_CODE_TTL" default:"2m"`
	PendingUserTTL time.Duration `envconfig:"DARCHIN_OTP_PENDING_USER_TTL" default:"10m"`
	ResetTokenTTL  time.Duration `envconfig:"DARCHIN_OTP_RESET_TOKEN_TTL" default:"10m"`
}

type SMSConfig struct {
	APIKey  string `envconfig:"DARCHIN_SMS_API_KEY"`
	Sender  string `envconfig:"DARCHIN_SMS_SENDER"`
	BaseURL string `envconfig:"DARCHIN_SMS_BASE_URL" default:"https://api.kavenegar.com"`
}

type ZarinpalConfig struct {
	MerchantID string `envconfig:"DARCHIN_ZARINPAL_MERCHANT_ID"`
	BaseURL    string `envconfig:"DARCHIN_ZARINPAL_BASE_URL" default:"https://sandbox.zarinpal.com"`
}

type SnappConfig struct {
	Token   string `envconfig:"DARCHIN_SNAPP_TOKEN"`
	BaseURL string `envconfig:"DARCHIN_SNAPP_BASE_URL" default:"https://corporate.snapp.site"`
}

// RestaurantConfig carries the pickup origin used for shipping quotes.
type RestaurantConfig struct {
	Lat float64 `envconfig:"DARCHIN_RESTAURANT_LAT" default:"36.31032912288117"`
	Lng float64 `envconfig:"DARCHIN_RESTAURANT_LNG" default:"59.592356277150266"`
}

type PrinterConfig struct {
	Address     string        `envconfig:"DARCHIN_PRINTER_ADDR"`
	DialTimeout time.Duration `envconfig:"DARCHIN_PRINTER_DIAL_TIMEOUT" default:"3s"`
	ReceiptsDir string        `envconfig:"DARCHIN_RECEIPTS_DIR" default:"receipts"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DARCHIN_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
