package config

const (
	EnvPrefix = "DARCHIN"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv = "DARCHIN_APP_ENV"
	EnvPort   = "DARCHIN_APP_PORT"

	EnvDBDSN  = "DARCHIN_DB_DSN"
	EnvDBHost = "DARCHIN_DB_HOST"
	EnvDBUser = "DARCHIN_DB_USER"
	EnvDBName = "DARCHIN_DB_NAME"

	EnvRedisURL   = "DARCHIN_REDIS_URL"
	EnvJWTSecret  = "DARCHIN_JWT_SECRET"
	EnvJWTIssuer  = "DARCHIN_JWT_ISSUER"
	EnvJWTExpMins = "DARCHIN_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
