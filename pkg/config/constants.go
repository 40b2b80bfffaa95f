package config

const (
	EnvPrefix = "RECIPEBOOK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvDBDSN  = "RECIPEBOOK_DB_DSN"
	EnvDBHost = "RECIPEBOOK_DB_HOST"
	EnvDBUser = "RECIPEBOOK_DB_USER"
	EnvDBName = "RECIPEBOOK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
