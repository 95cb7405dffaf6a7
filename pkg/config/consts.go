package config

const (
	// EnvPrefix is intentionally empty: every field names its variable in full.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FIRMA_DB_DSN"
	EnvDBHost = "FIRMA_DB_HOST"
	EnvDBUser = "FIRMA_DB_USER"
	EnvDBName = "FIRMA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
