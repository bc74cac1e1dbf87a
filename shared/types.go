package shared

type ServerConfig struct {
	Sqlite  SqliteConfig  `mapstructure:"sqlite" validate:"required"`
	Rolodex RolodexConfig `mapstructure:"rolodex" validate:"required"`
	Google  GoogleConfig  `mapstructure:"google"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase" validate:"required"`
}

type RolodexConfig struct {
	// PrivateKeyPem signs urls & form keys. It may be empty in dev mode,
	// in which case an ephemeral key is generated on boot.
	PrivateKeyPem string          `mapstructure:"privateKeyPem"`
	Cron          CronConfig      `mapstructure:"cron" validate:"required"`
	Listener      ListenerConfig  `mapstructure:"listener" validate:"required"`
	Session       SessionConfig   `mapstructure:"session"`
	SignedURL     SignedURLConfig `mapstructure:"signedUrl"`
}

type GoogleConfig struct {
	ApplicationCredentials string        `mapstructure:"applicationCredentials"`
	Storage                StorageConfig `mapstructure:"storage"`
}

type CronConfig struct {
	TimeZone string `mapstructure:"timeZone" validate:"required"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

type SessionConfig struct {
	Keys   []string `mapstructure:"keys"`
	MaxAge int      `mapstructure:"maxAge" validate:"min=0"`
	Secure bool     `mapstructure:"secure"`
}

type SignedURLConfig struct {
	// 0 means signatures never expire
	LifespanInSeconds int `mapstructure:"lifespanInSeconds" validate:"min=0"`
}

type StorageConfig struct {
	Bucket                    string `mapstructure:"bucket" validate:"required_with=EnableSqliteBackupAndSync"`
	Prefix                    string `mapstructure:"prefix" validate:"required_with=EnableSqliteBackupAndSync"`
	SqliteBackupSchedule      string `mapstructure:"sqliteBackupSchedule" validate:"required_with=EnableSqliteBackupAndSync"`
	EnableSqliteBackupAndSync bool   `mapstructure:"enableSqliteBackupAndSync"`
}
