package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Seed     SeedConfig     `yaml:"seed"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`

	// SlowQueryThreshold is the duration above which a statement is logged
	// at WARN. Zero disables slow-query logging.
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold" env:"DATABASE_SLOW_QUERY_THRESHOLD" env-default:"200ms"`
	// MigrateOnStart applies pending goose migrations when the app starts.
	MigrateOnStart bool `yaml:"migrate_on_start" env:"DATABASE_MIGRATE_ON_START" env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SeedConfig controls the fake data generator used by cmd/seeder.
type SeedConfig struct {
	Users         int   `yaml:"users"           env:"SEED_USERS"           env-default:"10"`
	DreamsPerUser int   `yaml:"dreams_per_user" env:"SEED_DREAMS_PER_USER" env-default:"5"`
	LotsPerUser   int   `yaml:"lots_per_user"   env:"SEED_LOTS_PER_USER"   env-default:"2"`
	Categories    int   `yaml:"categories"      env:"SEED_CATEGORIES"      env-default:"6"`
	Tags          int   `yaml:"tags"            env:"SEED_TAGS"            env-default:"20"`
	RandomSeed    int64 `yaml:"random_seed"     env:"SEED_RANDOM_SEED"     env-default:"0"`
}
