package config // package config loads application configuration from environment variables

import (
    "fmt"     // fmt builds the aggregated missing-variable error
    "os"      // os provides access to environment variables
    "strings" // strings joins missing keys
    "time"    // durations for session, poster and timeout settings

    "github.com/joho/godotenv" // optional .env file support
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
    Env              string        // application environment (e.g. "dev", "prod")
    Port             string        // HTTP port to listen on
    DBDriver         string        // "mysql" (default) or "sqlite" for local development
    DBPath           string        // sqlite file path when DBDriver is sqlite
    DBUser           string        // database username
    DBPass           string        // database password (optional)
    DBHost           string        // database host address
    DBPort           string        // database port number
    DBName           string        // database name
    DBBootstrap      bool          // create tables on startup when missing
    SessionSecret    string        // secret used to sign session cookies
    SessionTTL       time.Duration // lifetime of a login session
    SessionStore     string        // "redis" or "sql"
    BcryptCost       int           // bcrypt cost for password hashing
    EnforceOwnership bool          // require a matching session to edit/delete owned entries
    LogLevel         string        // logrus level name
    Poster           PosterConfig  // poster provider settings
    AMQPURL          string        // broker for movie activity events (empty disables publishing)
    ActivityConsumer bool          // run the activity log consumer in-process
    ActivityLogPath  string        // file the consumer appends to
}

// PosterConfig carries the third-party metadata API settings.
type PosterConfig struct {
    APIKey       string        // v3 key or v4 read access token
    BaseURL      string        // search API root
    ImageBaseURL string        // prefix joined with poster_path
    FallbackURL  string        // placeholder returned on every failure path
    TTL          time.Duration // cache lifetime of a resolved URL
    Timeout      time.Duration // bound on a single upstream call
}

// Secure reports whether cookies must carry the Secure flag.
func (c Config) Secure() bool {
    return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}

// Load reads configuration values from the environment (after applying an
// optional .env file) and returns a Config. Required variables that are
// missing are reported together in a single error.
func Load() (Config, error) {
    _ = godotenv.Load() // a missing .env file is not an error

    l := &loader{}
    cfg := Config{
        Env:              envStr("APP_ENV", "dev"),
        Port:             envStr("APP_PORT", "3000"),
        DBDriver:         strings.ToLower(envStr("DB_DRIVER", "mysql")),
        DBPath:           envStr("DB_PATH", "movielog.db"),
        DBPass:           os.Getenv("DB_PASS"), // empty allowed
        DBBootstrap:      envBool("DB_BOOTSTRAP", false),
        SessionSecret:    l.must("SESSION_SECRET"),
        SessionTTL:       envDur("SESSION_TTL", 24*time.Hour),
        SessionStore:     strings.ToLower(envStr("SESSION_STORE", "redis")),
        BcryptCost:       envInt("BCRYPT_COST", 10),
        EnforceOwnership: envBool("ENFORCE_OWNERSHIP", false),
        LogLevel:         envStr("LOG_LEVEL", "info"),
        Poster: PosterConfig{
            APIKey:       os.Getenv("TMDB_API_KEY"),
            BaseURL:      envStr("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
            ImageBaseURL: envStr("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),
            FallbackURL:  envStr("POSTER_FALLBACK_URL", "https://placehold.co/300x450?text=No+Poster"),
            TTL:          envDur("POSTER_TTL", 7*24*time.Hour),
            Timeout:      envDur("POSTER_TIMEOUT", 5*time.Second),
        },
        AMQPURL:          envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
        ActivityConsumer: envBool("ACTIVITY_CONSUMER", false),
        ActivityLogPath:  envStr("ACTIVITY_LOG_PATH", "logs/activity.log"),
    }
    // MySQL connection settings are only required when MySQL is the driver.
    if cfg.DBDriver != "sqlite" {
        cfg.DBUser = l.must("DB_USER")
        cfg.DBHost = l.must("DB_HOST")
        cfg.DBPort = envStr("DB_PORT", "3306")
        cfg.DBName = l.must("DB_NAME")
    }
    if err := l.err(); err != nil {
        return Config{}, err
    }
    return cfg, nil
}

// loader collects the names of required variables that are unset.
type loader struct {
    missing []string
}

// must retrieves the value of a required environment variable and records
// the key when it is unset or empty.
func (l *loader) must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        l.missing = append(l.missing, key)
    }
    return v
}

func (l *loader) err() error {
    if len(l.missing) == 0 {
        return nil
    }
    return fmt.Errorf("missing required env vars: %s", strings.Join(l.missing, ", "))
}
