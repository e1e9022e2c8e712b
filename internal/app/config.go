package app

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/graphloader/internal/platform/envutil"
	"github.com/yungbote/graphloader/internal/platform/neo4jdb"
)

type ConfigErrorCode string

const (
	ConfigErrorMissingDataDir  ConfigErrorCode = "missing_data_dir"
	ConfigErrorMissingSchema   ConfigErrorCode = "missing_schema"
	ConfigErrorMissingPassword ConfigErrorCode = "missing_password"
	ConfigErrorTooManyArgs     ConfigErrorCode = "too_many_args"
)

type ConfigError struct {
	Code    ConfigErrorCode
	Message string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid config"
	}
	return fmt.Sprintf("invalid config (%s): %s", e.Code, e.Message)
}

type Config struct {
	DataDir       string
	SchemaFiles   []string
	Neo4j         neo4jdb.Config
	LogMode       string
	EnsureIndexes bool
}

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

// ParseConfig reads command-line flags, falling back to the environment for
// connection settings.
func ParseConfig(args []string) (Config, error) {
	fs := flag.NewFlagSet("loader", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Load TSV (TXT) files to Neo4j")
		fmt.Fprintln(fs.Output(), "usage: loader [flags] <data dir> [flags]")
		fs.PrintDefaults()
	}

	var (
		cfg     Config
		schemas stringList
	)
	uri := envutil.String("bolt://localhost:7687", "NEO4J_URI")
	user := envutil.String("neo4j", "NEO4J_USER")
	password := envutil.String("", "NEO4J_PASSWORD", "NEO_PASSWORD")
	database := envutil.String("", "NEO4J_DATABASE")

	fs.StringVar(&uri, "i", uri, "Neo4j uri like bolt://12.34.56.78:7687")
	fs.StringVar(&uri, "uri", uri, "Neo4j uri (same as -i)")
	fs.StringVar(&user, "u", user, "Neo4j user")
	fs.StringVar(&user, "user", user, "Neo4j user (same as -u)")
	fs.StringVar(&password, "p", password, "Neo4j password (default $NEO4J_PASSWORD or $NEO_PASSWORD)")
	fs.StringVar(&password, "password", password, "Neo4j password (same as -p)")
	fs.StringVar(&database, "d", database, "Neo4j database name")
	fs.StringVar(&database, "database", database, "Neo4j database name (same as -d)")
	fs.Var(&schemas, "s", "schema file (repeatable)")
	fs.Var(&schemas, "schema", "schema file (same as -s)")
	fs.BoolVar(&cfg.EnsureIndexes, "ensure-indexes", envutil.Bool("LOADER_ENSURE_INDEXES", false), "create id-field indexes before loading")

	// flag stops at the first positional argument; keep parsing after it so
	// flags may follow the data directory.
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return Config{}, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(positional) > 1 {
		return Config{}, &ConfigError{Code: ConfigErrorTooManyArgs, Message: fmt.Sprintf("expected one data directory, got %d arguments", len(positional))}
	}
	if len(positional) == 1 {
		cfg.DataDir = strings.TrimSpace(positional[0])
	}
	cfg.SchemaFiles = schemas
	cfg.LogMode = envutil.String("development", "LOG_MODE")
	cfg.Neo4j = neo4jdb.Config{
		URI:         strings.TrimSpace(uri),
		User:        strings.TrimSpace(user),
		Password:    password,
		Database:    strings.TrimSpace(database),
		Timeout:     time.Duration(envutil.Int("NEO4J_TIMEOUT_SECONDS", 10)) * time.Second,
		MaxPoolSize: envutil.Int("NEO4J_MAX_POOL_SIZE", 50),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return &ConfigError{Code: ConfigErrorMissingDataDir, Message: "data directory argument is required"}
	}
	if len(c.SchemaFiles) == 0 {
		return &ConfigError{Code: ConfigErrorMissingSchema, Message: "at least one -s schema file is required"}
	}
	if c.Neo4j.Password == "" {
		return &ConfigError{Code: ConfigErrorMissingPassword, Message: "set -p or NEO4J_PASSWORD/NEO_PASSWORD"}
	}
	return nil
}
