package flags

import (
	"github.com/spf13/pflag"

	"github.com/Kavantix/ticketflow/internal/config"
	"github.com/Kavantix/ticketflow/internal/storage"
)

type Context struct {
	flagSet *pflag.FlagSet

	configPath     *string
	backend        *string
	dbPath         *string
	redisAddr      *string
	namespace      *string
	logFile        *string
	remigrateCount *int
	debug          *bool
}

func New(args []string) (*Context, error) {
	flagSet := pflag.NewFlagSet("ticketflow", pflag.ContinueOnError)
	defaults := config.Default()
	c := Context{
		flagSet:        flagSet,
		configPath:     flagSet.String("config", "", "path to a YAML config file"),
		backend:        flagSet.String("backend", string(defaults.Storage.Backend), "storage backend: sqlite, redis or memory"),
		dbPath:         flagSet.String("db", defaults.Storage.Path, "sqlite database file"),
		redisAddr:      flagSet.String("redis-addr", defaults.Storage.RedisAddr, "redis address when using the redis backend"),
		namespace:      flagSet.String("namespace", defaults.Storage.Namespace, "key the ticket collection is stored under"),
		logFile:        flagSet.String("log-file", defaults.Log.File, "file debug output is written to"),
		remigrateCount: flagSet.Int("remigrate", 0, "the amount of migrations to down before running up migrations"),
		debug:          flagSet.Bool("debug", false, "turns on debug logging"),
	}
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Context) ConfigPath() string {
	return *c.configPath
}

func (c *Context) RemigrateCount() int {
	return max(0, *c.remigrateCount)
}

func (c *Context) Debug() bool {
	return *c.debug
}

// Apply overrides cfg with every flag given explicitly on the command line.
// Flags left at their default keep the config file value.
func (c *Context) Apply(cfg *config.Config) {
	if c.flagSet.Changed("backend") {
		cfg.Storage.Backend = storage.Backend(*c.backend)
	}
	if c.flagSet.Changed("db") {
		cfg.Storage.Path = *c.dbPath
	}
	if c.flagSet.Changed("redis-addr") {
		cfg.Storage.RedisAddr = *c.redisAddr
	}
	if c.flagSet.Changed("namespace") {
		cfg.Storage.Namespace = *c.namespace
	}
	if c.flagSet.Changed("log-file") {
		cfg.Log.File = *c.logFile
	}
	if c.flagSet.Changed("debug") {
		cfg.Log.Debug = *c.debug
	}
}
