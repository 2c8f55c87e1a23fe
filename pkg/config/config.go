// Package config loads the service configuration from an optional file,
// environment variables prefixed with SLASK and defaults.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matst80/slask-facets/pkg/common"
	"github.com/matst80/slask-facets/pkg/types"
	"github.com/spf13/viper"
)

// AllLocations is the location id meaning no location narrowing.
const AllLocations = "all_products"

type Location struct {
	Id   string `mapstructure:"id" json:"id"`
	Name string `mapstructure:"name" json:"name"`
}

// Locations are the location choices offered to the user.
type Locations []Location

// Has reports whether id is one of the location choices.
func (l Locations) Has(id string) bool {
	return slices.ContainsFunc(l, func(loc Location) bool {
		return loc.Id == id
	})
}

type RedisConfig struct {
	Url      string        `mapstructure:"url"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type RabbitConfig struct {
	Url string `mapstructure:"url"`
}

type Config struct {
	Listen       string               `mapstructure:"listen"`
	DebugListen  string               `mapstructure:"debug_listen"`
	ApiBaseUrl   string               `mapstructure:"api_base_url"`
	Collection   string               `mapstructure:"collection"`
	FetchTimeout time.Duration        `mapstructure:"fetch_timeout"`
	SessionTTL   time.Duration        `mapstructure:"session_ttl"`
	Country      string               `mapstructure:"country"`
	Priority     []string             `mapstructure:"priority"`
	Locations    Locations            `mapstructure:"locations"`
	Redis        RedisConfig          `mapstructure:"redis"`
	Rabbit       RabbitConfig         `mapstructure:"rabbit"`
	Timeouts     common.TimeoutConfig `mapstructure:"timeouts"`
}

var DefaultLocations = Locations{
	{Id: AllLocations, Name: "All Locations"},
	{Id: "gid://shopify/Location/68360798375", Name: "Cricmax New Jersey"},
	{Id: "gid://shopify/Location/70232211623", Name: "Cumming ATL GA (PICKUP ONLY)"},
	{Id: "gid://shopify/Location/76107481255", Name: "Online Only Warehouse"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":8080")
	v.SetDefault("debug_listen", ":8081")
	v.SetDefault("api_base_url", "https://staging.fanzaty.net/api/cso/collection")
	v.SetDefault("fetch_timeout", 10*time.Second)
	v.SetDefault("session_ttl", 30*time.Minute)
	v.SetDefault("collection", "")
	v.SetDefault("country", "us")
	v.SetDefault("priority", []string{"size", "weight", "vendor", "productType", "location"})
	// keys must be known to viper for env overrides to reach Unmarshal
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("rabbit.url", "")
	v.SetDefault("timeouts.read_header", 5*time.Second)
	v.SetDefault("timeouts.read", 15*time.Second)
	v.SetDefault("timeouts.write", 30*time.Second)
	v.SetDefault("timeouts.idle", 60*time.Second)
	v.SetDefault("timeouts.shutdown", 15*time.Second)
	v.SetDefault("timeouts.hook", 5*time.Second)
}

// New builds a viper instance with defaults and env bindings. When path is
// set the file is read as well.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SLASK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Locations) == 0 {
		cfg.Locations = DefaultLocations
	}
	return &cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	if c.ApiBaseUrl == "" {
		errs = append(errs, errors.New("api_base_url is required"))
	}
	if _, err := c.PriorityOrder(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// PriorityOrder parses the configured facet order.
func (c *Config) PriorityOrder() (types.PriorityOrder, error) {
	if len(c.Priority) == 0 {
		return types.DefaultPriorityOrder, nil
	}
	order := make(types.PriorityOrder, 0, len(c.Priority))
	seen := map[types.FacetName]bool{}
	for _, name := range c.Priority {
		f, err := types.ParseFacetName(name)
		if err != nil {
			return nil, fmt.Errorf("priority: %w", err)
		}
		if seen[f] {
			return nil, fmt.Errorf("priority: duplicate facet %q", name)
		}
		seen[f] = true
		order = append(order, f)
	}
	return order, nil
}
