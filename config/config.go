package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
)

type pricing struct {
	Currency string `mapstructure:"currency"`
	Locale   string `mapstructure:"locale"`
}

// shipping rates are decimal strings. Zone keys come lowercased.
type shipping struct {
	BaseRate        string            `mapstructure:"base_rate"`
	WeightRate      string            `mapstructure:"weight_rate"`
	ZoneMultipliers map[string]string `mapstructure:"zone_multipliers"`
}

type topics struct {
	Orders              string `mapstructure:"orders"`
	FilterProductStream string `mapstructure:"filter_product_stream"`
}

type consumers struct {
	ProductBlockerGroup string `mapstructure:"product_blocker_group"`
}

type brokerTLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

func (t brokerTLS) Enabled() bool {
	return t.CA != "" || t.Cert != "" || t.Key != ""
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
	TLS                brokerTLS `mapstructure:"tls"`
	User               string    `mapstructure:"user"`
	Pass               string    `mapstructure:"pass"`
}

// Enabled reports whether Kafka backed features should be started.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	SQLDB          string     `mapstructure:"sql_db"`
	Pricing        pricing    `mapstructure:"pricing"`
	Shipping       shipping   `mapstructure:"shipping"`
	Broker         broker     `mapstructure:"broker"`
}

func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads the YAML file at path on top of the defaults.
// STOREFRONT_* environment variables override file values.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("sql_db", "")
	v.SetDefault("pricing.currency", "GBP")
	v.SetDefault("pricing.locale", "en-GB")
	v.SetDefault("shipping.base_rate", "3.99")
	v.SetDefault("shipping.weight_rate", "0.50")
	v.SetDefault("shipping.zone_multipliers", map[string]string{})
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.orders", "orders")
	v.SetDefault("broker.topics.filter_product_stream", "product-filter-stream")
	v.SetDefault("broker.consumers.product_blocker_group", "product-blocker")
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")
	v.SetDefault("broker.user", "")
	v.SetDefault("broker.pass", "")
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	SQLDB=%q

	Pricing:
	Currency=%q
	Locale=%q

	Shipping:
	BaseRate=%q
	WeightRate=%q
	ZoneMultipliers=%v

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	SASL=%t
	Topics:
		Orders=%q
		FilterProductStream=%q
	Consumers:
		ProductBlockerGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		redactDSN(c.SQLDB),
		c.Pricing.Currency,
		c.Pricing.Locale,
		c.Shipping.BaseRate,
		c.Shipping.WeightRate,
		c.Shipping.ZoneMultipliers,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.User != "",
		c.Broker.Topics.Orders,
		c.Broker.Topics.FilterProductStream,
		c.Broker.Consumers.ProductBlockerGroup,
	)
}

// redactDSN hides the password of a postgres url.
func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, hasPass := strings.Cut(creds, ":")
	if !hasPass {
		return dsn
	}
	return scheme + "://" + user + ":***@" + host
}
