package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common"
	tokenconfig "github.com/forge-network/token-ledger/modules/token/config"
	"github.com/forge-network/token-ledger/pkg/logger"
	"github.com/forge-network/token-ledger/pkg/logger/slogx"
	"github.com/forge-network/token-ledger/pkg/middleware/requestcontext"
	"github.com/forge-network/token-ledger/pkg/middleware/requestlogger"
	"github.com/forge-network/token-ledger/pkg/verifier"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		Network: common.NetworkMainnet,
		HTTPServer: HTTPServer{
			Port: 8080,
		},
	}
)

type Config struct {
	Logger        logger.Config   `mapstructure:"logger"`
	Network       common.Network  `mapstructure:"network"`
	EnableModules []string        `mapstructure:"enable_modules"`
	APIOnly       bool            `mapstructure:"api_only"`
	HTTPServer    HTTPServer      `mapstructure:"http_server"`
	Deployer      Deployer        `mapstructure:"deployer"`
	Verifier      verifier.Config `mapstructure:"verifier"`
	Modules       Modules         `mapstructure:"modules"`
}

type HTTPServer struct {
	Port      int                               `mapstructure:"port"`
	Logger    requestlogger.Config              `mapstructure:"logger"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"request_ip"`
}

// Deployer holds the inputs of the deploy command. The private key and the
// per-network endpoints are read from environment variables, never from the
// config file.
type Deployer struct {
	PrivateKey      string `mapstructure:"private_key"`
	MainnetEndpoint string `mapstructure:"mainnet_rpc_url"`
	TestnetEndpoint string `mapstructure:"testnet_rpc_url"`
	BroadcastDir    string `mapstructure:"broadcast_dir"`
}

// Endpoint returns the node endpoint URL of the given network profile.
func (d Deployer) Endpoint(network common.Network) string {
	switch network {
	case common.NetworkTestnet:
		return d.TestnetEndpoint
	default:
		return d.MainnetEndpoint
	}
}

type Modules struct {
	Token tokenconfig.Config `mapstructure:"token"`
}

// BindPFlag binds a specific flag to a configuration key
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("failed to bind flag to configuration", slogx.String("key", key), slogx.Error(err))
	}
}

// Parse loads the configuration from the given file (or ./config.yaml if
// empty) and environment variables.
func Parse(configFile string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))
	configOnce.Do(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.AddConfigPath("./")
			viper.SetConfigName("config")
		}

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		// well-known environment variable names used by deploy/verify
		for key, envs := range map[string][]string{
			"deployer.private_key":     {"PRIVATE_KEY"},
			"deployer.mainnet_rpc_url": {"MAINNET_RPC_URL"},
			"deployer.testnet_rpc_url": {"TESTNET_RPC_URL"},
			"verifier.endpoint":        {"VERIFIER_URL"},
			"verifier.api_key":         {"VERIFIER_API_KEY"},
		} {
			if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
				logger.PanicContext(ctx, "failed to bind environment variable", slogx.String("key", key), slogx.Error(err))
			}
		}

		if err := viper.ReadInConfig(); err != nil {
			var errNotfound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotfound) {
				logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
			}
		}

		if err := viper.Unmarshal(&config); err != nil {
			logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
		}
	})

	return *config
}

// Load returns the parsed configuration.
func Load() Config {
	return Parse("")
}
