package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Email        EmailConfig        `mapstructure:"email"`
	Bus          BusConfig          `mapstructure:"bus"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Commission   CommissionConfig   `mapstructure:"commission"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
	Payout       PayoutConfig       `mapstructure:"payout"`
	Gateway      GatewayConfig      `mapstructure:"gateway"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type BusConfig struct {
	TransactionTopic string `mapstructure:"transaction_topic"`
	MaxWorkers       int    `mapstructure:"max_workers"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// CommissionConfig 平台默认抽成比例（表演者未单独配置时生效）
type CommissionConfig struct {
	MonthlySubscription float64 `mapstructure:"monthly_subscription"`
	YearlySubscription  float64 `mapstructure:"yearly_subscription"`
	Video               float64 `mapstructure:"video"`
	Gallery             float64 `mapstructure:"gallery"`
	Product             float64 `mapstructure:"product"`
	Feed                float64 `mapstructure:"feed"`
	Tip                 float64 `mapstructure:"tip"`
	Stream              float64 `mapstructure:"stream"`
}

type SubscriptionConfig struct {
	MonthlyDays     int `mapstructure:"monthly_days"`
	YearlyDays      int `mapstructure:"yearly_days"`
	DefaultFreeDays int `mapstructure:"default_free_days"`
	// 宽限期（小时），对账任务只回收已过期超过该时长的订阅
	ReconcileGraceHours int `mapstructure:"reconcile_grace_hours"`
}

type PayoutConfig struct {
	// 代币兑换法币比例，仅在发起提现时快照
	TokenConversionRate float64 `mapstructure:"token_conversion_rate"`
	MinRequestTokens    float64 `mapstructure:"min_request_tokens"`
}

// GatewayConfig 支付网关回调的内部鉴权
type GatewayConfig struct {
	CallbackToken string `mapstructure:"callback_token"`
}

func Load(configPath string) (*Config, error) {
	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 环境变量覆盖
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
