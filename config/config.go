package config

import (
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port   string `mapstructure:"port"`
	AppEnv string `mapstructure:"appEnv"`
}

type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbName"`
	SSLMode         string `mapstructure:"sslMode"`
	MaxOpenConns    int    `mapstructure:"maxOpenConns"`
	MaxIdleConns    int    `mapstructure:"maxIdleConns"`
	ConnMaxLifetime int    `mapstructure:"connMaxLifetime"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

type ShopifyConfig struct {
	ShopDomain  string `mapstructure:"shopDomain"`
	AccessToken string `mapstructure:"accessToken"`
	APIVersion  string `mapstructure:"apiVersion"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Shopify  ShopifyConfig  `mapstructure:"shopify"`
	S3       S3Config       `mapstructure:"s3"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// LoadConfig reads configuration from config.yaml and overrides it with
// environment variables. A missing config file is not an error; environment
// variables alone are enough to run the server.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.appEnv", "APP_ENV")
	viper.BindEnv("postgres.host", "POSTGRES_HOST")
	viper.BindEnv("postgres.port", "POSTGRES_PORT")
	viper.BindEnv("postgres.user", "POSTGRES_USER")
	viper.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	viper.BindEnv("postgres.dbName", "POSTGRES_DBNAME")
	viper.BindEnv("postgres.sslMode", "POSTGRES_SSLMODE")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	viper.BindEnv("shopify.shopDomain", "SHOPIFY_SHOP_DOMAIN")
	viper.BindEnv("shopify.accessToken", "SHOPIFY_ACCESS_TOKEN")
	viper.BindEnv("shopify.apiVersion", "SHOPIFY_API_VERSION")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	viper.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")
	viper.BindEnv("admin.email", "ADMIN_EMAIL")
	viper.BindEnv("admin.password", "ADMIN_PASSWORD")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.appEnv", "development")
	viper.SetDefault("postgres.sslMode", "disable")
	viper.SetDefault("postgres.maxOpenConns", 10)
	viper.SetDefault("postgres.maxIdleConns", 5)
	viper.SetDefault("postgres.connMaxLifetime", 300)
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("shopify.apiVersion", "2024-01")

	err = viper.ReadInConfig()
	if err != nil {
		// Only propagate errors other than "file not found".
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return
}
