package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Catalog struct {
		DataFile      string   `mapstructure:"data_file"`
		ImageDir      string   `mapstructure:"image_dir"`
		Manufacturers []string `mapstructure:"manufacturers"`
	} `mapstructure:"catalog"`

	Sheet struct {
		OrgName        string `mapstructure:"org_name"`
		ThumbnailPx    int    `mapstructure:"thumbnail_px"`
		JPEGQuality    int    `mapstructure:"jpeg_quality"`
		CurrencyPrefix string `mapstructure:"currency_prefix"`
	} `mapstructure:"sheet"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	// env vars (APP_*) override file values
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("catalog.data_file", "banco_produtos.csv")
	v.SetDefault("catalog.image_dir", "static")
	v.SetDefault("sheet.org_name", "Fantini Representações")
	v.SetDefault("sheet.thumbnail_px", 96)
	v.SetDefault("sheet.jpeg_quality", 82)
	v.SetDefault("sheet.currency_prefix", "R$")

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
