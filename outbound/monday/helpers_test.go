package monday

import "github.com/spf13/viper"

func newTestViper(values map[string]any) *viper.Viper {
	cfg := viper.New()
	for k, v := range values {
		cfg.Set(k, v)
	}
	return cfg
}
