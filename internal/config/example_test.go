package config_test

import (
	"context"
	"fmt"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/config"
)

func ExampleParser_ParseString() {
	cfg, err := config.NewParser(nil).ParseString(context.Background(), `
		getbrowser = {
			mode = "development",
			cache = { backend = "memory", ttl = 600 },
		}
	`)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cfg.Mode, cfg.Cache.Backend, cfg.CacheTTL(), cfg.CachingEnabled())
	// Output: development memory 10m0s true
}
