package redis

import "github.com/Abdurahmanit/GroupProject/storefront-service/internal/app/config"

func configFor(addr string) config.RedisConfig {
	return config.RedisConfig{Addr: addr}
}
