package redis

import "fmt"

const keyPrefix = "cutthroat"

// playerKey returns the Redis key for a player record, keyed by name
func playerKey(name string) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, name)
}
