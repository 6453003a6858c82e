package cache

import (
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix = "profile:%d"
	CategoriesKey    = "categories:all"
)

const (
	ProfileTTL    = 2 * time.Minute
	CategoriesTTL = 10 * time.Minute
)

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}
