package helper

import (
	"fmt"

	"event_hub/model"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// GenerateUniqueEventSlug slugifies the title and suffixes a counter
// until the slug is free.
func GenerateUniqueEventSlug(tx *gorm.DB, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "event"
	}

	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Model(&model.Event{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
