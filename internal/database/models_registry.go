package database

import "webblogger/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.BookmarkedPost{},
	}
}
