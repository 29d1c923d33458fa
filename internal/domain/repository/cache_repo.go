package repository

import (
	"time"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
	Delete(key string) error
	// DeleteByPattern удаляет все ключи по шаблону (например, "summary:creator:*")
	DeleteByPattern(pattern string) error
}
