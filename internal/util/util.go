package util

import (
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// GenUUID generates a new UUID string.
func GenUUID() string {
	return uuid.New().String()
}

// GenUID generates a short, URL-safe unique identifier for entities.
func GenUID() string {
	return shortuuid.New()
}
