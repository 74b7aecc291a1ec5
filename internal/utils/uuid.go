package utils

import "github.com/google/uuid"

// UUIDGenerator produces operation ids. Version 7 ids sort by creation time,
// which keeps the persisted snapshot readable; ordering never depends on it.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
