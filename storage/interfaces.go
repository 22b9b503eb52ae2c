package storage

import "rental-analyzer/models"

// ResultWriter is the interface any export backend must satisfy.
type ResultWriter interface {
	Write(results []models.Result) error
	Close() error
}
