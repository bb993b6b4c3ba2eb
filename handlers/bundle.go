package handlers

import (
	"salonbook/middleware"
	"salonbook/services/cache"
)

// CacheStore is the cache surface handlers use: response caching on reads
// and invalidation after writes. *cache.Cache satisfies it.
type CacheStore interface {
	middleware.ResponseStore
	Invalidate(m cache.Mutation)
}

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Cache CacheStore

	Bookings        *BookingHandler
	Clients         *ClientHandler
	Treatments      *TreatmentHandler
	Categories      *CategoryHandler
	Business        *BusinessHandler
	Staff           *StaffHandler
	FormSubmissions *FormSubmissionHandler
	APIKeys         *APIKeyHandler
	Health          *HealthHandler
}
