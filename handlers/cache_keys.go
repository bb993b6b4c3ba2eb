package handlers

import (
	"salonbook/middleware"
	"salonbook/services/cache"

	"github.com/gin-gonic/gin"
)

// Cache keys always carry the tenant so one salon never reads another's
// cached response.

func BookingsListKey(c *gin.Context) string {
	return cache.BuildKey(cache.PrefixBookings, pageKeyParams(c, middleware.OrganisationID(c)))
}

func BookingKey(c *gin.Context) string {
	return cache.BuildKey(cache.PrefixBookings, map[string]string{"org": middleware.OrganisationID(c), "id": c.Param("id")})
}

func AvailabilityKey(c *gin.Context) string {
	return cache.BuildKey(cache.PrefixAvailability, map[string]string{
		"org":         middleware.OrganisationID(c),
		"treatmentId": c.Query("treatmentId"),
		"date":        c.Query("date"),
	})
}

func ClientsListKey(c *gin.Context) string {
	return cache.BuildKey(cache.PrefixClients, pageKeyParams(c, middleware.OrganisationID(c)))
}

func ClientKey(c *gin.Context) string {
	return cache.BuildKey(cache.PrefixClients, map[string]string{"org": middleware.OrganisationID(c), "id": c.Param("id")})
}

func TreatmentsKey(c *gin.Context) string {
	return cache.BuildKey(cache.PrefixTreatments, map[string]string{"org": middleware.OrganisationID(c)})
}

func TreatmentIDsKey(c *gin.Context) string {
	return cache.BuildKey(cache.PrefixTreatmentIDs, map[string]string{
		"org":      middleware.OrganisationID(c),
		"category": c.Param("categoryId"),
	})
}

func CategoriesKey(c *gin.Context) string {
	return cache.BuildKey(cache.PrefixCategories, map[string]string{"org": middleware.OrganisationID(c)})
}

func CategoryKey(c *gin.Context) string {
	return cache.BuildKey(cache.PrefixCategories, map[string]string{"org": middleware.OrganisationID(c), "id": c.Param("id")})
}

func OpeningHoursKey(c *gin.Context) string {
	return cache.BuildKey(cache.PrefixOpeningHours, map[string]string{"org": middleware.OrganisationID(c)})
}

func StaffKey(c *gin.Context) string {
	return cache.BuildKey(cache.PrefixStaff, map[string]string{"org": middleware.OrganisationID(c)})
}

func FormSubmissionsKey(c *gin.Context) string {
	return cache.BuildKey(cache.PrefixFormSubmissions, pageKeyParams(c, middleware.OrganisationID(c)))
}
