package cache

import "fmt"

// Key prefixes used by cached routes. A new cached resource adds its prefix
// here and to every Mutation that can make it stale.
const (
	PrefixBookings        = "bookings"
	PrefixAvailability    = "availability"
	PrefixClients         = "clients"
	PrefixTreatments      = "treatments"
	PrefixTreatmentIDs    = "treatmentIds"
	PrefixCategories      = "categories"
	PrefixOpeningHours    = "openingHours"
	PrefixStaff           = "staff"
	PrefixAPIKeys         = "apiKeys"
	PrefixFormSubmissions = "formSubmissions"
)

// Mutation names a write that can leave cached responses stale.
type Mutation int

const (
	BookingCreated Mutation = iota
	BookingUpdated
	BookingDeleted
	ClientChanged
	TreatmentChanged
	CategoryChanged
	OpeningHoursChanged
	StaffChanged
	APIKeyChanged
	FormSubmitted

	mutationCount
)

// AllMutations lists every Mutation value.
func AllMutations() []Mutation {
	out := make([]Mutation, 0, mutationCount)
	for m := Mutation(0); m < mutationCount; m++ {
		out = append(out, m)
	}
	return out
}

func (m Mutation) String() string {
	switch m {
	case BookingCreated:
		return "BookingCreated"
	case BookingUpdated:
		return "BookingUpdated"
	case BookingDeleted:
		return "BookingDeleted"
	case ClientChanged:
		return "ClientChanged"
	case TreatmentChanged:
		return "TreatmentChanged"
	case CategoryChanged:
		return "CategoryChanged"
	case OpeningHoursChanged:
		return "OpeningHoursChanged"
	case StaffChanged:
		return "StaffChanged"
	case APIKeyChanged:
		return "APIKeyChanged"
	case FormSubmitted:
		return "FormSubmitted"
	default:
		return fmt.Sprintf("Mutation(%d)", int(m))
	}
}

// Patterns returns the glob patterns a mutation must invalidate.
func Patterns(m Mutation) []string {
	switch m {
	case BookingCreated, BookingUpdated, BookingDeleted:
		return []string{pattern(PrefixBookings), pattern(PrefixAvailability)}
	case ClientChanged:
		return []string{pattern(PrefixClients)}
	case TreatmentChanged:
		return []string{pattern(PrefixTreatments), pattern(PrefixTreatmentIDs), pattern(PrefixAvailability)}
	case CategoryChanged:
		return []string{pattern(PrefixCategories), pattern(PrefixTreatmentIDs)}
	case OpeningHoursChanged:
		return []string{pattern(PrefixOpeningHours), pattern(PrefixAvailability)}
	case StaffChanged:
		return []string{pattern(PrefixStaff)}
	case APIKeyChanged:
		return []string{pattern(PrefixAPIKeys)}
	case FormSubmitted:
		return []string{pattern(PrefixFormSubmissions), pattern(PrefixClients)}
	default:
		return nil
	}
}

func pattern(prefix string) string {
	return prefix + ":*"
}
