package persistence

import "strings"

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to
// DESC for anything else.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks the sort field against a whitelist of allowed
// fields, falling back to defaultField when the input is empty or unknown.
// Sort fields end up interpolated into ORDER BY clauses, so they must never
// pass through unvalidated.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"first_name":    true,
	"last_name":     true,
	"role":          true,
	"active":        true,
	"last_login_at": true,
}

// AgencySortFields contains allowed sort fields for agencies
var AgencySortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"name":                true,
	"email":               true,
	"active":              true,
	"license_valid_until": true,
}

// LeadSortFields contains allowed sort fields for leads
var LeadSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"status":      true,
	"first_name":  true,
	"last_name":   true,
	"assigned_at": true,
	"closed_at":   true,
}

// PropertySortFields contains allowed sort fields for properties
var PropertySortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"address":       true,
	"city":          true,
	"province":      true,
	"property_type": true,
	"status":        true,
	"price":         true,
}

// ListingSortFields contains allowed sort fields for listings
var ListingSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"city":       true,
	"province":   true,
	"status":     true,
	"price":      true,
	"view_count": true,
	"bedrooms":   true,
}

// CommissionSortFields contains allowed sort fields for commissions
var CommissionSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"status":       true,
	"total_amount": true,
	"approved_at":  true,
	"paid_at":      true,
}

// PostSortFields contains allowed sort fields for blog posts
var PostSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"title":        true,
	"slug":         true,
	"status":       true,
	"view_count":   true,
	"published_at": true,
}

// ContactMessageSortFields contains allowed sort fields for contact messages
var ContactMessageSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"email":       true,
	"resolved_at": true,
}

// UpdateSortFields contains allowed sort fields for lead updates
var UpdateSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"delivery":   true,
}
