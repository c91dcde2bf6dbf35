package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
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
	"email":         true,
	"nickname":      true,
	"role":          true,
	"grade":         true,
	"status":        true,
	"last_login_at": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"status":         true,
	"total_amount":   true,
	"payment_status": true,
	"cancelled_at":   true,
	"refunded_at":    true,
}

// ChatRoomSortFields contains allowed sort fields for chat rooms
var ChatRoomSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"type":          true,
	"last_activity": true,
}

// ChatMessageSortFields contains allowed sort fields for chat messages
var ChatMessageSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"type":       true,
}

// ReviewSortFields contains allowed sort fields for reviews
var ReviewSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"rating":     true,
	"is_best":    true,
	"reported":   true,
}

// CSPostSortFields contains allowed sort fields for CS posts
var CSPostSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"type":       true,
	"status":     true,
	"title":      true,
}

// FAQSortFields contains allowed sort fields for FAQs
var FAQSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"category":   true,
	"sort_order": true,
	"published":  true,
}

// NoticeSortFields contains allowed sort fields for notices
var NoticeSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"title":        true,
	"is_important": true,
	"view_count":   true,
}

// PresetMessageSortFields contains allowed sort fields for preset messages
var PresetMessageSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"category":   true,
	"title":      true,
}

// WorkSortFields contains allowed sort fields for work assignments
var WorkSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"title":        true,
	"status":       true,
	"due_date":     true,
	"completed_at": true,
}

// NotificationSortFields contains allowed sort fields for notifications
var NotificationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"type":       true,
	"is_read":    true,
	"read_at":    true,
}

// EventLogSortFields contains allowed sort fields for analytics events
var EventLogSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"type":       true,
	"path":       true,
}
