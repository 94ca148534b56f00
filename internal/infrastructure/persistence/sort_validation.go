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

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// PositionSortFields contains allowed sort fields for stock positions
var PositionSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"item_code":          true,
	"item_name":          true,
	"uom":                true,
	"on_hand_quantity":   true,
	"reserved_quantity":  true,
	"available_quantity": true,
	"average_unit_cost":  true,
	"total_value":        true,
	"reorder_level":      true,
	"stock_status":       true,
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"movement_type":    true,
	"reference_number": true,
	"from_location":    true,
	"to_location":      true,
	"movement_date":    true,
	"total_value":      true,
}

// MovementItemSortFields contains allowed sort fields for movement item lines
var MovementItemSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"item_code":        true,
	"actual_quantity":  true,
	"planned_quantity": true,
	"line_value":       true,
}

// DrumSortFields contains allowed sort fields for cable drums
var DrumSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"drum_number":         true,
	"cable_type":          true,
	"item_code":           true,
	"original_length":     true,
	"current_length":      true,
	"used_length":         true,
	"last_meter_reading":  true,
	"installation_status": true,
	"location":            true,
}

// DrumUsageSortFields contains allowed sort fields for drum usage history
var DrumUsageSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"recorded_at": true,
	"used_length": true,
	"pole_number": true,
}

// BOQSortFields contains allowed sort fields for BOQs
var BOQSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"title":            true,
	"boq_version":      true,
	"status":           true,
	"mapping_status":   true,
	"file_name":        true,
	"total_items":      true,
	"mapped_items":     true,
	"exceptions_count": true,
	"total_value":      true,
}

// RFQSortFields contains allowed sort fields for RFQs
var RFQSortFields = map[string]bool{
	"id":                    true,
	"created_at":            true,
	"updated_at":            true,
	"rfq_number":            true,
	"title":                 true,
	"status":                true,
	"response_deadline":     true,
	"total_budget_estimate": true,
	"issued_at":             true,
	"closed_at":             true,
}

// AuditSortFields contains allowed sort fields for audit records
var AuditSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"action":      true,
	"resource":    true,
	"resource_id": true,
	"actor_id":    true,
}
