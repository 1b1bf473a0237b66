package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin RoleType = "ADMIN"
	RoleUser  RoleType = "USER"
)

// NotApplicable is written into denormalized check-in fields the source registration has no value for
const NotApplicable = "N/A"
