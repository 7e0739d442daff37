package constants

import "time"

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyUserEmail = "user_email"
	ContextKeyRequestID = "request_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Users
const (
	MinPasswordLength = 6
	DefaultTokenTTL   = 24 * time.Hour
)

// Events
const (
	DefaultEventCapacity = 100
	DefaultEventLocation = "Local não especificado"
)

// Files
const (
	MaxUploadSize   = 10 << 20
	UploadFormField = "arquivo"
)

// Headers
const (
	HeaderRequestID = "X-Request-ID"
)
