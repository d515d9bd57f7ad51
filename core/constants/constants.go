package constants

import "time"

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Timeouts
const (
	DefaultTimeout     = 15 * time.Second
	GoogleAPITimeout   = 30 * time.Second
	ShutdownTimeout    = 10 * time.Second
	SyncLockTTL        = 10 * time.Minute
	OAuthStateLifetime = 10 * time.Minute
)

// JWT token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Token lifetimes
const (
	AccessTokenLifetime  = 1 * time.Hour
	RefreshTokenLifetime = 30 * 24 * time.Hour
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist = "token_blacklist:"
	RedisKeyLoginAttempt   = "login_attempt:"
	RedisKeyCalendarSync   = "calendar_sync_lock:"
	MaxLoginAttempts       = 5
	BlockDuration          = 15 * time.Minute
)

// API key format: crm_<id>_<secret>
const (
	APIKeyPrefix    = "crm"
	APIKeyIDLen     = 12
	APIKeySecretLen = 32
)

// Calendar sync window for full syncs
const (
	SyncWindowPastDays   = 30
	SyncWindowFutureDays = 90
	SyncPageSize         = 250
)
