package models

import "errors"

var (
	ErrInvalidOutcome      = errors.New("outcome index out of range")
	ErrInvalidOutcomeCount = errors.New("outcome count must be between 2 and 10")
	ErrZeroAmount          = errors.New("amount must be greater than zero")

	ErrTradeTooLarge = errors.New("trade exceeds the configured maximum")

	ErrInsufficientShares     = errors.New("insufficient shares")
	ErrInsufficientCollateral = errors.New("insufficient collateral")
	ErrInsufficientLiquidity  = errors.New("insufficient liquidity in pool")
	ErrSlippageExceeded       = errors.New("slippage tolerance exceeded")

	ErrDomain = errors.New("value outside math function domain")

	ErrMarketNotActive          = errors.New("market is not active")
	ErrMarketNotResolved        = errors.New("market is not resolved")
	ErrResolutionTimeNotReached = errors.New("resolution time not reached")
	ErrAlreadyClaimed           = errors.New("winnings already claimed")
	ErrNothingToClaim           = errors.New("nothing to claim")

	ErrInvalidMarketTitle    = errors.New("invalid market title")
	ErrInvalidResolutionTime = errors.New("resolution time must be in the future")
	ErrInvalidResolver       = errors.New("invalid resolver ID")
	ErrInvalidUserID         = errors.New("invalid user ID")

	ErrNegativeBalance = errors.New("balance cannot be negative")

	ErrRecordNotFound = errors.New("record not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials are not configured")

	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrDuplicateEmail     = errors.New("email is already registered")
)
