package errors

import "errors"

// Custom application errors
var (
	ErrValidation        = errors.New("invalid reminder input")               // Missing or malformed input (ValidationError)
	ErrUnauthorized      = errors.New("unauthorized")                         // Missing or invalid credentials (AuthError)
	ErrReminderNotFound  = errors.New("reminder not found")                   // Reminder not found
	ErrInvalidDateTime   = errors.New("scheduledAt must be a future time")    // Past or zero schedule time
	ErrDatabaseOperation = errors.New("database operation failed")            // Generic database error (StoreError)
	ErrDispatch          = errors.New("reminder delivery failed")             // Delivery channel failure (DispatchError)
	ErrContactNotFound   = errors.New("contact not found")                    // User never registered delivery addresses
	ErrNoRecipient       = errors.New("no recipient address for the channel") // User has no address for a channel
	ErrLinkCodeInvalid   = errors.New("link code is unknown or expired")      // LINE link code cannot be redeemed
	ErrScheduling        = errors.New("scheduling failed")                    // Generic scheduling error
)
