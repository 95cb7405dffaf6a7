package enums

import "fmt"

// EmailType classifies transactional emails recorded in email_logs.
type EmailType string

const (
	EmailTypeWelcome           EmailType = "welcome"
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeOrderShipped      EmailType = "order_shipped"
	EmailTypeAdminNotification EmailType = "admin_notification"
)

var validEmailTypes = []EmailType{
	EmailTypeWelcome,
	EmailTypeOrderConfirmation,
	EmailTypeOrderShipped,
	EmailTypeAdminNotification,
}

func (t EmailType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known EmailType.
func (t EmailType) IsValid() bool {
	for _, candidate := range validEmailTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseEmailType converts raw input into an EmailType.
func ParseEmailType(value string) (EmailType, error) {
	for _, candidate := range validEmailTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid email type %q", value)
}

// EmailStatus records the delivery outcome of one send attempt.
type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

func (s EmailStatus) String() string {
	return string(s)
}
