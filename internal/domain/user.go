package domain

import "time"

// Tier is a user's subscription level.
type Tier string

const (
	TierFree     Tier = "free"
	TierPro      Tier = "pro"
	TierBusiness Tier = "business"
)

// TierLimits describes what a subscription tier allows. MaxTwins of -1
// means unlimited.
type TierLimits struct {
	Tier     Tier
	MaxTwins int
	Features []string
}

// TierTable holds the limits for every known tier.
var TierTable = map[Tier]TierLimits{
	TierFree: {
		Tier:     TierFree,
		MaxTwins: 1,
		Features: []string{"basic_memory", "web_chat"},
	},
	TierPro: {
		Tier:     TierPro,
		MaxTwins: 3,
		Features: []string{"advanced_memory", "api_access", "email_support", "analytics"},
	},
	TierBusiness: {
		Tier:     TierBusiness,
		MaxTwins: 10,
		Features: []string{"priority_api", "custom_integrations", "priority_support", "team_collaboration"},
	},
}

// ValidTier reports whether t names a known subscription tier.
func ValidTier(t Tier) bool {
	_, ok := TierTable[t]
	return ok
}

// User represents a registered account of the platform.
type User struct {
	ID           string
	Email        string
	Name         string
	Tier         Tier
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
