package models

import "time"

// Subscription plans. The plan controls the monthly message quota.
const (
	PlanFree    = "free"
	PlanClassic = "classic"
	PlanPro     = "pro"
)

// PlanMessageLimits maps each plan to its message quota.
var PlanMessageLimits = map[string]int{
	PlanFree:    10,
	PlanClassic: 100,
	PlanPro:     1000,
}

// ValidPlan reports whether p is a known subscription plan.
func ValidPlan(p string) bool {
	_, ok := PlanMessageLimits[p]
	return ok
}

// User represents a user account. The document ID in the users collection
// is the Firebase Auth UID.
type User struct {
	UID              string     `json:"uid"`
	Email            string     `json:"email"`
	DisplayName      string     `json:"displayName,omitempty"`
	Plan             string     `json:"plan"`
	IsAdmin          bool       `json:"isAdmin"`
	IsBanned         bool       `json:"isBanned"`
	MessagesUsed     int        `json:"messagesUsed"`
	MessagesLimit    int        `json:"messagesLimit"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
	LastMessageReset *time.Time `json:"lastMessageReset,omitempty"`
	BannedAt         *time.Time `json:"bannedAt,omitempty"`
	BannedBy         string     `json:"bannedBy,omitempty"`
	BanReason        string     `json:"banReason,omitempty"`
}

// UserFromDoc decodes a users-collection document. Missing fields fall back
// to the documented defaults: plan "free", messagesLimit derived from the
// plan, flags false.
func UserFromDoc(uid string, data map[string]interface{}) *User {
	u := &User{
		UID:         uid,
		Email:       docString(data, "email"),
		DisplayName: docString(data, "displayName"),
		Plan:        docString(data, "plan"),
		BannedBy:    docString(data, "bannedBy"),
		BanReason:   docString(data, "banReason"),
	}
	if u.Plan == "" {
		u.Plan = PlanFree
	}
	u.IsAdmin, _ = docBool(data, "isAdmin")
	u.IsBanned, _ = docBool(data, "isBanned")
	u.MessagesUsed, _ = docInt(data, "messagesUsed")
	if limit, ok := docInt(data, "messagesLimit"); ok {
		u.MessagesLimit = limit
	} else {
		u.MessagesLimit = PlanMessageLimits[u.Plan]
	}
	u.CreatedAt = docTime(data, "createdAt")
	u.LastMessageReset = docTime(data, "lastMessageReset")
	u.BannedAt = docTime(data, "bannedAt")
	return u
}
