// Package conversation defines the canonical conversation shapes shared by
// the response pipeline and the lead qualifier.
package conversation

import (
	"strings"
	"time"
)

// Roles for a conversation turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Turn is one recorded message. Immutable once appended.
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Context is the ordered history of a chat session, oldest first. The engine
// only reads it; the caller owns it and appends between turns.
type Context []Turn

// UserMessages returns the visitor side of the conversation, oldest first,
// with blank entries dropped.
func (c Context) UserMessages() []string {
	msgs := make([]string, 0, len(c))
	for _, t := range c {
		if t.Role != RoleUser {
			continue
		}
		if s := strings.TrimSpace(t.Text); s != "" {
			msgs = append(msgs, s)
		}
	}
	return msgs
}

// Flatten joins every message, user and assistant alike, into one lowercase
// corpus for rule-based scanning.
func (c Context) Flatten() string {
	parts := make([]string, 0, len(c))
	for _, t := range c {
		if s := strings.TrimSpace(t.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// MessageCount returns the number of non-empty messages across all roles,
// the basis for qualification confidence.
func (c Context) MessageCount() int {
	n := 0
	for _, t := range c {
		if strings.TrimSpace(t.Text) != "" {
			n++
		}
	}
	return n
}

// Normalize converts the ad hoc history shapes accepted at the API boundary
// into canonical turns. Supported inputs per element:
//
//	map with "role"/"text" keys (already canonical)
//	map with "user"/"bot" keys, expanded into up to two turns
//	map with "sender"/"content" keys (sender "user" or "visitor" maps to the
//	user role, anything else to assistant)
//	a plain string, treated as a user message
//
// Unrecognized elements are dropped rather than rejected.
func Normalize(raw []interface{}) Context {
	ctx := make(Context, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				ctx = append(ctx, Turn{Role: RoleUser, Text: v})
			}
		case map[string]interface{}:
			ctx = append(ctx, normalizeMap(v)...)
		case Turn:
			ctx = append(ctx, v)
		}
	}
	return ctx
}

func normalizeMap(m map[string]interface{}) []Turn {
	if role, ok := stringField(m, "role"); ok {
		if text, ok := stringField(m, "text"); ok && text != "" {
			return []Turn{{Role: canonicalRole(role), Text: text}}
		}
		return nil
	}

	user, hasUser := stringField(m, "user")
	bot, hasBot := stringField(m, "bot")
	if hasUser || hasBot {
		var turns []Turn
		if user != "" {
			turns = append(turns, Turn{Role: RoleUser, Text: user})
		}
		if bot != "" {
			turns = append(turns, Turn{Role: RoleAssistant, Text: bot})
		}
		return turns
	}

	sender, hasSender := stringField(m, "sender")
	content, hasContent := stringField(m, "content")
	if !hasContent {
		content, hasContent = stringField(m, "message")
	}
	if hasSender && hasContent && content != "" {
		switch strings.ToLower(sender) {
		case "user", "visitor":
			return []Turn{{Role: RoleUser, Text: content}}
		default:
			return []Turn{{Role: RoleAssistant, Text: content}}
		}
	}

	return nil
}

func canonicalRole(role string) string {
	switch strings.ToLower(role) {
	case RoleUser, "visitor":
		return RoleUser
	case RoleSystem:
		return RoleSystem
	default:
		return RoleAssistant
	}
}

func stringField(m map[string]interface{}, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}
