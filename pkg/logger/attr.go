package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// SessionState records the coordinator state under the key "state".
func SessionState(state string) slog.Attr {
	return slog.String("state", state)
}

// Origin records how a session was established under the key "origin".
func Origin(origin string) slog.Attr {
	return slog.String("origin", origin)
}

// Tier records a persistence tier name under the key "tier".
func Tier(tier string) slog.Attr {
	return slog.String("tier", tier)
}

// Provider records a federated provider identifier under the key "provider".
func Provider(id string) slog.Attr {
	return slog.String("provider", id)
}

// Route records a navigation target under the key "route".
func Route(route string) slog.Attr {
	return slog.String("route", route)
}
