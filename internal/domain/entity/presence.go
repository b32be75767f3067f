package entity

import "time"

// PresenceState is the visibility state of a checked-in user at a venue.
type PresenceState string

const (
	// PresenceInactive means no live session; the user must rescan to come back.
	PresenceInactive PresenceState = "inactive"
	// PresenceActive means the user is presumed present and visible.
	PresenceActive PresenceState = "active"
	// PresencePaused means the user is hidden while the re-entry grace period runs.
	PresencePaused PresenceState = "paused"
)

// String returns the string representation of the PresenceState.
func (s PresenceState) String() string {
	return string(s)
}

// StateTransition is one entry of a session's transition history.
type StateTransition struct {
	From      PresenceState `json:"from"`
	To        PresenceState `json:"to"`
	Timestamp time.Time     `json:"timestamp"`
	Reason    string        `json:"reason"`
}

// PresenceSession tracks one user at one venue. ProfileVisible always equals State == active.
type PresenceSession struct {
	VenueID                 string            `json:"venue_id"`
	UserID                  string            `json:"user_id"`
	EventID                 string            `json:"event_id"`
	State                   PresenceState     `json:"state"`
	ProfileVisible          bool              `json:"profile_visible"`
	JoinedAt                time.Time         `json:"joined_at"`
	LastPingAt              time.Time         `json:"last_ping_at"` // Zero until the first ping.
	LastInsideAt            time.Time         `json:"last_inside_at"`
	TimeInVenueSeconds      int64             `json:"time_in_venue_seconds"`
	ConsecutiveOutsidePings int               `json:"consecutive_outside_pings"`
	PausedAt                *time.Time        `json:"paused_at,omitempty"`
	History                 []StateTransition `json:"history"`
	UpdatedAt               time.Time         `json:"updated_at"`
}

// NewPresenceSession opens an active session right after a verified entry.
func NewPresenceSession(venueID, userID, eventID string, now time.Time) *PresenceSession {
	return &PresenceSession{
		VenueID:        venueID,
		UserID:         userID,
		EventID:        eventID,
		State:          PresenceActive,
		ProfileVisible: true,
		JoinedAt:       now,
		LastInsideAt:   now,
		History: []StateTransition{
			{From: PresenceInactive, To: PresenceActive, Timestamp: now, Reason: "entry_verified"},
		},
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (s *PresenceSession) Clone() *PresenceSession {
	cloned := *s
	if s.PausedAt != nil {
		pausedAt := *s.PausedAt
		cloned.PausedAt = &pausedAt
	}
	cloned.History = append([]StateTransition(nil), s.History...)

	return &cloned
}

// TransitionTo moves the session to a new state, keeps visibility in lock-step
// and appends a history entry bounded to maxHistory.
func (s *PresenceSession) TransitionTo(to PresenceState, reason string, now time.Time, maxHistory int) {
	s.History = append(s.History, StateTransition{From: s.State, To: to, Timestamp: now, Reason: reason})
	if maxHistory > 0 && len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}
	s.State = to
	s.ProfileVisible = to == PresenceActive
}
