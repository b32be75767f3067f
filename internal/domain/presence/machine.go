// Package presence implements the per-session presence state machine driven by location pings.
//
// The machine is pure: it receives the stored session, the evaluated ping and the clock,
// and returns the next session. Persistence and venue lookups stay with the caller.
package presence

import (
	"fmt"
	"math"
	"time"

	"venuegate/internal/domain/entity"
	"venuegate/internal/util"
)

// Transition and ping reasons.
const (
	ReasonVenueClosed    = "venue_closed"
	ReasonTooFrequent    = "too_frequent"
	ReasonReactivated    = "reactivated"
	ReasonRescanRequired = "rescan_required"
	ReasonInside         = "inside"
	ReasonOutside        = "outside"
	ReasonLeftGeofence   = "left_geofence"
	ReasonReturnedInside = "returned_inside"
	ReasonGraceResume    = "grace_resume"
	ReasonGraceExpired   = "grace_expired"
	ReasonAwaitingReturn = "awaiting_return"
)

// Baseline ping intervals per state.
const (
	inactiveInterval = 300 * time.Second
	activeInterval   = 60 * time.Second
	pausedInterval   = 120 * time.Second

	farDistanceMeters    = 200.0
	farDistanceFactor    = 1.5
	poorAccuracyMeters   = 100.0
	poorAccuracyFactor   = 1.2
	tooFrequentIntervalX = 2
)

// Rules are the tunables of the state machine.
type Rules struct {
	MinPingSpacing      time.Duration
	OutsidePingsToPause int
	GracePeriod         time.Duration
	GraceResumeDistance float64 // Meters from the venue within which a paused user resumes during grace.
	ReactivationWindow  time.Duration
	MaxAccrualGap       time.Duration // Cap on time credited between two pings.
	HistorySize         int
}

// DefaultRules returns the stock protocol values.
func DefaultRules() Rules {
	return Rules{
		MinPingSpacing:      60 * time.Second,
		OutsidePingsToPause: 3,
		GracePeriod:         10 * time.Minute,
		GraceResumeDistance: 100,
		ReactivationWindow:  30 * time.Minute,
		MaxAccrualGap:       5 * time.Minute,
		HistorySize:         10,
	}
}

// Merge returns the defaults with every non-zero field of overrides applied.
func (r Rules) Merge(overrides Rules) Rules {
	if overrides.MinPingSpacing > 0 {
		r.MinPingSpacing = overrides.MinPingSpacing
	}
	if overrides.OutsidePingsToPause > 0 {
		r.OutsidePingsToPause = overrides.OutsidePingsToPause
	}
	if overrides.GracePeriod > 0 {
		r.GracePeriod = overrides.GracePeriod
	}
	if overrides.GraceResumeDistance > 0 {
		r.GraceResumeDistance = overrides.GraceResumeDistance
	}
	if overrides.ReactivationWindow > 0 {
		r.ReactivationWindow = overrides.ReactivationWindow
	}
	if overrides.MaxAccrualGap > 0 {
		r.MaxAccrualGap = overrides.MaxAccrualGap
	}
	if overrides.HistorySize > 0 {
		r.HistorySize = overrides.HistorySize
	}

	return r
}

// Ping is a location ping already evaluated against the venue geofence.
type Ping struct {
	IsInside bool
	Distance float64 // Meters from the venue.
	Accuracy float64 // Reported accuracy in meters.
}

// Outcome is the result of applying one ping.
type Outcome struct {
	Session          *entity.PresenceSession
	Previous         entity.PresenceState
	StateChanged     bool
	Persist          bool // False when the ping was ignored and the stored session must not change.
	Reason           string
	UserMessage      string
	NextPingInterval time.Duration
}

// Machine applies pings to presence sessions.
type Machine struct {
	rules Rules
}

// NewMachine creates a state machine with the given rules.
func NewMachine(rules Rules) *Machine {
	return &Machine{rules: rules}
}

// Rules returns the machine's tunables.
func (m *Machine) Rules() Rules {
	return m.rules
}

// OnPing advances a session by one ping. The closed-venue check runs before the
// spacing check, and both run before the per-state rules.
func (m *Machine) OnPing(session *entity.PresenceSession, ping Ping, venueOpen bool, now time.Time) Outcome {
	next := session.Clone()
	outcome := Outcome{Session: next, Previous: session.State, Persist: true}

	if !venueOpen {
		m.accrue(next, now)
		next.LastPingAt = now
		if next.State != entity.PresenceInactive {
			m.transition(next, &outcome, entity.PresenceInactive, ReasonVenueClosed, now)
			next.PausedAt = nil
			next.ConsecutiveOutsidePings = 0
		}
		outcome.Reason = ReasonVenueClosed
		outcome.UserMessage = "場地已結束營業，您的狀態已設為離線"

		return m.finish(outcome, ping, now)
	}

	if !session.LastPingAt.IsZero() && now.Sub(session.LastPingAt) < m.rules.MinPingSpacing {
		outcome.Session = session
		outcome.Persist = false
		outcome.Reason = ReasonTooFrequent
		outcome.UserMessage = entity.ReasonTooFrequent.Message()
		outcome.NextPingInterval = max(
			m.NextPingInterval(session.State, ping.Distance, ping.Accuracy),
			tooFrequentIntervalX*m.rules.MinPingSpacing,
		)

		return outcome
	}

	m.accrue(next, now)
	next.LastPingAt = now
	if ping.IsInside {
		next.LastInsideAt = now
	}

	switch next.State {
	case entity.PresenceInactive:
		m.onInactive(next, &outcome, ping, now)
	case entity.PresenceActive:
		m.onActive(next, &outcome, ping, now)
	case entity.PresencePaused:
		m.onPaused(next, &outcome, ping, now)
	}

	return m.finish(outcome, ping, now)
}

func (m *Machine) onInactive(s *entity.PresenceSession, o *Outcome, ping Ping, now time.Time) {
	if ping.IsInside && now.Sub(s.JoinedAt) <= m.rules.ReactivationWindow {
		s.ConsecutiveOutsidePings = 0
		m.transition(s, o, entity.PresenceActive, ReasonReactivated, now)
		o.UserMessage = "歡迎回來，您已重新上線"

		return
	}

	o.Reason = ReasonRescanRequired
	o.UserMessage = "請重新掃描場地 QR Code 以加入"
}

func (m *Machine) onActive(s *entity.PresenceSession, o *Outcome, ping Ping, now time.Time) {
	if ping.IsInside {
		s.ConsecutiveOutsidePings = 0
		o.Reason = ReasonInside

		return
	}

	s.ConsecutiveOutsidePings++
	if s.ConsecutiveOutsidePings < m.rules.OutsidePingsToPause {
		o.Reason = ReasonOutside
		o.UserMessage = "您似乎已離開場地範圍"

		return
	}

	pausedAt := now
	s.PausedAt = &pausedAt
	m.transition(s, o, entity.PresencePaused, ReasonLeftGeofence, now)
	o.UserMessage = fmt.Sprintf("您已離開場地範圍，個人檔案暫時隱藏，%s 內返回即可恢復", util.FormatDuration(m.rules.GracePeriod))
}

func (m *Machine) onPaused(s *entity.PresenceSession, o *Outcome, ping Ping, now time.Time) {
	if ping.IsInside {
		m.resume(s, o, ReasonReturnedInside, now)

		return
	}

	var sincePause time.Duration
	if s.PausedAt != nil {
		sincePause = now.Sub(*s.PausedAt)
	}

	switch {
	case sincePause > m.rules.GracePeriod:
		s.PausedAt = nil
		m.transition(s, o, entity.PresenceInactive, ReasonGraceExpired, now)
		o.UserMessage = fmt.Sprintf("您已離開場地超過 %s，請重新掃描以加入", util.FormatDuration(m.rules.GracePeriod))
	case ping.Distance <= m.rules.GraceResumeDistance:
		m.resume(s, o, ReasonGraceResume, now)
	default:
		o.Reason = ReasonAwaitingReturn
		o.UserMessage = "請回到場地範圍內以恢復顯示"
	}
}

func (m *Machine) resume(s *entity.PresenceSession, o *Outcome, reason string, now time.Time) {
	s.ConsecutiveOutsidePings = 0
	s.PausedAt = nil
	m.transition(s, o, entity.PresenceActive, reason, now)
	o.UserMessage = "歡迎回來，您的個人檔案已恢復顯示"
}

func (m *Machine) transition(s *entity.PresenceSession, o *Outcome, to entity.PresenceState, reason string, now time.Time) {
	s.TransitionTo(to, reason, now, m.rules.HistorySize)
	o.StateChanged = true
	o.Reason = reason
}

// accrue credits time spent active since the previous ping, capped per gap.
func (m *Machine) accrue(s *entity.PresenceSession, now time.Time) {
	if s.State != entity.PresenceActive {
		return
	}

	since := s.LastPingAt
	if since.IsZero() {
		since = s.JoinedAt
	}
	gap := now.Sub(since)
	if gap <= 0 {
		return
	}
	gap = min(gap, m.rules.MaxAccrualGap)
	s.TimeInVenueSeconds += int64(gap / time.Second)
}

func (m *Machine) finish(o Outcome, ping Ping, now time.Time) Outcome {
	o.Session.UpdatedAt = now
	o.NextPingInterval = m.NextPingInterval(o.Session.State, ping.Distance, ping.Accuracy)

	return o
}

// NextPingInterval is the advisory delay before the client's next ping. Clients far
// away or with poor accuracy ping less often. The result never drops below the minimum spacing.
func (m *Machine) NextPingInterval(state entity.PresenceState, distance, accuracy float64) time.Duration {
	var base time.Duration
	switch state {
	case entity.PresenceActive:
		base = activeInterval
	case entity.PresencePaused:
		base = pausedInterval
	default:
		base = inactiveInterval
	}

	seconds := base.Seconds()
	if distance > farDistanceMeters {
		seconds *= farDistanceFactor
	}
	if accuracy > poorAccuracyMeters {
		seconds *= poorAccuracyFactor
	}

	interval := time.Duration(math.Round(seconds)) * time.Second

	return max(interval, m.rules.MinPingSpacing)
}
