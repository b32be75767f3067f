package impl

import (
	"time"

	"venuegate/config"
	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/lifecycle"
	"venuegate/internal/domain/presence"
)

const (
	defaultSampleHistorySize = 5
	defaultSampleRetention   = time.Hour
)

// venueDefaultsFromConfig overlays configured radius and k-factor on the stock defaults.
func venueDefaultsFromConfig(cfg *config.Config) entity.VenueDefaults {
	defaults := entity.DefaultVenueDefaults()
	if cfg.Entry.DefaultRadius > 0 {
		defaults.Radius = cfg.Entry.DefaultRadius
	}
	if cfg.Entry.DefaultKFactor > 0 {
		defaults.KFactor = cfg.Entry.DefaultKFactor
	}

	return defaults
}

func tokenLifetimesFromConfig(cfg *config.Config) entity.TokenLifetimes {
	lifetimes := entity.DefaultTokenLifetimes()
	configured := cfg.Entry.TokenLifetime
	if configured.Outdoor > 0 {
		lifetimes.Outdoor = configured.Outdoor
	}
	if configured.IndoorSimple > 0 {
		lifetimes.IndoorSimple = configured.IndoorSimple
	}
	if configured.IndoorComplex > 0 {
		lifetimes.IndoorComplex = configured.IndoorComplex
	}
	if configured.Default > 0 {
		lifetimes.Default = configured.Default
	}

	return lifetimes
}

func presenceRulesFromConfig(cfg *config.Config) presence.Rules {
	p := cfg.Presence

	return presence.DefaultRules().Merge(presence.Rules{
		MinPingSpacing:      p.MinPingSpacing,
		OutsidePingsToPause: p.OutsidePingsToPause,
		GracePeriod:         p.GracePeriod,
		GraceResumeDistance: p.GraceResumeDistance,
		ReactivationWindow:  p.ReactivationWindow,
		MaxAccrualGap:       p.MaxAccrualGap,
		HistorySize:         p.HistorySize,
	})
}

func sampleHistoryFromConfig(cfg *config.Config) (size int, retention time.Duration) {
	size, retention = defaultSampleHistorySize, defaultSampleRetention
	if cfg.Entry.SampleHistory.Size > 0 {
		size = cfg.Entry.SampleHistory.Size
	}
	if cfg.Entry.SampleHistory.Retention > 0 {
		retention = cfg.Entry.SampleHistory.Retention
	}

	return size, retention
}

// storeTimeouts returns the per-call and audit timeouts, falling back to the lifecycle default.
func storeTimeouts(cfg *config.Config) (call, audit time.Duration) {
	call, audit = cfg.Store.Timeout, cfg.Store.AuditTimeout
	if call <= 0 {
		call = lifecycle.DefaultTimeout
	}
	if audit <= 0 {
		audit = call
	}

	return call, audit
}
