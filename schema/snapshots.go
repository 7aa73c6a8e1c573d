package schema

import "time"

// SnapshotVersion is the serialization version written alongside snapshots.
// Bump when a snapshot's JSON shape changes in a backward-incompatible way.
const SnapshotVersion = 1

// RetentionSnapshot is the persisted state of a trained retention model.
// JSON keys are stable across versions for backward-compatible persistence.
type RetentionSnapshot struct {
	// Base is the fitted day-zero retention (the a in value = a * decay^d).
	Base float64 `json:"base"`

	// Decay is the fitted per-day geometric decay factor in (0, 1].
	Decay float64 `json:"decay"`

	// GameType is the style label inferred from the fitted curve.
	GameType GameType `json:"game_type"`

	// Metrics summarizes the training run that produced this snapshot.
	Metrics ModelMetrics `json:"metrics"`

	// TrainedAt is when the snapshot was produced.
	TrainedAt time.Time `json:"trained_at"`
}

// RevenueSnapshot is the persisted state of a trained revenue model.
type RevenueSnapshot struct {
	// Baseline is the trend level at the end of the training window.
	Baseline float64 `json:"baseline"`

	// Slope is the fitted per-day revenue change.
	Slope float64 `json:"slope"`

	// WeekdayFactors holds one multiplier per weekday (Sunday..Saturday),
	// normalized to mean 1.0.
	WeekdayFactors [7]float64 `json:"weekday_factors"`

	// NewUserShare is the observed fraction of revenue from new users.
	NewUserShare float64 `json:"new_user_share"`

	// ARPDAU is the observed average revenue per daily active user.
	ARPDAU float64 `json:"arpdau"`

	// Conversion is the observed payer conversion rate.
	Conversion float64 `json:"conversion"`

	// TrainEnd is the date of the last training row; forecast offsets are
	// measured from here.
	TrainEnd time.Time `json:"train_end"`

	// Metrics summarizes the training run that produced this snapshot.
	Metrics ModelMetrics `json:"metrics"`

	// TrainedAt is when the snapshot was produced.
	TrainedAt time.Time `json:"trained_at"`
}
