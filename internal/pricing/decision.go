package pricing

// ShouldNotify decides whether a user gets an alert for the freshly computed
// discount. All three must hold: the discount meets the user's threshold, it
// strictly beats the discount last acted on (hysteresis against repeat alerts
// for an unchanged deal), and it clears a 1% noise floor that filters out
// rounding jitter.
func ShouldNotify(previousPercent, currentPercent, thresholdPercent float64) bool {
	return currentPercent >= thresholdPercent &&
		currentPercent > previousPercent &&
		currentPercent > 1
}
