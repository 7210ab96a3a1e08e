package cmd

import "time"

// Config carries everything the application needs from the environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// CustomerCancelWindow is how long after creation the owning customer
	// may still cancel a pending order.
	CustomerCancelWindow time.Duration

	// PromotionThreshold is how long an order must sit in pending before the
	// background promoter moves it to processing.
	PromotionThreshold time.Duration

	// PromotionSchedule is the six field cron expression the promotion job
	// runs on.
	PromotionSchedule string
}
