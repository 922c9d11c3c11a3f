package faq

import "time"

// Config holds runtime knobs for the FAQ service.
type Config struct {
	CacheTTL time.Duration
}
