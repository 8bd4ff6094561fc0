package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL      string
	RedisURL         string
	TelegramBotToken string
	TelegramChatID   int64
	APIKey           string

	Subreddits      []string
	RedditPostLimit int
	FetchDelaySecs  int

	TrendPollSecs    int
	TrendBackoffSecs int

	TrendMinCount    int
	TrendNewMinCount int
	TrendSpikePct    float64
	TrendClassifyTop int
	TrendStateSize   int
	APIQueryLimit    int
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		APIKey:           os.Getenv("API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, trend query caching disabled")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, Telegram alerts disabled")
	}

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = n
		} else {
			log.Printf("Warning: invalid TELEGRAM_CHAT_ID %q, alert announcements disabled", v)
		}
	}

	cfg.Subreddits = []string{"all", "popular"}
	if v := strings.TrimSpace(os.Getenv("TREND_SUBREDDITS")); v != "" {
		var subs []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				subs = append(subs, s)
			}
		}
		if len(subs) > 0 {
			cfg.Subreddits = subs
		}
	}

	cfg.RedditPostLimit = 25
	if v := os.Getenv("REDDIT_POST_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RedditPostLimit = n
		}
	}

	cfg.FetchDelaySecs = 1
	if v := os.Getenv("FETCH_DELAY_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FetchDelaySecs = n
		}
	}

	cfg.TrendPollSecs = 600
	if v := os.Getenv("TREND_POLL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TrendPollSecs = n
		}
	}

	cfg.TrendBackoffSecs = 60
	if v := os.Getenv("TREND_BACKOFF_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TrendBackoffSecs = n
		}
	}

	cfg.TrendMinCount = 2
	if v := os.Getenv("TREND_MIN_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TrendMinCount = n
		}
	}

	cfg.TrendNewMinCount = 3
	if v := os.Getenv("TREND_NEW_MIN_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TrendNewMinCount = n
		}
	}

	cfg.TrendSpikePct = 50
	if v := os.Getenv("TREND_SPIKE_PCT"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.TrendSpikePct = n
		}
	}

	cfg.TrendClassifyTop = 30
	if v := os.Getenv("TREND_CLASSIFY_TOP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TrendClassifyTop = n
		}
	}

	cfg.TrendStateSize = 100
	if v := os.Getenv("TREND_STATE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TrendStateSize = n
		}
	}

	cfg.APIQueryLimit = 20
	if v := os.Getenv("API_QUERY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.APIQueryLimit = n
		}
	}

	return cfg
}
