package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"trend-radar/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type TrendReader interface {
	RecentTrends(ctx context.Context, cacheKey string, windowHours float64) ([]domain.TrendSummary, error)
}

// Bot announces persisted alerts to a Telegram chat and answers trend
// queries on demand.
type Bot struct {
	bot    *tele.Bot
	chatID int64
}

// StartTelegramBot wires the command handlers and starts long polling.
// Returns nil when TELEGRAM_BOT_TOKEN is not configured; callers treat a
// nil bot as announcements disabled.
func StartTelegramBot(trends TrendReader) *Bot {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}

	var chatID int64
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			chatID = n
		}
	}

	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/trending", func(c tele.Context) error {
		if trends == nil {
			return c.Send("Trend data unavailable")
		}
		timeframe := "1hour"
		hours := 1.0
		if args := c.Args(); len(args) > 0 {
			switch args[0] {
			case "10min":
				timeframe, hours = "10min", 0.17
			case "6hour":
				timeframe, hours = "6hour", 6
			case "24hour":
				timeframe, hours = "24hour", 24
			case "1hour":
			default:
				return c.Send("Usage: /trending [10min|1hour|6hour|24hour]")
			}
		}
		summaries, err := trends.RecentTrends(context.Background(), timeframe, hours)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching trends: %v", err))
		}
		return c.Send(formatTrends(timeframe, summaries))
	})

	log.Println("Telegram bot started")
	go b.Start()

	return &Bot{bot: b, chatID: chatID}
}

// AnnounceAlerts pushes the cycle's alerts (top 10) to the configured chat.
func (b *Bot) AnnounceAlerts(alerts []domain.Alert) {
	if b == nil || b.bot == nil || b.chatID == 0 || len(alerts) == 0 {
		return
	}
	if len(alerts) > 10 {
		alerts = alerts[:10]
	}

	var sb strings.Builder
	sb.WriteString("Trending now:\n")
	for _, a := range alerts {
		if a.Kind == domain.AlertNew {
			fmt.Fprintf(&sb, "%s - %d mentions (NEW)\n", a.Word, a.Count)
			continue
		}
		fmt.Fprintf(&sb, "%s - %d mentions (+%.0f%%)\n", a.Word, a.Count, a.ChangePercent)
	}

	if _, err := b.bot.Send(tele.ChatID(b.chatID), sb.String()); err != nil {
		log.Printf("telegram alert announcement error: %v", err)
	}
}

func formatTrends(timeframe string, summaries []domain.TrendSummary) string {
	if len(summaries) == 0 {
		return fmt.Sprintf("No trends recorded in the last %s", timeframe)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Top words (%s):\n", timeframe)
	for i, s := range summaries {
		fmt.Fprintf(&sb, "%d. %s - %d\n", i+1, s.Word, s.Count)
	}
	return sb.String()
}
