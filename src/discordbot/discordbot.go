package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stake-plus/dao-governance/src/api/config"
	"github.com/stake-plus/dao-governance/src/api/data"
)

// DiscordBot relays governance lifecycle events from the redis stream into
// one announcement channel. The channel comes from the CHANNEL_ID env when
// pinned by the operator, otherwise from the discord_channel_id setting in
// the database, otherwise from guild channel discovery.
type DiscordBot struct {
	session *discordgo.Session
	rdb     *redis.Client
	db      *gorm.DB
	guildID string

	mu        sync.RWMutex
	channelID string
}

type streamEvent struct {
	Event   string
	ID      uint64
	Type    string
	Action  string
	Title   string
	Creator string
	Result  string
	EndsAt  int64
}

func NewDiscordBot(token, guildID, channelID string, db *gorm.DB, rdb *redis.Client) (*DiscordBot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	bot := &DiscordBot{
		session:   dg,
		rdb:       rdb,
		db:        db,
		guildID:   guildID,
		channelID: channelID,
	}

	dg.AddHandler(bot.handleReady)
	dg.Identify.Intents = discordgo.IntentsGuilds

	return bot, nil
}

func (b *DiscordBot) Start() error { return b.session.Open() }
func (b *DiscordBot) Stop() error  { return b.session.Close() }

func (b *DiscordBot) channel() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.channelID
}

func (b *DiscordBot) setChannel(id string) {
	b.mu.Lock()
	b.channelID = id
	b.mu.Unlock()
}

func (b *DiscordBot) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("Discord bot logged in as %s", event.User.Username)

	if b.channel() == "" && b.guildID != "" {
		b.discoverChannel(s)
	}
}

// discoverChannel picks the guild channel whose name mentions governance or
// proposals when no channel is configured explicitly.
func (b *DiscordBot) discoverChannel(s *discordgo.Session) {
	channels, err := s.GuildChannels(b.guildID)
	if err != nil {
		log.Printf("Failed to get guild channels: %v", err)
		return
	}

	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		name := strings.ToLower(ch.Name)
		if strings.Contains(name, "governance") || strings.Contains(name, "proposal") {
			b.setChannel(ch.ID)
			log.Printf("Set announcement channel: %s", ch.Name)
			return
		}
	}
	log.Printf("No governance channel found in guild %s", b.guildID)
}

// watchChannelSetting re-reads the database setting so a channel change made
// through the API takes effect without a restart. Not started when the
// operator pinned CHANNEL_ID.
func (b *DiscordBot) watchChannelSetting(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := data.LoadSettings(b.db); err != nil {
				log.Printf("settings reload: %v", err)
				continue
			}
			id := data.GetSetting(data.SettingDiscordChannel)
			if id != "" && id != b.channel() {
				b.setChannel(id)
				log.Printf("Announcement channel switched to %s", id)
			}
		}
	}
}

func parseEvent(values map[string]interface{}) streamEvent {
	var ev streamEvent
	if s, ok := values["event"].(string); ok {
		ev.Event = s
	}
	if s, ok := values["id"].(string); ok {
		if id, err := strconv.ParseUint(s, 10, 64); err == nil {
			ev.ID = id
		}
	}
	if s, ok := values["type"].(string); ok {
		ev.Type = s
	}
	if s, ok := values["action"].(string); ok {
		ev.Action = s
	}
	if s, ok := values["title"].(string); ok {
		ev.Title = s
	}
	if s, ok := values["creator"].(string); ok {
		ev.Creator = s
	}
	if s, ok := values["result"].(string); ok {
		ev.Result = s
	}
	if s, ok := values["ends_at"].(string); ok {
		if t, err := strconv.ParseInt(s, 10, 64); err == nil {
			ev.EndsAt = t
		}
	}
	return ev
}

func (b *DiscordBot) embedFor(ev streamEvent) *discordgo.MessageEmbed {
	switch ev.Event {
	case "proposal_created":
		return &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("New Proposal #%d", ev.ID),
			Description: ev.Title,
			Color:       0x0099ff,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Type", Value: ev.Type, Inline: true},
				{Name: "Action", Value: ev.Action, Inline: true},
				{Name: "Proposed by", Value: formatAddress(ev.Creator), Inline: true},
				{Name: "Voting ends", Value: fmt.Sprintf("<t:%d:R>", ev.EndsAt)},
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
	case "voting_ended":
		return &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("Voting Ended on Proposal #%d", ev.ID),
			Description: ev.Title,
			Color:       0xffaa00,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Type", Value: ev.Type, Inline: true},
				{Name: "Action", Value: ev.Action, Inline: true},
				{Name: "Next step", Value: "Awaiting execution"},
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
	case "proposal_executed":
		color := 0x00ff00
		if ev.Result != "success" {
			color = 0xff0000
		}
		return &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("Proposal #%d Executed", ev.ID),
			Description: ev.Title,
			Color:       color,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Action", Value: ev.Action, Inline: true},
				{Name: "Result", Value: ev.Result, Inline: true},
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
	}
	return nil
}

func (b *DiscordBot) listenEvents(ctx context.Context) {
	// only announce events published after startup
	lastID := "$"

	for {
		select {
		case <-ctx.Done():
			return
		default:
			streams, err := b.rdb.XRead(ctx, &redis.XReadArgs{
				Streams: []string{data.StreamEvents, lastID},
				Count:   10,
				Block:   5 * time.Second,
			}).Result()

			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					log.Printf("Error reading stream: %v", err)
				}
				continue
			}

			for _, stream := range streams {
				for _, msg := range stream.Messages {
					lastID = msg.ID

					channel := b.channel()
					if channel == "" {
						continue
					}
					embed := b.embedFor(parseEvent(msg.Values))
					if embed == nil {
						continue
					}
					if _, err := b.session.ChannelMessageSendEmbed(channel, embed); err != nil {
						log.Printf("Failed to post to Discord: %v", err)
					}
				}
			}
		}
	}
}

func formatAddress(addr string) string {
	if len(addr) > 16 {
		return addr[:8] + "..." + addr[len(addr)-8:]
	}
	return addr
}

func main() {
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		log.Fatal("DISCORD_TOKEN not set")
	}
	guildID := os.Getenv("GUILD_ID")
	channelID := os.Getenv("CHANNEL_ID")
	pinned := channelID != ""

	cfg := config.Load()
	db := data.MustMySQL(cfg.MySQLDSN)
	rdb := data.MustRedis(cfg.RedisURL)

	// table may not exist until the API has migrated; run without it
	if err := data.LoadSettings(db); err != nil {
		log.Printf("settings: %v", err)
	}
	if channelID == "" {
		channelID = data.GetSetting(data.SettingDiscordChannel)
	}
	if channelID == "" && guildID == "" {
		log.Printf("No channel configured; waiting for the %s setting", data.SettingDiscordChannel)
	}

	bot, err := NewDiscordBot(token, guildID, channelID, db, rdb)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	log.Println("Discord bot is running. Press CTRL-C to exit.")

	ctx, cancel := context.WithCancel(context.Background())
	go bot.listenEvents(ctx)
	if !pinned {
		go bot.watchChannelSetting(ctx)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	cancel()
	bot.Stop()
}
