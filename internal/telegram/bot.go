package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"grocery-planner/internal/app"
	"grocery-planner/internal/config"
	"grocery-planner/internal/metrics"
	"grocery-planner/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API and the grocery planning application.
type Bot struct {
	api          *tgbotapi.BotAPI
	app          *app.App
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App, metricsStore *metrics.Store) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, _ := tgbotapi.NewWebhook(webhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		app:          application,
		metricsStore: metricsStore,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/metrics":
		b.handleMetricsCommand(msg.Chat.ID)
	case text == "/plan":
		b.handlePlanRequest(msg)
	case strings.HasPrefix(text, "/stores "):
		b.handleStoresRequest(msg, strings.TrimPrefix(text, "/stores "))
	case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
		b.handleClipperRequest(msg)
	default:
		help := "Send a recipe URL to clip it, or use:\n/plan - generate recipes and a grocery list\n/stores <location> - find grocery stores\n/metrics - usage report"
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, help))
	}
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	statusText := "✂️ *Clipping recipe...* \n(Extracting and saving to your collection)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	userID := fmt.Sprintf("%d", msg.From.ID)
	saved, err := b.app.ClipRecipe(ctx, userID, msg.Text)
	var finalText string
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error clipping recipe:*\n```\n%v\n```", safeErr)
	} else {
		finalText = fmt.Sprintf("✅ *Recipe Saved!*\n\n*Title:* %s\n*Ingredients:* %d", saved.Name, len(saved.Ingredients))
	}
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handlePlanRequest(msg *tgbotapi.Message) {
	statusText := "🧑‍🍳 *Thinking...* \n(Generating recipes and your grocery list)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	userID := fmt.Sprintf("%d", msg.From.ID)
	result, err := b.app.GenerateGroceryList(ctx, userID)
	if err != nil {
		var finalText string
		if errors.Is(err, planner.ErrPlanInFlight) {
			finalText = "⏳ A plan is already being generated. Hang tight."
		} else {
			log.Printf("Error generating plan: %v", err)
			safeErr := strings.ReplaceAll(err.Error(), "`", "'")
			finalText = fmt.Sprintf("❌ *Error generating plan:*\n```\n%v\n```", safeErr)
		}
		edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
		edit.ParseMode = "Markdown"
		b.api.Send(edit)
		return
	}

	recipesText, listText := formatResultMarkdownParts(result)

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, recipesText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)

	listMsg := tgbotapi.NewMessage(msg.Chat.ID, listText)
	listMsg.ParseMode = "Markdown"
	b.api.Send(listMsg)
}

func (b *Bot) handleStoresRequest(msg *tgbotapi.Message, location string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := b.app.FindNearbyStores(ctx, location)
	if err != nil {
		log.Printf("Error finding stores: %v", err)
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("❌ Could not find stores near %q.", location)))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏪 *Grocery stores near %s*\n\n", location))
	for i, s := range stores {
		if i >= 10 {
			break
		}
		sb.WriteString(fmt.Sprintf("• *%s* (%s)\n  _%s_\n", s.Name, s.Distance, s.Address))
	}
	if len(stores) == 0 {
		sb.WriteString("_No grocery stores found_\n")
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

func formatResultMarkdownParts(result *planner.GroceryListResult) (string, string) {
	var pb strings.Builder
	pb.WriteString("🍽 *Your Recipes*\n\n")
	for _, r := range result.Recipes {
		pb.WriteString(fmt.Sprintf("*%s / %s*: %s", r.Day, r.MealType, r.Name))
		if r.PrepTime != "" {
			pb.WriteString(fmt.Sprintf(" (prep %s)", r.PrepTime))
		}
		pb.WriteString("\n")
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Grocery List*\n\n")
	for _, cat := range result.Categories {
		sb.WriteString(fmt.Sprintf("*%s*\n", cat.Category))
		for _, item := range cat.Items {
			sb.WriteString(fmt.Sprintf("• %s (%s) $%.2f\n", item.Name, item.Quantity, item.TotalPrice))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("*Total:* $%.2f", result.TotalCost))
	if result.RemainingBudget != nil {
		sb.WriteString(fmt.Sprintf(" / remaining budget $%.2f", *result.RemainingBudget))
	}
	sb.WriteString("\n")

	return pb.String(), sb.String()
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Error fetching metrics."))
		return
	}

	health := metrics.GetSysHealth(b.cfg.DatabasePath)

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Database: %s\n", health.DBSize))

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}
