package env

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/ArturZahn/OBBot/internal/config"
)

const (
	botTokenEnvName  = "TELEGRAM_TOKEN"
	botChatIDEnvName = "TELEGRAM_CHAT_ID"
	botDebugEnvName  = "LOG_LEVEL"
)

type botConfig struct {
	token  string
	chatID int64
	debug  bool
}

func NewBotConfig() (config.BotConfig, error) {
	token := os.Getenv(botTokenEnvName)
	if token == "" {
		return nil, errors.New("TELEGRAM_TOKEN not found")
	}

	rawChatID := os.Getenv(botChatIDEnvName)
	if rawChatID == "" {
		return nil, errors.New("TELEGRAM_CHAT_ID not found")
	}
	chatID, err := strconv.ParseInt(rawChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}

	return &botConfig{
		token:  token,
		chatID: chatID,
		debug:  os.Getenv(botDebugEnvName) == "debug",
	}, nil
}

func (cfg *botConfig) Token() string {
	return cfg.token
}

func (cfg *botConfig) ChatID() int64 {
	return cfg.chatID
}

func (cfg *botConfig) Debug() bool {
	return cfg.debug
}
