package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log       Log       `yaml:"log"`
	Server    Server    `yaml:"server"`
	Messenger Messenger `yaml:"messenger"`
	Lookup    Lookup    `yaml:"lookup"`
	Geo       Geo       `yaml:"geo"`
}

type Server struct {
	// Listen address of the webhook server
	Addr string `yaml:"addr" example:":8080"`
}

type Messenger struct {
	// Page access token for the Graph send API, env override FB_PAGE_TOKEN
	PageToken string `yaml:"page_token" example:"EAAG..." validate:"required"`
	// Shared secret for the webhook verification handshake, env override FB_VERIFY_TOKEN
	VerifyToken string `yaml:"verify_token" example:"my-webhook-secret" validate:"required"`
	// Messages endpoint of the platform
	Endpoint string `yaml:"endpoint" example:"https://graph.facebook.com/v2.6/me/messages"`
}

type Lookup struct {
	// Downstream rules lookup endpoint, env override LOOKUP_ENDPOINT
	Endpoint string `yaml:"endpoint" example:"https://rules.example.com/lookup" validate:"required"`
}

type Geo struct {
	// Path to the zipcode dataset (csv: zip,state,lat,lng)
	DatasetPath string `yaml:"dataset_path" example:"data/zipcodes.csv"`
	// Search radius in miles for coordinate resolution
	RadiusMiles float64 `yaml:"radius_miles" example:"30"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if v := os.Getenv("FB_PAGE_TOKEN"); v != "" {
		result.Messenger.PageToken = v
	}
	if v := os.Getenv("FB_VERIFY_TOKEN"); v != "" {
		result.Messenger.VerifyToken = v
	}
	if v := os.Getenv("LOOKUP_ENDPOINT"); v != "" {
		result.Lookup.Endpoint = v
	}

	if result.Server.Addr == "" {
		result.Server.Addr = ":8080"
	}
	if result.Messenger.Endpoint == "" {
		result.Messenger.Endpoint = "https://graph.facebook.com/v2.6/me/messages"
	}
	if result.Geo.DatasetPath == "" {
		result.Geo.DatasetPath = "data/zipcodes.csv"
	}
	if result.Geo.RadiusMiles == 0 {
		result.Geo.RadiusMiles = 30
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
