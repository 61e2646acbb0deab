package config

import (
	"encoding/json"
	"os"

	"github.com/shopspring/decimal"

	"github.com/velora-shop/cartserv/internal/client"
	"github.com/velora-shop/cartserv/internal/httpserver"
	"github.com/velora-shop/cartserv/pkg/kafkaSender"
	"github.com/velora-shop/cartserv/pkg/postgres"
	"github.com/velora-shop/cartserv/pkg/redis"
)

type Checkout struct {
	ShippingFee       decimal.Decimal `json:"shipping_fee"`
	GuestCartTTLHours int             `json:"guest_cart_ttl_hours"`
}

type Config struct {
	HTTP     httpserver.Config  `json:"http"`
	Postgres postgres.Config    `json:"postgres"`
	Redis    redis.Config       `json:"redis"`
	Kafka    kafkaSender.Config `json:"kafka"`
	CartAPI  client.Config      `json:"cart_api"`
	Checkout Checkout           `json:"checkout"`
}

// Default covers a local single-machine setup: the storefront on :8080,
// the Cart API twin on :8081, Postgres, Redis and Kafka on their usual
// ports, flat 10.00 shipping.
func Default() Config {
	return Config{
		HTTP: httpserver.Config{Host: ":8080"},
		Postgres: postgres.Config{
			DBHost:     "localhost",
			DBPort:     "5432",
			DBUser:     "postgres",
			DBPassword: "postgres",
			DBName:     "cartserv",
			SSLMode:    "disable",
		},
		Redis: redis.Config{Host: "localhost", Port: "6379"},
		Kafka: kafkaSender.Config{
			Brokers:       []string{"localhost:29092"},
			Topic:         "cart-events",
			PeriodSeconds: 5,
		},
		CartAPI: client.Config{BaseURL: "http://localhost:8081"},
		Checkout: Checkout{
			ShippingFee:       decimal.NewFromInt(10),
			GuestCartTTLHours: 720,
		},
	}
}

func Load(filepath string) (cfg Config, err error) {

	file, err := os.Open(filepath)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	cfg = Default()
	err = json.NewDecoder(file).Decode(&cfg)
	if err != nil {
		return cfg, err
	}

	return cfg, nil
}
