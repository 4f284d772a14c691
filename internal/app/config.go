package app

import "time"

// Драйверы хранилища заказов.
const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// HTTPAddr — адрес публичного API витрины.
	HTTPAddr string
	// MetricsAddr — адрес служебного сервера (/metrics, health checks).
	MetricsAddr string

	// BaseURL — внешний адрес витрины для back_urls процессинга.
	// auto_return включается только для https-адресов.
	BaseURL string

	// ProcessorAccessToken — токен доступа к MercadoPago. Пустой токен
	// не мешает запуску, но операции checkout будут отвечать ошибкой.
	ProcessorAccessToken string
	// ProcessorBaseURL переопределяет адрес API процессинга (для тестов).
	ProcessorBaseURL string
	// StatementDescriptor — строка в выписке покупателя.
	StatementDescriptor string
	// Currency — валюта позиций заказа.
	Currency string
	// CourierShippingCost — фиксированная стоимость курьерской доставки
	// в минорных единицах валюты.
	CourierShippingCost int64

	// StorageDriver — memory или mongo.
	StorageDriver string
	MongoURI      string
	MongoDatabase string

	// KafkaBrokers — список брокеров через запятую; пустой отключает
	// публикацию событий.
	KafkaBrokers string
	// OutboxPollInterval — период опроса outbox воркером.
	OutboxPollInterval time.Duration
}

// DefaultConfig возвращает конфигурацию для локальной разработки:
// in-memory хранилище, без Kafka.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		BaseURL:             "http://localhost:8080",
		StatementDescriptor: "DEALDRESS",
		Currency:            "ARS",
		CourierShippingCost: 8000,
		StorageDriver:       StorageMemory,
		MongoDatabase:       "dealdress",
		OutboxPollInterval:  time.Second,
	}
}
