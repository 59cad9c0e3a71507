package httpserver

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/finobags/shop/internal/logging"
	"github.com/finobags/shop/internal/mykafka"
)

// publish fires a best-effort domain event; failures are logged, never
// surfaced to the client.
func publish(c echo.Context, producer *mykafka.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "error", err)
	}
}
