package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"aircare/internal/config"
	"aircare/internal/models"

	"github.com/rs/zerolog"
)

// Client posts booking alerts to the SMS relay. Two endpoints exist: one for
// requests routed to a chosen partner and one for the general pool.
type Client struct {
	httpClient *http.Client
	defaultURL string
	partnerURL string
	logger     *zerolog.Logger
}

func NewClient(cfg config.NotifyConfig, logger *zerolog.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Duration(models.DefaultNotifyTimeout) * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		defaultURL: cfg.DefaultURL,
		partnerURL: cfg.PartnerURL,
		logger:     logger,
	}
}

// SendBookingAlert delivers one alert. The response body is not consumed
// beyond the status code.
func (c *Client) SendBookingAlert(ctx context.Context, alert models.BookingAlert) error {
	url := c.defaultURL
	if alert.PartnerID != "" {
		url = c.partnerURL
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("alert endpoint returned status %d", resp.StatusCode)
	}

	c.logger.Debug().Str("url", url).Str("phone", alert.CustomerPhone).Msg("booking alert sent")
	return nil
}
