package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"pricewatch/internal/providers"
	"pricewatch/internal/structures"
)

const defaultPushoverURL = "https://api.pushover.net/1/messages.json"

type PushoverClient struct {
	client *http.Client
	token  string
	apiURL string
	logger providers.Logger
}

func NewNotifierProvider(conf *structures.Config, logger providers.Logger) Notifier {
	if conf.Pushover.Token == "" {
		logger.Warnf(providers.TypeApp, "Pushover token not configured, notifications disabled")
		return &noopNotifier{}
	}
	apiURL := conf.Pushover.APIURL
	if apiURL == "" {
		apiURL = defaultPushoverURL
	}
	return &PushoverClient{
		client: &http.Client{Timeout: 30 * time.Second},
		token:  conf.Pushover.Token,
		apiURL: apiURL,
		logger: logger,
	}
}

func (p *PushoverClient) Send(ctx context.Context, userKey, message string) error {
	form := url.Values{
		"token":   {p.token},
		"user":    {userKey},
		"message": {message},
	}

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, strings.NewReader(form.Encode()))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			resp, err := p.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					// Bad token or user key, retrying cannot help.
					return retry.Unrecoverable(fmt.Errorf("pushover rejected message: status %d", resp.StatusCode))
				}
				return fmt.Errorf("pushover status %d", resp.StatusCode)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warnf(providers.TypeApp, "Pushover attempt %d failed: %s", n+1, err)
		}),
	)
	if err != nil {
		return fmt.Errorf("send pushover message: %w", err)
	}
	return nil
}

type noopNotifier struct{}

func (n *noopNotifier) Send(_ context.Context, _, _ string) error { return nil }
