package profileservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент сервиса публичных профилей консультантов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProfile получает публичный профиль консультанта
func (c *Client) GetProfile(ctx context.Context, consultantID int64) (*Profile, error) {
	url := fmt.Sprintf("%s/internal/consultants/%d/profile", c.baseURL, consultantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrProfileNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &profile, nil
}

// GetProfileWithGracefulDegradation получает профиль; при недоступности сервиса
// возвращает ErrServiceDegraded, и карточка консультанта строится без профиля
func (c *Client) GetProfileWithGracefulDegradation(ctx context.Context, consultantID int64) (*Profile, error) {
	profile, err := c.GetProfile(ctx, consultantID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			c.log.Info("ProfileService: no profile for consultant_id=%d", consultantID)
			return nil, err
		}

		c.log.Error("ProfileService unavailable, applying graceful degradation for consultant_id=%d: %v", consultantID, err)
		return nil, fmt.Errorf("%w: consultant_id=%d, error=%v", ErrServiceDegraded, consultantID, err)
	}

	return profile, nil
}
