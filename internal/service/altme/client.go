package altme

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"CycleWatch/internal/domain/models"
	drepo "CycleWatch/internal/domain/repository"
	xhttp "CycleWatch/pkg/http"
)

// Client implements a SentimentSource backed by the Alternative.me FNG API.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// New creates a new Alternative.me SentimentSource.
func New(baseURL string, timeout time.Duration) drepo.SentimentSource {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type fngResponse struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
	} `json:"data"`
}

// FearGreed returns the latest Fear & Greed index reading.
func (c *Client) FearGreed(ctx context.Context) (*models.FearGreed, error) {
	var res fngResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/fng/",
	}, &res)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.Code == http.StatusTooManyRequests {
			return nil, fmt.Errorf("altme fng: %w", drepo.ErrRateLimited)
		}
		if errors.Is(err, xhttp.ErrDecode) {
			return nil, fmt.Errorf("altme fng: %v: %w", err, drepo.ErrMalformedResponse)
		}
		return nil, fmt.Errorf("altme fng: %w", err)
	}

	if len(res.Data) == 0 {
		return nil, fmt.Errorf("altme fng: empty data: %w", drepo.ErrMalformedResponse)
	}
	value, err := strconv.Atoi(res.Data[0].Value)
	if err != nil {
		return nil, fmt.Errorf("altme fng: non-numeric value %q: %w", res.Data[0].Value, drepo.ErrMalformedResponse)
	}

	return &models.FearGreed{
		Value:          value,
		Classification: res.Data[0].Classification,
	}, nil
}
