package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"exam-supervision/proctorate/internal/config"
	"exam-supervision/proctorate/internal/constants"
	"exam-supervision/proctorate/internal/models/dtos"
)

// RegistryProvider talks to the external facility registry. It is stateless;
// every fetch either returns the full payload or a SourceError, never a
// partial result. Retry policy, if any, belongs to the caller.
type RegistryProvider struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewRegistryProvider creates a registry client from configuration.
func NewRegistryProvider(cfg config.RegistryConfig) *RegistryProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &RegistryProvider{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchExamHalls fetches every facility the registry knows, rooms nested.
func (p *RegistryProvider) FetchExamHalls(ctx context.Context) ([]dtos.ExternalFacility, error) {
	var result []dtos.ExternalFacility
	if err := p.doGET(ctx, "/exam-halls", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// FetchHallRooms fetches the rooms of a single facility.
func (p *RegistryProvider) FetchHallRooms(ctx context.Context, facilityExternalID int64) ([]dtos.ExternalRoom, error) {
	endpoint := fmt.Sprintf("/hall-rooms/%d", facilityExternalID)

	var result []dtos.ExternalRoom
	if err := p.doGET(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// FetchRoomParticipants fetches the time-slot occupancies for one exam date.
func (p *RegistryProvider) FetchRoomParticipants(ctx context.Context, examDate time.Time) ([]dtos.TimeSlotOccupancy, error) {
	endpoint := fmt.Sprintf("/room-participants/%s", examDate.Format(constants.DateFormat))

	var result []dtos.TimeSlotOccupancy
	if err := p.doGET(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// doGET performs an authenticated GET and decodes the JSON body into result.
func (p *RegistryProvider) doGET(ctx context.Context, endpoint string, result interface{}) error {
	if p.Token == "" {
		return &SourceError{
			Code:    constants.ErrCodeInvalidToken,
			Message: "registry token is not configured",
		}
	}

	url := p.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return &SourceError{
			Code:    constants.ErrCodeNetworkError,
			Message: "failed to create request",
			Err:     err,
		}
	}

	req.Header.Set("Authorization", "Bearer "+p.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		// Timeouts surface here and are treated as transport failures.
		return &SourceError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if err := p.handleHTTPError(resp, endpoint); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &SourceError{
			Code:    constants.ErrCodeBadResponse,
			Message: "failed to decode response",
			Err:     err,
		}
	}

	return nil
}

// handleHTTPError maps non-2xx statuses to SourceError codes.
func (p *RegistryProvider) handleHTTPError(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)

	code := constants.ErrCodeServerError
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		code = constants.ErrCodeInvalidToken
	case resp.StatusCode == http.StatusNotFound:
		code = constants.ErrCodeNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		code = constants.ErrCodeRateLimited
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		code = constants.ErrCodeInvalidRequest
	}

	return &SourceError{
		Code:    code,
		Message: fmt.Sprintf("registry returned %d for %s", resp.StatusCode, endpoint),
		Details: string(body),
	}
}
