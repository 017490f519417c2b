package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"tax-document-service/internal/config"
	"tax-document-service/internal/models"
)

// AddressValidator checks an order's shipping address against the tax
// engine's address-resolution endpoint and reconciles the verdict. It makes
// at most one synchronous call per invocation, with no retry and no caching.
type AddressValidator struct {
	cfg        config.AvaTaxConfig
	httpClient *http.Client
	logger     *logrus.Entry
}

// NewAddressValidator creates a new address validator
func NewAddressValidator(cfg config.AvaTaxConfig, logger *logrus.Logger) *AddressValidator {
	return &AddressValidator{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.WithField("component", "address_validator"),
	}
}

type validateResponse struct {
	Address    models.SuggestedAddress   `json:"Address"`
	ResultCode string                    `json:"ResultCode"`
	Messages   []models.ValidationMessage `json:"Messages"`
}

// Validate returns a typed verdict for the order's shipping address.
// Disabled configuration and a missing address are normal skip paths, never
// errors; transport and parse failures collapse to a generic failed result.
func (v *AddressValidator) Validate(ctx context.Context, order *models.OrderSnapshot) *models.AddressValidationResult {
	if !v.cfg.AddressValidationEnabled {
		return &models.AddressValidationResult{Status: models.ValidationDisabled}
	}

	ship := order.ShipAddress
	if ship == nil {
		return &models.AddressValidationResult{Status: models.ValidationNoAddress}
	}

	if !v.countryEnabled(ship.CountryName) {
		return &models.AddressValidationResult{Status: models.ValidationDisabled}
	}

	response, err := v.callValidationService(ctx, ship)
	if err != nil {
		v.logger.WithFields(logrus.Fields{
			"order_id": order.ID,
		}).WithError(err).Error("Address validation call failed")
		return &models.AddressValidationResult{
			Status:   models.ValidationFailed,
			Messages: []models.ValidationMessage{{Summary: "Address validation failed"}},
		}
	}

	// The service is trusted when it agrees on either the city or the region
	if response.Address.City == ship.City || response.Address.Region == ship.StateAbbr {
		return &models.AddressValidationResult{
			Status:     models.ValidationConfirmed,
			ResultCode: response.ResultCode,
			Address:    &response.Address,
			Messages:   response.Messages,
		}
	}

	suggested := response.Address
	return &models.AddressValidationResult{
		Status:     models.ValidationMismatch,
		ResultCode: "Error",
		Address:    &suggested,
		Messages: []models.ValidationMessage{{
			Summary: fmt.Sprintf("Did you mean %s, %s, %s, %s?",
				suggested.Line1, suggested.City, suggested.Region, suggested.PostalCode),
		}},
	}
}

func (v *AddressValidator) callValidationService(ctx context.Context, ship *models.OrderAddress) (*validateResponse, error) {
	query := url.Values{}
	query.Set("Line1", ship.Address1)
	query.Set("Line2", ship.Address2)
	query.Set("City", ship.City)
	query.Set("Region", ship.StateAbbr)
	query.Set("Country", ship.CountryISO)
	query.Set("PostalCode", ship.PostalCode)

	endpoint := fmt.Sprintf("%s%svalidate?%s", v.cfg.Endpoint, v.cfg.AddressServicePath, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", v.credential())

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("validation service returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var response validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode validation response: %w", err)
	}

	return &response, nil
}

// countryEnabled matches against the configured allow-list of country names
func (v *AddressValidator) countryEnabled(countryName string) bool {
	for _, enabled := range v.cfg.ValidationCountries {
		if enabled == countryName {
			return true
		}
	}
	return false
}

func (v *AddressValidator) credential() string {
	token := base64.StdEncoding.EncodeToString([]byte(v.cfg.Account + ":" + v.cfg.LicenseKey))
	return "Basic " + token
}
