package settings

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Service wraps the store profile.
type Service struct {
	repo    Repository
	printer *message.Printer
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{
		repo:    repo,
		printer: message.NewPrinter(language.English),
	}
}

// Get returns the profile, falling back to defaults before first save.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.repo.Get(ctx)
}

// Update validates and persists the profile.
func (s *Service) Update(ctx context.Context, form UpdateForm) (Settings, error) {
	code := strings.ToUpper(strings.TrimSpace(form.Currency))
	if _, err := currency.ParseISO(code); err != nil {
		return Settings{}, fmt.Errorf("unknown currency code %q: %w", form.Currency, httpx.ErrValidation)
	}
	if strings.TrimSpace(form.StoreName) == "" {
		return Settings{}, fmt.Errorf("store name is required: %w", httpx.ErrValidation)
	}
	if form.TaxRate < 0 || form.TaxRate > 100 {
		return Settings{}, fmt.Errorf("tax rate must be between 0 and 100: %w", httpx.ErrValidation)
	}
	return s.repo.Save(ctx, Settings{
		StoreName: strings.TrimSpace(form.StoreName),
		Currency:  code,
		TaxRate:   form.TaxRate,
	})
}

// FormatAmount renders an amount in the store's configured currency, for
// receipts and report payloads.
func (s *Service) FormatAmount(ctx context.Context, amount float64) (string, error) {
	profile, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	return s.Format(profile.Currency, amount), nil
}

// Format renders an amount in the given ISO 4217 currency.
func (s *Service) Format(code string, amount float64) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%.2f %s", amount, code)
	}
	return s.printer.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}
