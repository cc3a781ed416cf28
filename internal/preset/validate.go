package preset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks semantic constraints of normalized Params. Struct tags
// cover the scalar bounds; store/token cross-checks are done by hand.
func (p Params) Validate() error {
	var errs []string

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("preset validation failed: %w", err)
		}
		for _, e := range verrs {
			errs = append(errs, fmt.Sprintf("%s fails %q", strings.ToLower(e.Field()), e.Tag()))
		}
	}

	if p.Token.PerDraw < 0 {
		errs = append(errs, "token.per_draw must be >= 0")
	}
	if p.Token.PerTenDraw < 0 {
		errs = append(errs, "token.per_ten_draw must be >= 0")
	}
	if p.Store.TaxRate < 0 || p.Store.TaxRate >= 1 {
		errs = append(errs, "store.tax_rate must be in [0,1)")
	}
	for i, pk := range p.Store.Packs {
		if pk.ID == "" {
			errs = append(errs, fmt.Sprintf("store.packs[%d].id is required", i))
		}
		if pk.Tokens < 0 || pk.BonusTokens < 0 {
			errs = append(errs, fmt.Sprintf("store.packs[%d] token amounts must be >= 0", i))
		}
		if pk.PriceCents <= 0 {
			errs = append(errs, fmt.Sprintf("store.packs[%d].price_cents must be > 0", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("preset validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
