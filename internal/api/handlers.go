package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/xtding233/wishsim/internal/gacha"
	"github.com/xtding233/wishsim/internal/preset"
	"github.com/xtding233/wishsim/internal/pricing"
)

var validate = validator.New()

type simulateRequest struct {
	Budget      int    `json:"budget" validate:"required,gt=0"`
	Target      int    `json:"target" validate:"required,gt=0"`
	CurrentPity int    `json:"current_pity" validate:"gte=0,ltefield=HardPity"`
	HardPity    int    `json:"hard_pity" validate:"required,gt=0"`
	Guaranteed  bool   `json:"guaranteed"`
	Radiance    int    `json:"radiance" validate:"omitempty,gte=1,lte=3"`
	Trials      int    `json:"trials" validate:"omitempty,gt=0"`
	Seed        uint64 `json:"seed"`
	Workers     int    `json:"workers" validate:"gte=0,lte=256"`
}

type statsJSON struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

type simulateResponse struct {
	SuccessProbability float64    `json:"success_probability"`
	AvgDrawsToTarget   *float64   `json:"avg_draws_to_target"` // null => never reached
	AvgDrawsToFirstHit *float64   `json:"avg_draws_to_first_hit"`
	SuccessTrials      int        `json:"success_trials"`
	Trials             int        `json:"trials"`
	TargetStats        *statsJSON `json:"target_stats,omitempty"`
}

func handleSimulate(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req simulateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, map[string]string{"body": "invalid JSON"})
			return
		}
		if err := validate.Struct(req); err != nil {
			simulationsTotal.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, formatValidationError(err))
			return
		}
		if req.Radiance == 0 {
			req.Radiance = gacha.RadianceMin
		}
		if req.Trials == 0 {
			req.Trials = preset.DefaultTrials
		}

		params := gacha.SimParams{
			Budget: req.Budget,
			Target: req.Target,
			Initial: gacha.BannerState{
				CurrentPity: req.CurrentPity,
				HardPity:    req.HardPity,
				Guaranteed:  req.Guaranteed,
				Radiance:    req.Radiance,
			},
			Trials:  req.Trials,
			Seed:    req.Seed,
			Workers: req.Workers,
		}

		start := time.Now()
		res, err := gacha.RunMonteCarlo(params)
		if err != nil {
			simulationsTotal.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, map[string]string{"params": err.Error()})
			return
		}
		simulationDuration.Observe(time.Since(start).Seconds())
		simulationsTotal.WithLabelValues("ok").Inc()
		trialsTotal.Add(float64(res.Trials))
		log.Debug("simulation done",
			zap.Int("trials", res.Trials),
			zap.Float64("success_probability", res.SuccessProbability),
		)

		resp := simulateResponse{
			SuccessProbability: res.SuccessProbability,
			AvgDrawsToTarget:   finite(res.AvgDrawsToTarget),
			AvgDrawsToFirstHit: finite(res.AvgDrawsToFirstHit),
			SuccessTrials:      res.SuccessTrials,
			Trials:             res.Trials,
		}
		if res.SuccessTrials > 0 {
			resp.TargetStats = &statsJSON{
				Mean:   res.TargetStats.Mean,
				StdDev: res.TargetStats.StdDev,
				P50:    res.TargetStats.P50,
				P90:    res.TargetStats.P90,
				P99:    res.TargetStats.P99,
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type planRequest struct {
	Draws       int    `json:"draws" validate:"required,gt=0"`
	Preset      string `json:"preset"`
	NoFirstTime bool   `json:"no_first_time"`
}

type planResponse struct {
	TokenCost int                `json:"token_cost"`
	Currency  string             `json:"currency"`
	SubCents  int                `json:"sub_cents"`
	TaxCents  int                `json:"tax_cents"`
	Total     int                `json:"total_cents"`
	Tokens    int                `json:"total_tokens"`
	Purchases []purchaseResponse `json:"purchases"`
}

type purchaseResponse struct {
	PackID     string `json:"pack_id"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	UnitPrice  int    `json:"unit_price_cents"`
	UnitTokens int    `json:"unit_tokens"`
	Subtotal   int    `json:"subtotal_cents"`
}

func handlePlan(presets *preset.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, map[string]string{"body": "invalid JSON"})
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, formatValidationError(err))
			return
		}
		params, err := presets.Resolve(req.Preset)
		if err != nil {
			writeError(w, http.StatusBadRequest, map[string]string{"preset": err.Error()})
			return
		}
		if len(params.Store.Packs) == 0 || params.Token.PerDraw == 0 {
			writeError(w, http.StatusUnprocessableEntity,
				map[string]string{"preset": "preset has no store/token pricing"})
			return
		}

		first := pricing.FirstTimeState{}
		if !req.NoFirstTime {
			for _, p := range params.Store.Packs {
				if p.FirstTimeX2 {
					first[p.ID] = true
				}
			}
		}
		plan := pricing.MinCostForDraws(params.Store, params.Token, req.Draws, first)

		resp := planResponse{
			TokenCost: params.Token.CostForDraws(req.Draws),
			Currency:  plan.Currency,
			SubCents:  plan.SubCents,
			TaxCents:  plan.TaxCents,
			Total:     plan.TotalCents,
			Tokens:    plan.TotalTokens,
		}
		for _, p := range plan.Purchases {
			resp.Purchases = append(resp.Purchases, purchaseResponse{
				PackID:     p.PackID,
				Name:       p.Name,
				Qty:        p.Qty,
				UnitPrice:  p.UnitPrice,
				UnitTokens: p.UnitTokens,
				Subtotal:   p.Subtotal,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type presetResponse struct {
	Version    string `json:"version,omitempty"`
	HardPity   int    `json:"hard_pity"`
	Guaranteed bool   `json:"guaranteed"`
	Radiance   int    `json:"radiance"`
	Trials     int    `json:"trials"`
	Workers    int    `json:"workers"`
	TokenName  string `json:"token_name,omitempty"`
	PerDraw    int    `json:"token_per_draw,omitempty"`
}

func handleGetPreset(presets *preset.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		params, err := presets.Resolve(name)
		if err != nil {
			writeError(w, http.StatusNotFound, map[string]string{"preset": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, presetResponse{
			Version:    params.Version,
			HardPity:   params.HardPity,
			Guaranteed: params.Guaranteed,
			Radiance:   params.Radiance,
			Trials:     params.Trials,
			Workers:    params.Workers,
			TokenName:  params.Token.Name,
			PerDraw:    params.Token.PerDraw,
		})
	}
}

func handleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// finite maps +Inf (milestone never reached in any trial) to nil so the
// JSON stays encodable.
func finite(f float64) *float64 {
	if math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, fields map[string]string) {
	writeJSON(w, status, map[string]any{"errors": fields})
}

// formatValidationError flattens validator errors into a field-keyed map
// without leaking struct names.
func formatValidationError(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["error"] = "invalid request format"
		return out
	}
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			out[field] = "is required"
		case "gt", "gte":
			out[field] = "is too small"
		case "lt", "lte", "ltefield":
			out[field] = "is too large"
		default:
			out[field] = "is invalid"
		}
	}
	return out
}
