package chi

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/propmatch/internal/domain/geo"
	"github.com/kailas-cloud/propmatch/internal/domain/poi"
	"github.com/kailas-cloud/propmatch/internal/domain/profile"
	"github.com/kailas-cloud/propmatch/internal/domain/recommendation"
)

const defaultNearbyRadiusKm = 1.0

type budgetDTO struct {
	Min      float64 `json:"min" validate:"gte=0"`
	Max      float64 `json:"max" validate:"omitempty,gtefield=Min"`
	Currency string  `json:"currency" validate:"omitempty,alpha,len=3"`
}

type preferredDTO struct {
	Zone      string `json:"zone" validate:"max=120"`
	AdminUnit string `json:"admin_unit" validate:"max=40"`
	Block     string `json:"block" validate:"max=40"`
	Type      string `json:"type" validate:"max=60"`
}

type profileDTO struct {
	Budget            budgetDTO    `json:"budget"`
	Preferred         preferredDTO `json:"preferred"`
	Needs             []string     `json:"needs" validate:"max=20,dive,max=40"`
	RecencyWindowDays int          `json:"recency_window_days" validate:"gte=0,lte=3650"`
}

// toDomain resolves need tokens and checks the profile invariants.
func (d profileDTO) toDomain() (*profile.Profile, error) {
	needs, err := poi.ParseNeeds(d.Needs)
	if err != nil {
		return nil, err
	}
	pr := &profile.Profile{
		Budget: profile.Budget{Min: d.Budget.Min, Max: d.Budget.Max, Currency: d.Budget.Currency},
		Preferred: profile.Preferred{
			Zone:      d.Preferred.Zone,
			AdminUnit: d.Preferred.AdminUnit,
			Block:     d.Preferred.Block,
			Type:      d.Preferred.Type,
		},
		Needs:             needs,
		RecencyWindowDays: d.RecencyWindowDays,
	}
	pr.Normalize()
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	return pr, nil
}

type recommendRequest struct {
	Profile  profileDTO `json:"profile"`
	Limit    int        `json:"limit" validate:"gte=0,lte=1000"`
	MinScore *float64   `json:"min_score" validate:"omitempty,gte=0,lte=1"`
}

type scoreRequest struct {
	Profile profileDTO `json:"profile"`
}

type recommendationListResponse struct {
	Items []recommendation.Recommendation `json:"items"`
	Total int                             `json:"total"`
}

type nearbyQuery struct {
	Lat        float64        `json:"lat" validate:"latitude"`
	Lng        float64        `json:"lng" validate:"longitude"`
	RadiusKm   float64        `json:"radius_km" validate:"gte=0,lte=50"`
	Categories []poi.Category `json:"category"`
}

type nearbyResponse struct {
	Center   geo.Point `json:"center"`
	RadiusKm float64   `json:"radius_km"`
	Items    []poi.Hit `json:"items"`
	Total    int       `json:"total"`
}

// parseNearbyQuery reads lat, lng, radius_km and a comma separated category list.
func parseNearbyQuery(get func(string) string) (nearbyQuery, error) {
	var q nearbyQuery
	var err error
	if q.Lat, err = requiredFloat(get, "lat"); err != nil {
		return q, err
	}
	if q.Lng, err = requiredFloat(get, "lng"); err != nil {
		return q, err
	}
	q.RadiusKm = defaultNearbyRadiusKm
	if raw := get("radius_km"); raw != "" {
		if q.RadiusKm, err = strconv.ParseFloat(raw, 64); err != nil {
			return q, fmt.Errorf("radius_km: %q is not a number", raw)
		}
	}
	if raw := get("category"); raw != "" {
		for tok := range strings.SplitSeq(raw, ",") {
			if strings.TrimSpace(tok) == "" {
				continue
			}
			c, err := poi.ParseCategory(tok)
			if err != nil {
				return q, err
			}
			q.Categories = append(q.Categories, c)
		}
	}
	return q, nil
}

func requiredFloat(get func(string) string, name string) (float64, error) {
	raw := get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, raw)
	}
	return v, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationResponse converts validator errors into an ErrorResponse. It
// returns nil when err is nil.
func validationResponse(err error) *ErrorResponse {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ErrorResponse{Code: CodeValidationFailed, Message: err.Error()}
	}

	fields := make([]map[string]any, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), rootNamespace(fe))
		msg := fmt.Sprintf("%s failed on %s", field, fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		fields = append(fields, map[string]any{"field": field, "tag": fe.Tag(), "param": fe.Param()})
		msgs = append(msgs, msg)
	}
	return &ErrorResponse{
		Code:    CodeValidationFailed,
		Message: strings.Join(msgs, "; "),
		Details: map[string]any{"fields": fields},
	}
}

// rootNamespace is the "recommendRequest." prefix validator puts on every field.
func rootNamespace(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[:i+1]
	}
	return ""
}
