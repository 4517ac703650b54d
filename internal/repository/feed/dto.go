package feed

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/propmatch/internal/domain/property"
)

// propertyDTO is the feed record. The price is accepted either as {amount,currency},
// a bare number, or a scraped string such as "USD 120.000" or "Bs 850,000".
type propertyDTO struct {
	ID            string            `json:"id"`
	Price         json.RawMessage   `json:"price,omitempty"`
	Type          string            `json:"type"`
	SizeM2        float64           `json:"size_m2"`
	RoomCount     int               `json:"room_count"`
	BathroomCount int               `json:"bathroom_count"`
	Garage        bool              `json:"garage"`
	Location      property.Location `json:"location"`
	Market        *property.Market  `json:"market,omitempty"`
	Amenities     []string          `json:"amenities"`
	ObservedAt    string            `json:"observed_at"`
	Status        string            `json:"status"`
}

func (d *propertyDTO) toDomain() property.Property {
	return property.Property{
		ID:            d.ID,
		Price:         parsePrice(d.Price),
		Type:          d.Type,
		SizeM2:        d.SizeM2,
		RoomCount:     d.RoomCount,
		BathroomCount: d.BathroomCount,
		Garage:        d.Garage,
		Location:      d.Location,
		Market:        d.Market,
		Amenities:     d.Amenities,
		ObservedAt:    d.ObservedAt,
		Status:        d.Status,
	}
}

var currencyAliases = map[string]string{
	"USD": "USD",
	"US":  "USD",
	"$US": "USD",
	"US$": "USD",
	"$":   "USD",
	"BS":  "BOB",
	"BOB": "BOB",
}

// currencyCode resolves a currency token from a price string. Tokens outside
// the alias table are kept when they look like an ISO 4217 code.
func currencyCode(token string) string {
	if c, ok := currencyAliases[token]; ok {
		return c
	}
	if len(token) == 3 && strings.IndexFunc(token, func(r rune) bool { return r < 'A' || r > 'Z' }) < 0 {
		return token
	}
	return ""
}

// parsePrice returns nil for absent or malformed prices.
func parsePrice(raw json.RawMessage) *property.Price {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '{':
		var p property.Price
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil
		}
		return &p
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return parsePriceString(s)
	}

	amount, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return nil
	}
	return &property.Price{Amount: amount}
}

func parsePriceString(s string) *property.Price {
	var (
		currency strings.Builder
		number   strings.Builder
	)
	for _, r := range strings.ToUpper(s) {
		switch {
		case unicode.IsDigit(r) || r == '.' || r == ',':
			number.WriteRune(r)
		case unicode.IsLetter(r) || r == '$':
			currency.WriteRune(r)
		}
	}

	amount, ok := parseAmount(number.String())
	if !ok {
		return nil
	}
	return &property.Price{Amount: amount, Currency: currencyCode(currency.String())}
}

// parseAmount treats the last separator as decimal only when it is followed by one
// or two digits; every other separator groups thousands.
func parseAmount(s string) (float64, bool) {
	s = strings.Trim(s, ".,")
	if s == "" {
		return 0, false
	}
	last := strings.LastIndexAny(s, ".,")
	var intPart, fracPart string
	if last >= 0 && len(s)-last-1 <= 2 {
		intPart, fracPart = s[:last], s[last+1:]
	} else {
		intPart = s
	}
	intPart = strings.NewReplacer(".", "", ",", "").Replace(intPart)
	num := intPart
	if fracPart != "" {
		num += "." + fracPart
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
