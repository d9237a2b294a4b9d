package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/transport"
)

// HeroID identifies the single hero section record.
const HeroID = "hero"

var defaultGradient = []string{"#667eea", "#764ba2"}

// Hero is the homepage banner.
type Hero struct {
	ID                string   `json:"id"`
	BackgroundType    string   `json:"backgroundType"`
	ImageURL          string   `json:"imageUrl,omitempty"`
	SingleColor       string   `json:"singleColor,omitempty"`
	GradientColors    []string `json:"gradientColors,omitempty"`
	GradientDirection string   `json:"gradientDirection,omitempty"`
	Title             string   `json:"title"`
	Subtitle          string   `json:"subtitle"`
	ButtonText        string   `json:"buttonText"`
	ButtonLink        string   `json:"buttonLink"`
	TextColor         string   `json:"textColor"`
	IsActive          bool     `json:"isActive"`
}

// RecordID implements domain.Record.
func (h Hero) RecordID() string { return h.ID }

// HeroUpdate replaces the hero section. Nil text fields are not sent; a
// non-nil empty one clears the value.
type HeroUpdate struct {
	BackgroundType    string    `form:"backgroundType" validate:"required,oneof=image single_color gradient"`
	ImageName         string    `form:"image" validate:"required_with=Image"`
	Image             io.Reader `form:"-"`
	ImageURL          string    `form:"imageUrl" validate:"omitempty,url"`
	SingleColor       string    `form:"singleColor" validate:"omitempty,hexcolor"`
	GradientColors    []string  `form:"gradientColors" validate:"omitempty,dive,hexcolor"`
	GradientDirection string    `form:"gradientDirection" validate:"omitempty,oneof='to right' 'to bottom' 'to left' 'to top' 135deg"`
	Title             *string   `form:"title" validate:"omitempty,max=200"`
	Subtitle          *string   `form:"subtitle" validate:"omitempty,max=500"`
	ButtonText        *string   `form:"buttonText" validate:"omitempty,max=100"`
	ButtonLink        *string   `form:"buttonLink"`
	TextColor         string    `form:"textColor" validate:"omitempty,hexcolor"`
	IsActive          *bool     `form:"isActive"`
}

func normalizeHero(f fields) Hero {
	h := Hero{
		ID:                f.str("_id", "id"),
		BackgroundType:    strings.ToLower(strings.TrimSpace(f.str("backgroundType"))),
		ImageURL:          f.str("imageUrl", "image_url"),
		SingleColor:       f.str("singleColor"),
		GradientDirection: f.str("gradientDirection"),
		Title:             f.str("title"),
		Subtitle:          f.str("subtitle"),
		ButtonText:        f.str("buttonText"),
		ButtonLink:        f.str("buttonLink"),
		TextColor:         f.str("textColor"),
		IsActive:          true,
	}
	if h.ID == "" {
		h.ID = HeroID
	}
	switch h.BackgroundType {
	case "image", "single_color", "gradient":
	default:
		h.BackgroundType = "image"
	}
	if h.GradientDirection == "" {
		h.GradientDirection = "to right"
	}
	if h.TextColor == "" {
		h.TextColor = "#FFFFFF"
	}
	if _, ok := f.lookup("isActive"); ok {
		h.IsActive = f.flag("isActive")
	}

	// gradientColors arrives either as an array or as a JSON-encoded string.
	h.GradientColors = f.strings("gradientColors")
	if s, ok := f["gradientColors"].(string); ok {
		if err := json.Unmarshal([]byte(s), &h.GradientColors); err != nil {
			h.GradientColors = nil
		}
	}
	if len(h.GradientColors) == 0 {
		h.GradientColors = append([]string(nil), defaultGradient...)
	}
	return h
}

func encodeHero(p HeroUpdate) (*transport.Multipart, error) {
	m := new(transport.Multipart).
		Set("backgroundType", strings.TrimSpace(p.BackgroundType)).
		SetFile("image", p.ImageName, p.Image).
		Set("imageUrl", p.ImageURL).
		Set("singleColor", p.SingleColor)
	if len(p.GradientColors) > 0 {
		colors, err := json.Marshal(p.GradientColors)
		if err != nil {
			return nil, fmt.Errorf("encoding gradient colors: %w", err)
		}
		m.Set("gradientColors", string(colors))
	}
	m.Set("gradientDirection", p.GradientDirection).
		SetPresent("title", p.Title).
		SetPresent("subtitle", p.Subtitle).
		SetPresent("buttonText", p.ButtonText).
		SetPresent("buttonLink", p.ButtonLink).
		Set("textColor", p.TextColor)
	if p.IsActive != nil {
		m.Set("isActive", strconv.FormatBool(*p.IsActive))
	}
	return m, nil
}

// Hero returns the hero section as a one-record collection.
func (a *API) Hero() *Resource[Hero] {
	return &Resource[Hero]{
		api:        a,
		name:       "hero",
		listPath:   "/api/admin/hero-section/",
		detailPath: "/api/admin/hero-section/",
		singleKey:  "heroSection",
		detailKeys: []string{"heroSection"},
		normalize:  normalizeHero,
		routes: map[domain.ActionKind]route{
			domain.ActionUpdateHero: {method: http.MethodPut, path: "/api/admin/hero-section/update/", build: formBody(encodeHero)},
		},
	}
}
