package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/gaana/internal/shared"
)

// SubscriptionPlan is the tier an album is published under.
type SubscriptionPlan string

const (
	PlanFree     SubscriptionPlan = "FREE"
	PlanSilver   SubscriptionPlan = "SILVER"
	PlanGold     SubscriptionPlan = "GOLD"
	PlanPlatinum SubscriptionPlan = "PLATINUM"
)

// Plans lists every plan in display order.
var Plans = []SubscriptionPlan{PlanFree, PlanSilver, PlanGold, PlanPlatinum}

// ParsePlan normalizes s (case-insensitive) into a [SubscriptionPlan].
func ParsePlan(s string) (SubscriptionPlan, error) {
	p := SubscriptionPlan(strings.ToUpper(strings.TrimSpace(s)))
	for _, plan := range Plans {
		if p == plan {
			return plan, nil
		}
	}
	return "", fmt.Errorf("unknown subscription plan %q (want one of FREE, SILVER, GOLD, PLATINUM)", s)
}

// NoAlbum is the album value sent for songs that do not belong to an album.
const NoAlbum = "none"

// Song is a track as listed by GET /api/songs.
type Song struct {
	ID           ID       `json:"id"`
	Name         string   `json:"name"`
	Desc         string   `json:"desc"`
	Album        string   `json:"album"`
	Genre        string   `json:"genre,omitempty"`
	LyricsWriter string   `json:"lyricsWriter,omitempty"`
	Singers      []string `json:"singers,omitempty"`
	ReleasedDate string   `json:"releasedDate,omitempty"`
	Mood         string   `json:"mood,omitempty"`
	Language     string   `json:"language,omitempty"`
	Image        string   `json:"image,omitempty"`
	File         string   `json:"file,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Likes        int      `json:"likes,omitempty"`
}

// Album is an album as listed by GET /api/albums.
type Album struct {
	ID               ID               `json:"id"`
	Name             string           `json:"name"`
	Desc             string           `json:"desc"`
	BgColor          string           `json:"bgColor,omitempty"`
	Image            string           `json:"image,omitempty"`
	SubscriptionPlan SubscriptionPlan `json:"subscriptionPlan,omitempty"`
	Likes            int              `json:"likes,omitempty"`
}

// SongRequest is the JSON "request" part of a song upload.
type SongRequest struct {
	Name         string   `json:"name" validate:"required"`
	Desc         string   `json:"desc"`
	Album        string   `json:"album"`
	Genre        string   `json:"genre"`
	LyricsWriter string   `json:"lyricsWriter"`
	Singers      []string `json:"singers"`
	ReleasedDate *string  `json:"releasedDate"`
	Mood         string   `json:"mood"`
	Language     string   `json:"language"`
}

// AlbumRequest is the JSON "request" part of an album upload.
type AlbumRequest struct {
	Name             string           `json:"name" validate:"required"`
	Desc             string           `json:"desc"`
	BgColor          string           `json:"bgColor" validate:"omitempty,hexcolor"`
	SubscriptionPlan SubscriptionPlan `json:"subscriptionPlan" validate:"required,oneof=FREE SILVER GOLD PLATINUM"`
}

// SubscriptionUpdate is the body of PUT /api/albums/{id}/subscription.
type SubscriptionUpdate struct {
	Plan SubscriptionPlan `json:"plan" validate:"required,oneof=FREE SILVER GOLD PLATINUM"`
}

// ParseSingers splits a comma-separated list, trimming entries and dropping empty ones.
//
// The result is never nil so it encodes as [] rather than null.
func ParseSingers(s string) []string {
	singers := []string{}
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			singers = append(singers, name)
		}
	}
	return singers
}

var releaseDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseReleaseDate converts form input to an ISO-8601 UTC timestamp.
//
// Empty input yields nil, which is sent as null.
func ParseReleaseDate(s string) (*string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			iso := t.UTC().Format("2006-01-02T15:04:05.000Z")
			return &iso, nil
		}
	}
	return nil, fmt.Errorf("invalid release date %q (want YYYY-MM-DD)", s)
}

// SongForm is the raw operator input for a song upload, as entered in a form or on the command line.
type SongForm struct {
	Name         string
	Desc         string
	Album        string
	Genre        string
	LyricsWriter string
	Singers      string
	ReleasedDate string
	Mood         string
	Language     string
}

// Request converts the form into a [SongRequest] and validates it.
func (f SongForm) Request() (SongRequest, error) {
	released, err := ParseReleaseDate(f.ReleasedDate)
	if err != nil {
		return SongRequest{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	album := strings.TrimSpace(f.Album)
	if album == "" {
		album = NoAlbum
	}

	req := SongRequest{
		Name:         strings.TrimSpace(f.Name),
		Desc:         strings.TrimSpace(f.Desc),
		Album:        album,
		Genre:        strings.TrimSpace(f.Genre),
		LyricsWriter: strings.TrimSpace(f.LyricsWriter),
		Singers:      ParseSingers(f.Singers),
		ReleasedDate: released,
		Mood:         strings.TrimSpace(f.Mood),
		Language:     strings.TrimSpace(f.Language),
	}
	if err := Validate(req); err != nil {
		return SongRequest{}, err
	}
	return req, nil
}

// NewAlbumRequest builds and validates an [AlbumRequest]; an empty plan defaults to [PlanFree].
func NewAlbumRequest(name, desc, bgColor, plan string) (AlbumRequest, error) {
	p := PlanFree
	if strings.TrimSpace(plan) != "" {
		parsed, err := ParsePlan(plan)
		if err != nil {
			return AlbumRequest{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		p = parsed
	}

	req := AlbumRequest{
		Name:             strings.TrimSpace(name),
		Desc:             strings.TrimSpace(desc),
		BgColor:          strings.TrimSpace(bgColor),
		SubscriptionPlan: p,
	}
	if err := Validate(req); err != nil {
		return AlbumRequest{}, err
	}
	return req, nil
}
