package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/gaana/internal/models"
)

var (
	_ list.Item = songItem{}
	_ list.Item = albumItem{}
)

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Name }
func (i songItem) Title() string       { return i.song.Name }
func (i songItem) Description() string {
	parts := []string{fmt.Sprintf("♥ %d", i.song.Likes)}
	if i.song.Album != "" && i.song.Album != models.NoAlbum {
		parts = append(parts, i.song.Album)
	}
	if len(i.song.Singers) > 0 {
		parts = append(parts, strings.Join(i.song.Singers, ", "))
	}
	if i.song.Duration != "" {
		parts = append(parts, i.song.Duration)
	}
	return strings.Join(parts, " • ")
}

// albumItem wraps [models.Album] to implement [list.Item].
type albumItem struct {
	album models.Album
}

func (i albumItem) FilterValue() string { return i.album.Name }
func (i albumItem) Title() string       { return i.album.Name }
func (i albumItem) Description() string {
	plan := string(i.album.SubscriptionPlan)
	if plan == "" {
		plan = string(models.PlanFree)
	}
	desc := fmt.Sprintf("♥ %d • %s", i.album.Likes, styles.As(plan, planColor(plan)))
	if i.album.Desc != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.album.Desc)
	}
	return desc
}

// nextPlan cycles FREE → SILVER → GOLD → PLATINUM → FREE.
func nextPlan(p models.SubscriptionPlan) models.SubscriptionPlan {
	if p == "" {
		p = models.PlanFree
	}
	for i, plan := range models.Plans {
		if plan == p {
			return models.Plans[(i+1)%len(models.Plans)]
		}
	}
	return models.PlanFree
}
