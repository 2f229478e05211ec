// package formatter renders catalog listings as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/shared"
)

// Format is an export format accepted by --format.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat normalizes a --format value. Empty input selects [FormatText].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want text, csv, markdown or json)", shared.ErrInvalidFlag, s)
	}
}

// Songs renders a song listing in the given format.
func Songs(songs []models.Song, format Format, pretty bool) ([]byte, error) {
	switch format {
	case FormatCSV:
		return SongsToCSV(songs)
	case FormatMarkdown:
		return SongsToMarkdown(songs), nil
	case FormatJSON:
		return shared.MarshalJSON(songs, pretty)
	default:
		return SongsToText(songs), nil
	}
}

// Albums renders an album listing in the given format.
func Albums(albums []models.Album, format Format, pretty bool) ([]byte, error) {
	switch format {
	case FormatCSV:
		return AlbumsToCSV(albums)
	case FormatMarkdown:
		return AlbumsToMarkdown(albums), nil
	case FormatJSON:
		return shared.MarshalJSON(albums, pretty)
	default:
		return AlbumsToText(albums), nil
	}
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// SongsToCSV converts songs to CSV with columns: ID, Name, Album, Genre, Singers, Released, Mood, Language, Duration, Likes
func SongsToCSV(songs []models.Song) ([]byte, error) {
	headers := []string{"ID", "Name", "Album", "Genre", "Singers", "Released", "Mood", "Language", "Duration", "Likes"}
	rows := make([][]string, 0, len(songs))
	for _, s := range songs {
		rows = append(rows, []string{
			s.ID.String(),
			s.Name,
			s.Album,
			s.Genre,
			strings.Join(s.Singers, "; "),
			s.ReleasedDate,
			s.Mood,
			s.Language,
			s.Duration,
			strconv.Itoa(s.Likes),
		})
	}
	return writeCSV(headers, rows)
}

// AlbumsToCSV converts albums to CSV with columns: ID, Name, Description, Color, Plan, Likes
func AlbumsToCSV(albums []models.Album) ([]byte, error) {
	headers := []string{"ID", "Name", "Description", "Color", "Plan", "Likes"}
	rows := make([][]string, 0, len(albums))
	for _, a := range albums {
		rows = append(rows, []string{
			a.ID.String(),
			a.Name,
			a.Desc,
			a.BgColor,
			string(a.SubscriptionPlan),
			strconv.Itoa(a.Likes),
		})
	}
	return writeCSV(headers, rows)
}

// SongsToMarkdown renders songs as a Markdown table.
func SongsToMarkdown(songs []models.Song) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Songs\n\n")
	buf.WriteString(fmt.Sprintf("**Total**: %d\n\n", len(songs)))
	buf.WriteString("| # | Name | Album | Singers | Duration | Likes |\n")
	buf.WriteString("|---|------|-------|---------|----------|-------|\n")
	for i, s := range songs {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %d |\n",
			i+1, cell(s.Name), cell(s.Album), cell(strings.Join(s.Singers, ", ")), cell(s.Duration), s.Likes))
	}
	return buf.Bytes()
}

// AlbumsToMarkdown renders albums as a Markdown table.
func AlbumsToMarkdown(albums []models.Album) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Albums\n\n")
	buf.WriteString(fmt.Sprintf("**Total**: %d\n\n", len(albums)))
	buf.WriteString("| # | Name | Description | Plan | Likes |\n")
	buf.WriteString("|---|------|-------------|------|-------|\n")
	for i, a := range albums {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %d |\n",
			i+1, cell(a.Name), cell(a.Desc), a.SubscriptionPlan, a.Likes))
	}
	return buf.Bytes()
}

// SongsToText renders songs as a numbered list.
func SongsToText(songs []models.Song) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))
	for i, s := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s [%s]", i+1, s.Name, s.ID))
		if s.Album != "" && s.Album != models.NoAlbum {
			buf.WriteString(fmt.Sprintf(" (%s)", s.Album))
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// AlbumsToText renders albums as a numbered list.
func AlbumsToText(albums []models.Album) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Albums: %d\n\n", len(albums)))
	for i, a := range albums {
		buf.WriteString(fmt.Sprintf("%d. %s [%s] %s\n", i+1, a.Name, a.ID, a.SubscriptionPlan))
	}
	return buf.Bytes()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// WriteExport writes data to path, creating or truncating it.
func WriteExport(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
