package movie

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/google/uuid"
)

const minDescriptionLength = 10

var releaseDateLayouts = []string{
	releaseDateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// ValidateMovieData checks every field, collecting all failures, and returns
// the normalized movie (trimmed strings, parsed cast and date) on success.
func ValidateMovieData(input *MovieInput) (*Movie, error) {
	if input == nil {
		return nil, apperr.Validation("", "Movie data is required")
	}

	v := apperr.NewValidator()
	movie := &Movie{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		TrailerLink: strings.TrimSpace(input.TrailerLink),
		MovieLink:   strings.TrimSpace(input.MovieLink),
		MovieType:   strings.ToLower(strings.TrimSpace(input.MovieType)),
	}

	v.Required("title", movie.Title, "Title is required")
	v.MinLen("description", movie.Description, minDescriptionLength, "Description must be at least 10 characters long")

	if date := strings.TrimSpace(input.ReleaseDate); date == "" {
		v.Add("releaseDate", "Release date is required")
	} else if parsed, ok := parseReleaseDate(date); !ok {
		v.Add("releaseDate", "Release date must be a valid date")
	} else {
		movie.ReleaseDate = parsed
	}

	genre := strings.TrimSpace(input.Genre)
	v.Required("genre", genre, "Genre is required")
	if genre != "" {
		v.UUID("genre", genre, "Invalid genre id")
		movie.GenreID, _ = uuid.Parse(genre)
	}

	if runtime := strings.TrimSpace(input.Runtime.String()); runtime == "" {
		v.Add("runtime", "Runtime is required")
	} else if n, err := strconv.Atoi(runtime); err != nil || n < 1 {
		v.Add("runtime", "Runtime must be at least 1 minute")
	} else {
		movie.Runtime = n
	}

	v.Check("movieType", movie.MovieType != TypeMovie && movie.MovieType != TypeSeries,
		"Movie type must be either movie or series")

	cast, castErrs := parseCast(input.Cast.String())
	for _, fe := range castErrs {
		v.Add(fe.Field, fe.Message)
	}
	movie.Cast = cast

	v.URL("trailerLink", movie.TrailerLink)
	v.URL("movieLink", movie.MovieLink)

	if featured := strings.TrimSpace(input.Featured.String()); featured != "" {
		b, err := strconv.ParseBool(featured)
		v.Check("featured", err != nil, "Featured must be true or false")
		movie.Featured = b
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	return movie, nil
}

func parseReleaseDate(value string) (time.Time, bool) {
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseCast decodes the serialized cast array and trims each entry
func parseCast(raw string) ([]CastMember, []apperr.FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var entries []CastInput
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, []apperr.FieldError{{Field: "cast", Message: "Cast must be a valid JSON array"}}
	}

	var errs []apperr.FieldError
	cast := make([]CastMember, 0, len(entries))
	for i, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		kind := strings.TrimSpace(entry.Type)
		if name == "" || kind == "" {
			errs = append(errs, apperr.FieldError{
				Field:   fmt.Sprintf("cast[%d]", i),
				Message: "Each cast member must have a name and type",
			})
			continue
		}
		cast = append(cast, CastMember{Position: i, Name: name, Type: kind})
	}
	return cast, errs
}
