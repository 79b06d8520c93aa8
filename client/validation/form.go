package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"colorAverager/client/dto"
)

const (
	DefaultFrameInterval = 1
	DefaultQuality       = "best"
)

// Qualities lists the values offered by the quality selector.
var Qualities = []string{"best", "high", "medium", "low", "worst"}

// FormInput is the raw text of the submission form fields.
type FormInput struct {
	URL           string
	FrameInterval string
	MaxFrames     string
	Quality       string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseForm builds a job request from form text. Unparseable or
// non-positive numeric fields fall back to their defaults rather than
// failing the submission.
func ParseForm(in FormInput) (*dto.JobRequest, error) {
	req := &dto.JobRequest{
		URL:           strings.TrimSpace(in.URL),
		FrameInterval: parsePositive(in.FrameInterval, DefaultFrameInterval),
		Quality:       strings.TrimSpace(in.Quality),
	}

	if n := parsePositive(in.MaxFrames, 0); n > 0 {
		req.MaxFrames = &n
	}
	if req.Quality == "" {
		req.Quality = DefaultQuality
	}

	if err := validate.Struct(req); err != nil {
		return nil, translate(err)
	}

	return req, nil
}

// parsePositive reads the leading integer of value, so "2.5" and "3 frames"
// count as 2 and 3. Anything without one, or not positive, gets fallback.
func parsePositive(value string, fallback int) int {
	value = strings.TrimSpace(value)

	end := 0
	if end < len(value) && (value[end] == '+' || value[end] == '-') {
		end++
	}
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(value[:end])
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func translate(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	fe := errs[0]
	switch fe.Field() {
	case "URL":
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: %w", ErrInvalidForm, ErrMissingURL)
		}
		return fmt.Errorf("%w: %w", ErrInvalidForm, ErrInvalidURL)
	case "Quality":
		return fmt.Errorf("%w: %w %q", ErrInvalidForm, ErrInvalidQuality, fe.Value())
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidForm, fe.Field(), fe.Tag())
	}
}
