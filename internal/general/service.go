package general

import (
	"context"
	"strings"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
)

// service implements the Service interface
type service struct {
	repo       Repository
	movieTypes []Option
	roles      []Option
	logger     *logger.Logger
}

// NewService creates a general service; movieTypes and roles are the accepted enum values
func NewService(repo Repository, movieTypes, roles []string, log *logger.Logger) Service {
	return &service{
		repo:       repo,
		movieTypes: options(movieTypes),
		roles:      options(roles),
		logger:     log.WithComponent("general-service"),
	}
}

func (s *service) GetSummary(ctx context.Context) (*Summary, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		s.logger.Error("Failed to build summary: " + err.Error())
		return nil, err
	}
	return summary, nil
}

func (s *service) MovieTypes() []Option {
	return s.movieTypes
}

func (s *service) Roles() []Option {
	return s.roles
}

func options(values []string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		label := v
		if v != "" {
			label = strings.ToUpper(v[:1]) + v[1:]
		}
		out = append(out, Option{Value: v, Label: label})
	}
	return out
}
