package service

import (
	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/apiclient"
)

// Services groups every backend-facing service over one API client.
type Services struct {
	Auth             AuthService
	Users            UserService
	Challenges       ChallengeService
	Progress         ProgressService
	Datasets         DatasetService
	CustomChallenges CustomChallengeService
	Analytics        AnalyticsService
	Reports          ReportService
}

func New(api apiclient.Client, logger zerolog.Logger) *Services {
	return &Services{
		Auth:             NewAuthService(api, logger.With().Str("service", "auth").Logger()),
		Users:            NewUserService(api, logger.With().Str("service", "users").Logger()),
		Challenges:       NewChallengeService(api, logger.With().Str("service", "challenges").Logger()),
		Progress:         NewProgressService(api, logger.With().Str("service", "progress").Logger()),
		Datasets:         NewDatasetService(api, logger.With().Str("service", "datasets").Logger()),
		CustomChallenges: NewCustomChallengeService(api, logger.With().Str("service", "custom_challenges").Logger()),
		Analytics:        NewAnalyticsService(api, logger.With().Str("service", "analytics").Logger()),
		Reports:          NewReportService(api, logger.With().Str("service", "reports").Logger()),
	}
}
