// Command seed posts fake experience reports to a running GradGuide API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gradguide/backend/internal/domain/lawmatch"
	"github.com/gradguide/backend/internal/infrastructure/auth"
	"github.com/gradguide/backend/internal/infrastructure/config"
	"github.com/gradguide/backend/internal/infrastructure/logger"
	"github.com/gradguide/backend/pkg/client"
	"go.uber.org/zap"
)

var (
	themes          = []string{"law", "tech", "consulting", "finance", "government"}
	experienceTypes = []string{"Clerkship", "Graduate Program", "Internship", "Vacation Program"}
	roles           = []string{"Seasonal Clerk", "Graduate Lawyer", "Software Engineer Intern", "Analyst", "Graduate Consultant"}
)

func main() {
	var (
		baseURL  string
		token    string
		secret   string
		issuer   string
		userID   string
		count    int
		rps      float64
		seed     uint64
		logLevel string
	)
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "API base URL")
	flag.StringVar(&token, "token", "", "Session token to submit as")
	flag.StringVar(&secret, "secret", "", "Sign a session token with this secret when -token is empty")
	flag.StringVar(&issuer, "issuer", "", "Issuer claim for a signed token")
	flag.StringVar(&userID, "user", "seed-user", "User id for a signed token")
	flag.IntVar(&count, "count", 25, "Number of reports to submit")
	flag.Float64Var(&rps, "rps", 5, "Maximum requests per second")
	flag.Uint64Var(&seed, "seed", 0, "Random seed, 0 for a random one")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if token == "" {
		if secret == "" {
			log.Fatal("Either -token or -secret is required")
		}
		token, err = auth.NewSessionTokens(config.AuthConfig{JWTSecret: secret, Issuer: issuer}).Issue(auth.SessionInput{
			UserID:    userID,
			FirstName: "Seed",
			LastName:  "Bot",
			TTL:       time.Hour,
		})
		if err != nil {
			log.Fatal("Failed to sign session token", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(baseURL, client.WithRateLimit(rps, 1), client.WithUserAgent("gradguide-seed"))
	session := api.NewSession(token)

	user, err := session.GetCurrentUser(ctx)
	if err != nil || user == nil {
		log.Fatal("Session was not accepted", zap.String("url", baseURL), zap.Error(err))
	}

	created, replayed, failed := run(ctx, session, gofakeit.New(seed), count, log)
	log.Info("Seeding finished",
		zap.String("user_id", user.ID),
		zap.Int("created", created),
		zap.Int("replayed", replayed),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		os.Exit(1)
	}
}

type submitter interface {
	SubmitExperience(ctx context.Context, in client.SubmissionInput) (*client.Submission, bool, error)
}

// run submits count reports, stopping early when ctx is done
func run(ctx context.Context, s submitter, f *gofakeit.Faker, count int, log *zap.Logger) (created, replayed, failed int) {
	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			break
		}
		in := fakeReport(f)
		sub, wasReplayed, err := s.SubmitExperience(ctx, in)
		switch {
		case err != nil:
			failed++
			log.Warn("Submission failed", zap.String("company", in.Company), zap.Int("status", client.StatusCode(err)), zap.Error(err))
		case wasReplayed:
			replayed++
		default:
			created++
			log.Debug("Submitted", zap.Int64("id", sub.ID), zap.String("company", sub.Company))
		}
	}
	return created, replayed, failed
}

// fakeReport builds one plausible report. Law firms come from the firm
// table so the company pages line up with law-match.
func fakeReport(f *gofakeit.Faker) client.SubmissionInput {
	company := f.Company()
	theme := f.RandomString(themes)
	if theme == "law" {
		company = f.RandomString(lawmatch.Firms)
	}
	expType := f.RandomString(experienceTypes)
	salary := fmt.Sprintf("%d", f.IntRange(60, 120)*1000)

	return client.SubmissionInput{
		Company:        company,
		Role:           f.RandomString(roles),
		ExperienceType: &expType,
		Theme:          &theme,
		IdempotencyKey: f.UUID(),
		Narrative: client.Narrative{
			ApplicationStages:   optional(f, f.Sentence(12)),
			InterviewExperience: optional(f, f.Paragraph(1, 3, 12, " ")),
			SalaryBenefits:      &salary,
			CultureEnvironment:  optional(f, f.Sentence(10)),
			HoursWorkload:       optional(f, f.Sentence(8)),
			GeneralExperience:   optional(f, f.Paragraph(2, 3, 12, "\n\n")),
			ProTip:              optional(f, f.Sentence(8)),
		},
	}
}

// optional keeps roughly two thirds of the sections so reports vary in shape
func optional(f *gofakeit.Faker, s string) *string {
	if f.IntRange(0, 2) == 0 {
		return nil
	}
	return &s
}
