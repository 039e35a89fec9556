package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/callmeani/dream-marketplace/internal/config"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

// Plan is the fake dataset to persist. It is generated up front so the same
// random seed always yields the same data.
type Plan struct {
	Categories []string
	Tags       []string
	Users      []UserPlan
}

// UserPlan is one account with its dreams.
type UserPlan struct {
	Account domain.UserAccount
	Dreams  []DreamPlan
}

// DreamPlan is one dream. Category and tags refer to Plan.Categories and
// Plan.Tags by index; CategoryIdx is -1 when the dream is uncategorized.
type DreamPlan struct {
	Dream            domain.DreamRecord
	CategoryIdx      int
	TagIdx           []int
	HasVisualization bool
	Lot              *domain.Lot
}

var privacies = []string{
	string(domain.PrivacyPublic),
	string(domain.PrivacyUnlisted),
	string(domain.PrivacyPrivate),
}

// BuildPlan generates a plan from cfg using faker. The first user is an ADMIN.
// Lots are planned only for PUBLIC dreams, at most LotsPerUser per user.
func BuildPlan(cfg config.SeedConfig, faker *gofakeit.Faker) Plan {
	p := Plan{
		Categories: uniqueNames(faker, cfg.Categories, func() string {
			return faker.Adjective() + " " + faker.Noun()
		}),
		Tags: uniqueNames(faker, cfg.Tags, func() string {
			return domain.NormalizeTagName(faker.Noun())
		}),
	}

	// Anchor timestamps to a fixed origin so plans are comparable.
	origin := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range cfg.Users {
		role := domain.UserRoleUser
		if i == 0 {
			role = domain.UserRoleAdmin
		}
		username := faker.Username()
		up := UserPlan{Account: domain.UserAccount{
			Username: username,
			Email:    strings.ToLower(fmt.Sprintf("%s.%d@%s", username, i, faker.DomainName())),
			Role:     role,
			Balance:  decimal.NewFromFloat(faker.Price(0, 500)).Round(2),
		}}
		// Roughly two thirds of accounts are linked to the identity provider.
		if faker.Number(0, 2) > 0 {
			yandexID := faker.DigitN(12)
			up.Account.YandexID = &yandexID
		}

		lots := 0
		for range cfg.DreamsPerUser {
			dp := DreamPlan{
				Dream: domain.DreamRecord{
					Title:     strings.TrimSuffix(faker.Sentence(faker.Number(2, 6)), "."),
					Content:   faker.Paragraph(1, faker.Number(2, 5), 12, " "),
					Privacy:   domain.Privacy(faker.RandomString(privacies)),
					CreatedAt: origin.Add(time.Duration(faker.Number(0, 365*24)) * time.Hour),
				},
				CategoryIdx:      -1,
				HasVisualization: faker.Number(0, 3) == 0,
			}
			if len(p.Categories) > 0 && faker.Bool() {
				dp.CategoryIdx = faker.Number(0, len(p.Categories)-1)
			}
			if len(p.Tags) > 0 {
				for range faker.Number(0, min(3, len(p.Tags))) {
					dp.TagIdx = append(dp.TagIdx, faker.Number(0, len(p.Tags)-1))
				}
			}
			if dp.Dream.IsPublic() && lots < cfg.LotsPerUser {
				price := decimal.NewFromFloat(faker.Price(5, 250)).Round(2)
				desc := faker.Sentence(10)
				dp.Lot = &domain.Lot{
					Title:       dp.Dream.Title,
					Description: &desc,
					Price:       &price,
					Status:      domain.LotStatus(faker.RandomString([]string{"PENDING", "APPROVED"})),
				}
				lots++
			}
			up.Dreams = append(up.Dreams, dp)
		}
		p.Users = append(p.Users, up)
	}

	return p
}

// uniqueNames draws n distinct names from gen. Collisions get a numeric suffix
// after a few retries so small vocabularies still terminate.
func uniqueNames(faker *gofakeit.Faker, n int, gen func() string) []string {
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for len(out) < n {
		name := gen()
		for try := 0; try < 5; try++ {
			if _, dup := seen[name]; !dup {
				break
			}
			name = gen()
		}
		if _, dup := seen[name]; dup {
			name = fmt.Sprintf("%s-%d", name, faker.Number(100, 999))
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
