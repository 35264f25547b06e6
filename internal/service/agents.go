package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/provisionexpertax/taxportal/internal/entity"
	"github.com/provisionexpertax/taxportal/internal/repository"
)

// DefaultAgents is the roster inserted at startup when missing.
var DefaultAgents = []entity.NewAgent{
	{
		Name:        "Sandy",
		Title:       "Tax Preparation Specialist, CPA",
		Bio:         "Experienced tax professional specializing in individual and family tax preparation. Dedicated to helping clients maximize their refunds and achieve financial peace of mind.",
		Email:       "sandy@provisionexpertax.com",
		ImageURL:    "https://iili.io/f1vE9Qp.jpg",
		Credentials: []string{"CPA", "Individual Tax Prep", "+1 more"},
	},
	{
		Name:        "AI Tax Agent",
		Title:       "Automated Tax Assistant",
		Bio:         "Our cutting-edge AI technology provides instant calculations, preliminary tax guidance, and 24/7 support. Perfect for quick questions and simple tax scenarios.",
		Email:       "ai@provisionexpertax.com",
		ImageURL:    "https://i.ibb.co/N7gZd3Z/ai-tax-agent-professional.png",
		Credentials: []string{"AI Technology", "24/7 Support", "+2 more"},
	},
	{
		Name:        "Jennifer Constantino",
		Title:       "Senior Tax Consultant",
		Bio:         "Dedicated tax professional based in Hollywood, FL, providing comprehensive tax preparation and consultation services. Committed to delivering personalized financial guidance.",
		Email:       "jennconstantino93@gmail.com",
		ImageURL:    "https://iili.io/f1vNNN1.jpg",
		Credentials: []string{"Tax Preparation", "Business Consulting", "+1 more"},
	},
}

// AgentService exposes the staff roster.
type AgentService struct {
	repo repository.AgentsRepository
}

// NewAgentService constructs an AgentService.
func NewAgentService(repo repository.AgentsRepository) *AgentService {
	return &AgentService{repo: repo}
}

// List returns the roster in display order.
func (s *AgentService) List(ctx context.Context) ([]entity.Agent, error) {
	return s.repo.ListAgents(ctx)
}

// SeedDefaults inserts any missing default agent and reports how many were added.
func (s *AgentService) SeedDefaults(ctx context.Context) (int, error) {
	inserted := 0
	for _, agent := range DefaultAgents {
		created, err := s.repo.EnsureAgent(ctx, agent)
		if err != nil {
			return inserted, fmt.Errorf("seed agent %s: %w", agent.Email, err)
		}
		if created {
			inserted++
			log.Info().Str("agent", agent.Name).Msg("seeded agent")
		}
	}
	return inserted, nil
}
