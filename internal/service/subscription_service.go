package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lifeband-data/internal/domain"
	"lifeband-data/internal/repository"
)

const dateLayout = "2006-01-02"

// SubscriptionService annual per-portador subscriptions.
type SubscriptionService interface {
	ListSubscriptions(ctx context.Context, adminID string) ([]*domain.SubscriptionPortador, error)
	// GetSubscription (nil, nil) when the portador has none.
	GetSubscription(ctx context.Context, adminID, portadorID string) (*domain.SubscriptionPortador, error)
	Subscribe(ctx context.Context, adminID, portadorID string, req SubscribeRequest) (*domain.SubscriptionPortador, error)
	Cancel(ctx context.Context, adminID, portadorID string) (*domain.SubscriptionPortador, error)
}

type SubscribeRequest struct {
	ProviderCustomerID     *string `json:"provider_customer_id"`
	ProviderSubscriptionID *string `json:"provider_subscription_id"`
	AutoRenew              *bool   `json:"auto_renew"`
}

type subscriptionService struct {
	repo   repository.SubscriptionsRepository
	own    owner
	now    func() time.Time
	logger *zap.Logger
}

func NewSubscriptionService(repos *repository.Set, logger *zap.Logger) SubscriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &subscriptionService{
		repo:   repos.Subscriptions,
		own:    owner{portadores: repos.Portadores, infoMedica: repos.InfoMedica},
		now:    time.Now,
		logger: logger,
	}
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, adminID string) ([]*domain.SubscriptionPortador, error) {
	return s.repo.ListSubscriptions(ctx, adminID)
}

func (s *subscriptionService) GetSubscription(ctx context.Context, adminID, portadorID string) (*domain.SubscriptionPortador, error) {
	if _, err := s.own.portador(ctx, adminID, portadorID); err != nil {
		return nil, err
	}
	return s.repo.GetSubscriptionByPortador(ctx, portadorID)
}

// Subscribe starts a one-year plan today. A canceled subscription is renewed
// in place.
func (s *subscriptionService) Subscribe(ctx context.Context, adminID, portadorID string, req SubscribeRequest) (*domain.SubscriptionPortador, error) {
	if _, err := s.own.portador(ctx, adminID, portadorID); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetSubscriptionByPortador(ctx, portadorID)
	if err != nil {
		return nil, err
	}

	start := s.now().UTC()
	end := start.AddDate(1, 0, 0)
	autoRenew := true
	if req.AutoRenew != nil {
		autoRenew = *req.AutoRenew
	}

	if existing != nil {
		if existing.Status != domain.SubscriptionCanceled {
			return nil, fmt.Errorf("subscription of portador %s: %w", portadorID, ErrConflict)
		}
		patch := repository.Patch{
			"status":     domain.SubscriptionActive,
			"start_date": start.Format(dateLayout),
			"end_date":   end.Format(dateLayout),
			"auto_renew": autoRenew,
		}
		if req.ProviderCustomerID != nil {
			patch["provider_customer_id"] = *req.ProviderCustomerID
		}
		if req.ProviderSubscriptionID != nil {
			patch["provider_subscription_id"] = *req.ProviderSubscriptionID
		}
		updated, err := s.repo.UpdateSubscription(ctx, existing.ID, patch)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, notFound("subscription", existing.ID)
		}
		return updated, nil
	}

	sub, err := s.repo.CreateSubscription(ctx, &domain.SubscriptionPortador{
		AdminID:                adminID,
		PortadorID:             portadorID,
		Plan:                   domain.PlanAnnual,
		Status:                 domain.SubscriptionActive,
		ProviderCustomerID:     req.ProviderCustomerID,
		ProviderSubscriptionID: req.ProviderSubscriptionID,
		StartDate:              start.Format(dateLayout),
		EndDate:                end.Format(dateLayout),
		AutoRenew:              autoRenew,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("subscription started", zap.String("portador_id", portadorID), zap.String("end_date", sub.EndDate))
	return sub, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, adminID, portadorID string) (*domain.SubscriptionPortador, error) {
	if _, err := s.own.portador(ctx, adminID, portadorID); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetSubscriptionByPortador(ctx, portadorID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFound("subscription of portador", portadorID)
	}
	updated, err := s.repo.UpdateSubscription(ctx, existing.ID, repository.Patch{
		"status":     domain.SubscriptionCanceled,
		"auto_renew": false,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, notFound("subscription", existing.ID)
	}
	return updated, nil
}
