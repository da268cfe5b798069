package service

import (
	"context"
	"time"

	"github.com/warelane/stockscan/internal/domain"
	"github.com/warelane/stockscan/internal/repo/postgres"
	"github.com/warelane/stockscan/internal/utils"
	"github.com/warelane/stockscan/pkg/events"
	"github.com/warelane/stockscan/pkg/logger"
)

// ScannerService resolves scanned inventory codes to storage locations and
// records new assignments in the detail history.
type ScannerService interface {
	Resolve(ctx context.Context, code string) (*domain.ScanResult, error)
	AssignLocation(ctx context.Context, actor *domain.Identity, req *domain.AssignLocationRequest) error
	Locations(ctx context.Context) ([]string, error)
}

type scannerService struct {
	catalog   postgres.CatalogRepo
	publisher events.Publisher
}

func NewScannerService(catalog postgres.CatalogRepo, publisher events.Publisher) ScannerService {
	return &scannerService{catalog: catalog, publisher: publisher}
}

func (s *scannerService) Resolve(ctx context.Context, code string) (*domain.ScanResult, error) {
	code = utils.NormalizeCode(code)
	if code == "" {
		return nil, domain.Validation("scanned code is missing")
	}

	desc, found, err := s.catalog.ItemDescription(ctx, code)
	if err != nil {
		return nil, &domain.StoreError{Err: err}
	}
	if !found {
		// Unknown codes are never provisioned.
		return &domain.ScanResult{Exists: false}, nil
	}

	created, err := s.catalog.EnsureTemplate(ctx, code, desc)
	if err != nil {
		return nil, &domain.StoreError{Err: err}
	}
	if created {
		if err := s.publisher.Publish(ctx, events.TemplateProvisioned, events.TemplateProvisionedEvent{
			Code:        code,
			Description: desc,
			CreatedAt:   time.Now(),
		}); err != nil {
			logger.WarnContext(ctx, "failed to publish provision event", "error", err)
		}
	}

	result := &domain.ScanResult{Exists: true, Description: desc}

	locationCode, err := s.catalog.LatestLocationCode(ctx, code)
	if err != nil {
		return nil, &domain.StoreError{Err: err}
	}
	result.LocationCode = locationCode

	if locationCode != "" {
		locationDesc, err := s.catalog.LocationDescription(ctx, locationCode)
		if err != nil {
			return nil, &domain.StoreError{Err: err}
		}
		result.LocationDescription = locationDesc
	}

	return result, nil
}

func (s *scannerService) AssignLocation(ctx context.Context, actor *domain.Identity, req *domain.AssignLocationRequest) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}

	code := utils.NormalizeCode(req.Code)
	if code == "" {
		return domain.Validation("code is required")
	}

	// Operators pick human-readable location names; the history row links by
	// reference code, so translate first. No free-text location creation.
	locationCode, found, err := s.catalog.LocationCodeByDescription(ctx, req.LocationDesc)
	if err != nil {
		return &domain.StoreError{Err: err}
	}
	if !found {
		return domain.ErrLocationNotFound
	}

	dtlkey, err := s.catalog.AppendDetail(ctx, &domain.DetailRow{
		Code:     code,
		ItemCode: code,
		Location: locationCode,
		Remark1:  req.Remark1,
		Remark2:  req.Remark2,
		Remark3:  req.Remark3,
		TranDate: time.Now(),
		TranUser: actor.Name,
	})
	if err != nil {
		return &domain.StoreError{Err: err}
	}

	if err := s.publisher.Publish(ctx, events.LocationAssigned, events.LocationAssignedEvent{
		SequenceKey:  dtlkey,
		Code:         code,
		LocationCode: locationCode,
		AssignedBy:   actor.Name,
		AssignedAt:   time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "failed to publish assignment event", "error", err)
	}

	return nil
}

func (s *scannerService) Locations(ctx context.Context) ([]string, error) {
	locations, err := s.catalog.ListLocationDescriptions(ctx)
	if err != nil {
		return nil, &domain.StoreError{Err: err}
	}
	if locations == nil {
		locations = []string{}
	}
	return locations, nil
}
