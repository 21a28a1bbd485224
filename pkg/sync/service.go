package sync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/enrollment-sync/pkg/models"
)

// Service runs one full sync: fetch, join, reconcile contacts, then
// applications, then associations. A source failure before the batch
// loops aborts the run; everything after degrades per batch or per
// pair.
type Service interface {
	Run(ctx context.Context) (*models.RunReport, error)
}

// Options carries the pacing and batching tunables.
type Options struct {
	BatchSize        int
	BatchPause       time.Duration
	AssociationPause time.Duration
}

type service struct {
	source Source
	crm    CRM
	opts   Options
	logger *zap.Logger
}

// NewService creates a sync Service.
func NewService(source Source, crm CRM, opts Options, logger *zap.Logger) Service {
	return &service{
		source: source,
		crm:    crm,
		opts:   opts,
		logger: logger.Named("sync"),
	}
}

var _ Service = (*service)(nil)

func (s *service) Run(ctx context.Context) (*models.RunReport, error) {
	contacts, err := s.source.Contacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch contacts: %w", err)
	}
	apps, err := s.source.Applications(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch applications: %w", err)
	}

	joined := Join(contacts, apps, s.logger)

	flatContacts := make([]models.SourceContact, 0, len(joined))
	var flatApps []models.SourceApplication
	for _, jc := range joined {
		flatContacts = append(flatContacts, jc.Contact)
		flatApps = append(flatApps, jc.Applications...)
	}

	s.logger.Info("Starting sync run",
		zap.Int("contacts", len(flatContacts)),
		zap.Int("applications", len(flatApps)))

	reconciler := NewReconciler(s.crm, s.opts.BatchSize, s.opts.BatchPause, s.logger)

	report := &models.RunReport{}
	report.Contacts = reconciler.SyncContacts(ctx, flatContacts)
	report.Applications = reconciler.SyncApplications(ctx, flatApps)

	// Associations go last: both sides must exist remotely first.
	associator := NewAssociator(s.crm, s.opts.AssociationPause, s.logger)
	report.Associations = associator.Sync(ctx, joined)

	s.logger.Info("Sync run finished",
		zap.Int("contacts_updated", report.Contacts.Updated),
		zap.Int("contacts_created", report.Contacts.Created),
		zap.Int("contacts_excluded", report.Contacts.Excluded),
		zap.Int("applications_updated", report.Applications.Updated),
		zap.Int("applications_created", report.Applications.Created),
		zap.Int("applications_excluded", report.Applications.Excluded),
		zap.Int("associations_created", report.Associations.Created),
		zap.Int("associations_existing", report.Associations.Existing),
		zap.Int("associations_skipped", report.Associations.Skipped),
		zap.Int("failed_batches", report.Contacts.FailedBatches+report.Applications.FailedBatches))

	return report, nil
}
