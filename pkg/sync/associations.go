package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/enrollment-sync/pkg/hubspot"
	"github.com/ekaya-inc/enrollment-sync/pkg/models"
)

// Associator links each synced application to its contact. It runs
// after both entity types have been reconciled, because both remote ids
// must already exist. Every pair costs one existence check and at most
// one create, so calls are throttled harder than the bulk paths.
type Associator struct {
	crm      CRM
	throttle time.Duration
	sleep    func(time.Duration)
	logger   *zap.Logger
}

// NewAssociator creates an Associator.
func NewAssociator(crm CRM, throttle time.Duration, logger *zap.Logger) *Associator {
	return &Associator{
		crm:      crm,
		throttle: throttle,
		sleep:    time.Sleep,
		logger:   logger.Named("associator"),
	}
}

// Sync walks every (contact, application) pair. A pair whose contact or
// application cannot be resolved remotely is skipped with a logged
// reason; an already-linked pair is an idempotent no-op. A single
// pair's failure never stops the loop.
func (a *Associator) Sync(ctx context.Context, joined []models.JoinedContact) models.AssociationReport {
	var report models.AssociationReport

	for _, jc := range joined {
		if len(jc.Applications) == 0 {
			continue
		}

		email := jc.Contact.Key()
		contactRes, err := resolveKeys(ctx, a.crm, contactEntity, []string{email})
		if err != nil {
			a.logger.Error("Could not resolve contact, skipping its associations",
				zap.String("email", email),
				zap.Int("applications", len(jc.Applications)),
				zap.Error(err))
			report.Failed += len(jc.Applications)
			report.Pairs += len(jc.Applications)
			continue
		}
		contact := contactRes.Lookup(email)
		if !contact.Exists() {
			a.logger.Warn("Contact not in CRM, skipping its associations",
				zap.String("email", email),
				zap.String("state", contact.State.String()),
				zap.Int("applications", len(jc.Applications)))
			report.Skipped += len(jc.Applications)
			report.Pairs += len(jc.Applications)
			continue
		}

		for _, app := range jc.Applications {
			report.Pairs++
			a.associate(ctx, &report, contact.RemoteID, email, app)
			a.sleep(a.throttle)
		}
	}

	return report
}

func (a *Associator) associate(ctx context.Context, report *models.AssociationReport, contactID, email string, app models.SourceApplication) {
	unitID := app.Key()

	appRes, err := resolveKeys(ctx, a.crm, applicationEntity, []string{unitID})
	if err != nil {
		a.logger.Error("Could not resolve application",
			zap.String("unit_id", unitID),
			zap.Error(err))
		report.Failed++
		return
	}
	application := appRes.Lookup(unitID)
	if !application.Exists() {
		a.logger.Warn("Application not in CRM, skipping association",
			zap.String("unit_id", unitID),
			zap.String("state", application.State.String()))
		report.Skipped++
		return
	}

	edges, err := a.crm.ReadAssociations(ctx, hubspot.AssocTypeApplications, application.RemoteID, hubspot.AssocTypeContact)
	if err != nil {
		a.logger.Error("Association lookup failed",
			zap.String("application_id", application.RemoteID),
			zap.Error(err))
		report.Failed++
		return
	}
	for _, edge := range edges {
		if edge.ID == contactID {
			a.logger.Debug("Association already exists",
				zap.String("email", email),
				zap.String("contact_id", contactID),
				zap.String("application_id", application.RemoteID))
			report.Existing++
			return
		}
	}

	err = a.crm.CreateAssociation(ctx,
		hubspot.AssocTypeContact, contactID,
		hubspot.AssocTypeApplications, application.RemoteID,
		hubspot.ContactToApplicationTypeID)
	if err != nil {
		a.logger.Error("Association create failed",
			zap.String("contact_id", contactID),
			zap.String("application_id", application.RemoteID),
			zap.Error(err))
		report.Failed++
		return
	}

	a.logger.Info("Associated application with contact",
		zap.String("email", email),
		zap.String("contact_id", contactID),
		zap.String("application_id", application.RemoteID))
	report.Created++
}
