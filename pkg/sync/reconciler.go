package sync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/enrollment-sync/pkg/hubspot"
	"github.com/ekaya-inc/enrollment-sync/pkg/models"
)

// record is one locally-owned row with a stable business key and an
// outbound property payload. A payload error (e.g. an unknown pipeline
// stage) excludes the single record, never the batch.
type record interface {
	Key() string
	Properties() (map[string]string, error)
}

// Reconciler brings one entity type in the CRM up to date with the
// source: existing records are bulk-updated, missing ones bulk-created,
// ambiguous ones excluded. Batches run strictly in order, one at a
// time, with a pause after each full batch to cooperate with rate
// limits.
type Reconciler struct {
	crm       CRM
	batchSize int
	pause     time.Duration
	sleep     func(time.Duration)
	logger    *zap.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(crm CRM, batchSize int, pause time.Duration, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		crm:       crm,
		batchSize: batchSize,
		pause:     pause,
		sleep:     time.Sleep,
		logger:    logger.Named("reconciler"),
	}
}

// SyncContacts reconciles all contacts.
func (r *Reconciler) SyncContacts(ctx context.Context, contacts []models.SourceContact) models.EntityReport {
	return syncEntity(ctx, r, contactEntity, contacts)
}

// SyncApplications reconciles all applications.
func (r *Reconciler) SyncApplications(ctx context.Context, apps []models.SourceApplication) models.EntityReport {
	return syncEntity(ctx, r, applicationEntity, apps)
}

func syncEntity[T record](ctx context.Context, r *Reconciler, ent entity, records []T) models.EntityReport {
	report := models.EntityReport{Total: len(records)}
	r.logger.Info("Syncing entity",
		zap.String("entity", ent.name),
		zap.Int("records", len(records)),
		zap.Int("batch_size", r.batchSize))

	processed := 0
	for _, batch := range Partition(records, r.batchSize) {
		report.Merge(syncBatch(ctx, r, ent, batch))

		processed += len(batch)
		r.logger.Info("Batch processed",
			zap.String("entity", ent.name),
			zap.Int("processed", processed),
			zap.Int("total", len(records)))

		// A partial batch signals end-of-stream, no need to pace.
		if len(batch) == r.batchSize {
			r.sleep(r.pause)
		}
	}
	return report
}

// syncBatch resolves the batch's identities and dispatches one bulk
// update and one bulk create. A transport failure marks the batch
// failed and the loop moves on; it never aborts the run.
func syncBatch[T record](ctx context.Context, r *Reconciler, ent entity, batch []T) models.BatchOutcome {
	outcome := models.BatchOutcome{Size: len(batch)}

	keys := make([]string, len(batch))
	for i, rec := range batch {
		keys[i] = rec.Key()
	}

	resolution, err := resolveKeys(ctx, r.crm, ent, keys)
	if err != nil {
		r.logger.Error("Identity resolution failed, skipping batch",
			zap.String("entity", ent.name),
			zap.Int("size", len(batch)),
			zap.Error(err))
		outcome.Failed = true
		return outcome
	}

	var updates []hubspot.UpdateInput
	var creates []hubspot.CreateInput
	for _, rec := range batch {
		identity := resolution.Lookup(rec.Key())
		switch identity.State {
		case models.IdentityFound, models.IdentityFoundByAlias:
			props, err := rec.Properties()
			if err != nil {
				excludeRecord(r, ent, &outcome, rec.Key(), err)
				continue
			}
			updates = append(updates, hubspot.UpdateInput{ID: identity.RemoteID, Properties: props})

		case models.IdentityNotFound:
			props, err := rec.Properties()
			if err != nil {
				excludeRecord(r, ent, &outcome, rec.Key(), err)
				continue
			}
			for name, value := range ent.createDefaults {
				props[name] = value
			}
			creates = append(creates, hubspot.CreateInput{Properties: props})

		default:
			r.logger.Warn("Identity neither found nor reported missing, excluding record",
				zap.String("entity", ent.name),
				zap.String("key", rec.Key()))
			outcome.Excluded++
			outcome.ExcludedKeys = append(outcome.ExcludedKeys, rec.Key())
		}
	}

	if len(updates) > 0 {
		resp, err := r.crm.BatchUpdate(ctx, ent.objectType, updates)
		if err != nil {
			r.logger.Error("Bulk update failed",
				zap.String("entity", ent.name),
				zap.Int("records", len(updates)),
				zap.Error(err))
			outcome.Failed = true
		} else {
			outcome.Updated += len(resp.Results)
			collectRowErrors(r, ent, &outcome, "update", resp)
		}
	}

	if len(creates) > 0 {
		resp, err := r.crm.BatchCreate(ctx, ent.objectType, creates)
		if err != nil {
			r.logger.Error("Bulk create failed",
				zap.String("entity", ent.name),
				zap.Int("records", len(creates)),
				zap.Error(err))
			outcome.Failed = true
		} else {
			outcome.Created += len(resp.Results)
			collectRowErrors(r, ent, &outcome, "create", resp)
		}
	}

	return outcome
}

func excludeRecord(r *Reconciler, ent entity, outcome *models.BatchOutcome, key string, err error) {
	r.logger.Warn("Record payload could not be built, excluding from batch",
		zap.String("entity", ent.name),
		zap.String("key", key),
		zap.Error(err))
	outcome.Excluded++
	outcome.ExcludedKeys = append(outcome.ExcludedKeys, key)
}

// collectRowErrors logs CRM-reported row failures from an otherwise
// successful bulk call. Row failures never fail the batch.
func collectRowErrors(r *Reconciler, ent entity, outcome *models.BatchOutcome, op string, resp *hubspot.BatchResponse) {
	if resp.NumErrors == 0 {
		return
	}
	for _, rowErr := range resp.Errors {
		msg := fmt.Sprintf("%s %s: %s: %s", op, ent.name, rowErr.Category, rowErr.Message)
		outcome.RowErrors = append(outcome.RowErrors, msg)
		r.logger.Warn("CRM reported row-level error",
			zap.String("entity", ent.name),
			zap.String("operation", op),
			zap.String("category", rowErr.Category),
			zap.String("message", rowErr.Message),
			zap.Strings("keys", rowErr.Context.IDs))
	}
}
