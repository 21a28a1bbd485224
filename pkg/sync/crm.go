package sync

import (
	"context"

	"github.com/ekaya-inc/enrollment-sync/pkg/hubspot"
	"github.com/ekaya-inc/enrollment-sync/pkg/models"
)

// CRM is the narrow view of the remote API the sync engine needs.
// Implemented by *hubspot.Client.
type CRM interface {
	BatchRead(ctx context.Context, objectType string, req *hubspot.BatchReadRequest) (*hubspot.BatchResponse, error)
	BatchUpdate(ctx context.Context, objectType string, inputs []hubspot.UpdateInput) (*hubspot.BatchResponse, error)
	BatchCreate(ctx context.Context, objectType string, inputs []hubspot.CreateInput) (*hubspot.BatchResponse, error)
	ReadAssociations(ctx context.Context, objectType, objectID, toObjectType string) ([]hubspot.AssociationEdge, error)
	CreateAssociation(ctx context.Context, fromType, fromID, toType, toID string, typeID int) error
}

// Source is the read-only view of the EBS database.
// Implemented by *ebs.Client.
type Source interface {
	Contacts(ctx context.Context) ([]models.SourceContact, error)
	Applications(ctx context.Context) ([]models.SourceApplication, error)
}
