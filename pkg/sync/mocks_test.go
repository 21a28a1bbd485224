package sync

import (
	"context"

	"github.com/ekaya-inc/enrollment-sync/pkg/hubspot"
	"github.com/ekaya-inc/enrollment-sync/pkg/models"
)

// fakeCRM implements CRM with overridable behavior and records every
// call so tests can assert on dispatch decisions.
type fakeCRM struct {
	batchReadFn   func(objectType string, req *hubspot.BatchReadRequest) (*hubspot.BatchResponse, error)
	batchUpdateFn func(objectType string, inputs []hubspot.UpdateInput) (*hubspot.BatchResponse, error)
	batchCreateFn func(objectType string, inputs []hubspot.CreateInput) (*hubspot.BatchResponse, error)
	readAssocFn   func(objectType, objectID, toObjectType string) ([]hubspot.AssociationEdge, error)
	createAssocFn func(fromType, fromID, toType, toID string, typeID int) error

	reads        []*hubspot.BatchReadRequest
	updates      [][]hubspot.UpdateInput
	creates      [][]hubspot.CreateInput
	assocReads   []string
	assocCreates []string
}

func (f *fakeCRM) BatchRead(_ context.Context, objectType string, req *hubspot.BatchReadRequest) (*hubspot.BatchResponse, error) {
	f.reads = append(f.reads, req)
	if f.batchReadFn != nil {
		return f.batchReadFn(objectType, req)
	}
	return &hubspot.BatchResponse{Status: "COMPLETE"}, nil
}

func (f *fakeCRM) BatchUpdate(_ context.Context, objectType string, inputs []hubspot.UpdateInput) (*hubspot.BatchResponse, error) {
	f.updates = append(f.updates, inputs)
	if f.batchUpdateFn != nil {
		return f.batchUpdateFn(objectType, inputs)
	}
	results := make([]hubspot.ObjectResult, len(inputs))
	for i, in := range inputs {
		results[i] = hubspot.ObjectResult{ID: in.ID, Properties: in.Properties}
	}
	return &hubspot.BatchResponse{Status: "COMPLETE", Results: results}, nil
}

func (f *fakeCRM) BatchCreate(_ context.Context, objectType string, inputs []hubspot.CreateInput) (*hubspot.BatchResponse, error) {
	f.creates = append(f.creates, inputs)
	if f.batchCreateFn != nil {
		return f.batchCreateFn(objectType, inputs)
	}
	results := make([]hubspot.ObjectResult, len(inputs))
	for i, in := range inputs {
		results[i] = hubspot.ObjectResult{ID: "new", Properties: in.Properties}
	}
	return &hubspot.BatchResponse{Status: "COMPLETE", Results: results}, nil
}

func (f *fakeCRM) ReadAssociations(_ context.Context, objectType, objectID, toObjectType string) ([]hubspot.AssociationEdge, error) {
	f.assocReads = append(f.assocReads, objectID)
	if f.readAssocFn != nil {
		return f.readAssocFn(objectType, objectID, toObjectType)
	}
	return nil, nil
}

func (f *fakeCRM) CreateAssociation(_ context.Context, fromType, fromID, toType, toID string, typeID int) error {
	f.assocCreates = append(f.assocCreates, fromID+"->"+toID)
	if f.createAssocFn != nil {
		return f.createAssocFn(fromType, fromID, toType, toID, typeID)
	}
	return nil
}

var _ CRM = (*fakeCRM)(nil)

// readResponse builds a batch-read response: found maps canonical key to
// remote id, aliased maps alias values onto an existing remote record,
// and notFound lists keys the CRM explicitly reports missing.
func readResponse(idProperty string, found map[string]string, aliased map[string]remoteAlias, notFound []string) *hubspot.BatchResponse {
	resp := &hubspot.BatchResponse{Status: "COMPLETE"}
	for key, id := range found {
		resp.Results = append(resp.Results, hubspot.ObjectResult{
			ID:         id,
			Properties: map[string]string{idProperty: key},
		})
	}
	for canonical, alias := range aliased {
		resp.Results = append(resp.Results, hubspot.ObjectResult{
			ID: alias.id,
			Properties: map[string]string{
				idProperty:             canonical,
				"hs_additional_emails": alias.value,
			},
		})
	}
	if len(notFound) > 0 {
		resp.NumErrors = 1
		resp.Errors = append(resp.Errors, hubspot.BatchError{
			Status:   "error",
			Category: hubspot.ErrorCategoryNotFound,
			Message:  "Could not get some objects",
			Context:  hubspot.BatchErrorContext{IDs: notFound},
		})
	}
	return resp
}

type remoteAlias struct {
	id    string
	value string
}

// fakeSource implements Source for service tests.
type fakeSource struct {
	contacts []models.SourceContact
	apps     []models.SourceApplication
	err      error
}

func (f *fakeSource) Contacts(context.Context) ([]models.SourceContact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.contacts, nil
}

func (f *fakeSource) Applications(context.Context) ([]models.SourceApplication, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.apps, nil
}
