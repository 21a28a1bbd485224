package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/ekaya-inc/enrollment-sync/pkg/hubspot"
	"github.com/ekaya-inc/enrollment-sync/pkg/models"
)

// entity describes how one entity type is identified remotely.
type entity struct {
	name          string
	objectType    string
	idProperty    string
	aliasProperty string

	// createDefaults are properties set only on newly created records.
	createDefaults map[string]string
}

var contactEntity = entity{
	name:          "contacts",
	objectType:    hubspot.ObjectTypeContacts,
	idProperty:    "email",
	aliasProperty: "hs_additional_emails",
}

var applicationEntity = entity{
	name:       "applications",
	objectType: hubspot.ObjectTypeApplications,
	idProperty: "unit_id",
	createDefaults: map[string]string{
		"hs_pipeline": hubspot.ApplicationsPipelineID,
	},
}

func (e entity) readProperties() []string {
	props := []string{e.idProperty}
	if e.aliasProperty != "" {
		props = append(props, e.aliasProperty)
	}
	return props
}

// Resolution holds the remote identity of every local key in one batch,
// keyed by normalized key. The zero value of a lookup is ambiguous,
// never a guess.
type Resolution map[string]models.RemoteIdentity

// Lookup returns the identity for a local key.
func (r Resolution) Lookup(key string) models.RemoteIdentity {
	return r[models.NormalizeKey(key)]
}

// resolveKeys issues one bulk read for the batch and classifies every
// local key as found, found under an alias, explicitly not found, or
// ambiguous. Matching normalizes both sides so case or whitespace drift
// between the source and the CRM cannot produce false negatives.
func resolveKeys(ctx context.Context, crm CRM, ent entity, keys []string) (Resolution, error) {
	req := &hubspot.BatchReadRequest{
		IDProperty: ent.idProperty,
		Properties: ent.readProperties(),
		Inputs:     make([]hubspot.BatchInput, 0, len(keys)),
	}
	for _, key := range keys {
		req.Inputs = append(req.Inputs, hubspot.BatchInput{ID: key})
	}

	resp, err := crm.BatchRead(ctx, ent.objectType, req)
	if err != nil {
		return nil, fmt.Errorf("resolve %s identities: %w", ent.name, err)
	}

	canonical := make(map[string]string, len(resp.Results))
	aliases := make(map[string]string)
	for _, result := range resp.Results {
		if key := models.NormalizeKey(result.Properties[ent.idProperty]); key != "" {
			canonical[key] = result.ID
		}
		if ent.aliasProperty == "" {
			continue
		}
		// The alias property can hold several values separated by ";".
		for _, alias := range strings.Split(result.Properties[ent.aliasProperty], ";") {
			if key := models.NormalizeKey(alias); key != "" {
				aliases[key] = result.ID
			}
		}
	}

	notFound := make(map[string]bool)
	for _, batchErr := range resp.Errors {
		if batchErr.Category != hubspot.ErrorCategoryNotFound {
			continue
		}
		for _, id := range batchErr.Context.IDs {
			notFound[models.NormalizeKey(id)] = true
		}
	}

	resolution := make(Resolution, len(keys))
	for _, key := range keys {
		normalized := models.NormalizeKey(key)
		switch {
		case canonical[normalized] != "":
			resolution[normalized] = models.RemoteIdentity{State: models.IdentityFound, RemoteID: canonical[normalized]}
		case aliases[normalized] != "":
			resolution[normalized] = models.RemoteIdentity{State: models.IdentityFoundByAlias, RemoteID: aliases[normalized]}
		case notFound[normalized]:
			resolution[normalized] = models.RemoteIdentity{State: models.IdentityNotFound}
		default:
			resolution[normalized] = models.RemoteIdentity{State: models.IdentityAmbiguous}
		}
	}
	return resolution, nil
}
