package hubspot

// Object types as they appear in CRM URLs. Applications are a custom
// object; batch endpoints take the numeric type while the association
// endpoints accept its "applications" alias.
const (
	ObjectTypeContacts     = "contacts"
	ObjectTypeApplications = "2-120350606"
	AssocTypeApplications  = "applications"
	AssocTypeContact       = "contact"
)

// ErrorCategoryNotFound is the per-batch error category the CRM uses to
// report keys that do not exist.
const ErrorCategoryNotFound = "OBJECT_NOT_FOUND"

// ApplicationsPipelineID is the pipeline every created application is
// placed into.
const ApplicationsPipelineID = "246305223"

// Association link between a contact and an application.
const (
	AssociationCategoryUserDefined = "USER_DEFINED"
	ContactToApplicationTypeID     = 54
)

// BatchReadRequest asks for existing records by a unique property value.
type BatchReadRequest struct {
	IDProperty string       `json:"idProperty"`
	Properties []string     `json:"properties"`
	Inputs     []BatchInput `json:"inputs"`
}

// BatchInput identifies one record in a bulk call.
type BatchInput struct {
	ID string `json:"id"`
}

// UpdateInput carries new property values for an existing record.
type UpdateInput struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// CreateInput carries property values for a new record.
type CreateInput struct {
	Properties map[string]string `json:"properties"`
}

// BatchResponse is the common shape of bulk read/update/create responses.
type BatchResponse struct {
	Status    string         `json:"status"`
	Results   []ObjectResult `json:"results"`
	NumErrors int            `json:"numErrors"`
	Errors    []BatchError   `json:"errors"`
}

// ObjectResult is one record in a bulk response.
type ObjectResult struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// BatchError is a per-batch error entry, e.g. the not-found list of a
// batch read.
type BatchError struct {
	Status   string            `json:"status"`
	Category string            `json:"category"`
	Message  string            `json:"message"`
	Context  BatchErrorContext `json:"context"`
}

// BatchErrorContext carries the keys an error entry applies to.
type BatchErrorContext struct {
	IDs []string `json:"ids"`
}

// AssociationEdge is one existing association on a record.
type AssociationEdge struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type associationResults struct {
	Results []AssociationEdge `json:"results"`
}

type objectWithAssociations struct {
	ID           string                        `json:"id"`
	Associations map[string]associationResults `json:"associations"`
}

type associationSpec struct {
	AssociationCategory string `json:"associationCategory"`
	AssociationTypeID   int    `json:"associationTypeId"`
}
