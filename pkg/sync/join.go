package sync

import (
	"go.uber.org/zap"

	"github.com/ekaya-inc/enrollment-sync/pkg/models"
)

// Join merges application rows onto their owning contacts by normalized
// email. Contacts keep first-seen order; a duplicate email keeps the
// later row's fields in the earlier position. Applications whose email
// matches no contact are dropped without error. The owning contact's
// name and reference are denormalized onto each application.
func Join(contacts []models.SourceContact, apps []models.SourceApplication, logger *zap.Logger) []models.JoinedContact {
	index := make(map[string]int, len(contacts))
	joined := make([]models.JoinedContact, 0, len(contacts))

	for _, contact := range contacts {
		key := contact.Key()
		if key == "" {
			logger.Warn("Dropping contact without email",
				zap.String("student_reference", contact.StudentReference))
			continue
		}
		contact.Email = key

		if i, ok := index[key]; ok {
			logger.Warn("Duplicate contact email in source; keeping latest row",
				zap.String("email", key),
				zap.String("kept_student_reference", contact.StudentReference),
				zap.String("replaced_student_reference", joined[i].Contact.StudentReference))
			joined[i].Contact = contact
			continue
		}
		index[key] = len(joined)
		joined = append(joined, models.JoinedContact{Contact: contact})
	}

	dropped := 0
	for _, app := range apps {
		i, ok := index[models.NormalizeKey(app.Email)]
		if !ok {
			dropped++
			continue
		}

		owner := joined[i].Contact
		app.Email = owner.Email
		app.Stage = models.NormalizeKey(app.Stage)
		app.StudentReference = owner.StudentReference
		app.StudentFirstName = owner.FirstName
		app.StudentLastName = owner.LastName
		joined[i].Applications = append(joined[i].Applications, app)
	}

	if dropped > 0 {
		logger.Info("Dropped applications with no matching contact", zap.Int("count", dropped))
	}
	return joined
}
