package ebs

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/enrollment-sync/pkg/models"
)

const contactsQuery = `
SELECT PERSONAL_EMAIL, FIRST_NAME, LAST_NAME, STUDENT_REFERENCE,
       DATE_OF_BIRTH, SCHOOL_CODE, SCHOOL_DESCRIPTION,
       PHONE_NUMBER, MOBILE_PHONE_NUMBER, POSTAL_CODE,
       MARKETING_CONSENT, MARKETING_CONTACT_METHODS
FROM Contacts`

const applicationsQuery = `
SELECT PERSONAL_EMAIL, UNIT_ID, STAGE,
       COURSE_OCCURRENCE, COURSE_CODE, WEBTITLE,
       COLLEGE_CODE, COLLEGE_FULLNAME,
       ORG_L1_CODE, ORG_L1_FULLNAME,
       ORG_L2_CODE, ORG_L2_FULLNAME,
       ORG_L3_CODE, ORG_L3_FULLNAME,
       CREATED_DATE, STUDY_LOCATION_CODE, STUDY_LOCATION_DESCRIPTION,
       STUDY_LOCATION_POSTCODE, QUALIFICATION_TYPE
FROM Applications`

// Contacts returns all rows of the Contacts table mapped to
// SourceContact, with the email key normalized and the age derived from
// the date of birth.
func (c *Client) Contacts(ctx context.Context) ([]models.SourceContact, error) {
	rows, err := c.db.QueryContext(ctx, contactsQuery)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var contacts []models.SourceContact
	for rows.Next() {
		var (
			email, firstName, lastName, studentRef      sql.NullString
			dob, schoolCode, schoolTitle                sql.NullString
			phone, mobile, zip, consent, contactMethods sql.NullString
		)
		if err := rows.Scan(&email, &firstName, &lastName, &studentRef,
			&dob, &schoolCode, &schoolTitle,
			&phone, &mobile, &zip,
			&consent, &contactMethods); err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}

		contact := models.SourceContact{
			Email:                   models.NormalizeKey(email.String),
			FirstName:               firstName.String,
			LastName:                lastName.String,
			StudentReference:        studentRef.String,
			DateOfBirth:             dob.String,
			SchoolCode:              schoolCode.String,
			SchoolTitle:             schoolTitle.String,
			Phone:                   phone.String,
			MobilePhone:             mobile.String,
			Zip:                     zip.String,
			MarketingConsent:        consent.String,
			MarketingContactMethods: contactMethods.String,
		}
		contact.Age, contact.HasAge = models.AgeFromDOB(contact.DateOfBirth, now)
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact rows: %w", err)
	}

	c.logger.Info("Fetched contacts from EBS", zap.Int("count", len(contacts)))
	return contacts, nil
}

// Applications returns all rows of the Applications table mapped to
// SourceApplication. The unit id is normalized to a string regardless of
// its source column type, and the stage is lower-cased and trimmed.
func (c *Client) Applications(ctx context.Context) ([]models.SourceApplication, error) {
	rows, err := c.db.QueryContext(ctx, applicationsQuery)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var apps []models.SourceApplication
	for rows.Next() {
		var (
			email, stage                              sql.NullString
			unitID                                    any
			courseOcc, courseCode, webTitle           sql.NullString
			collegeCode, collegeName                  sql.NullString
			org1Code, org1Name, org2Code, org2Name    sql.NullString
			org3Code, org3Name, createdDate           sql.NullString
			studyCode, studyDesc, studyPostcode, qual sql.NullString
		)
		if err := rows.Scan(&email, &unitID, &stage,
			&courseOcc, &courseCode, &webTitle,
			&collegeCode, &collegeName,
			&org1Code, &org1Name,
			&org2Code, &org2Name,
			&org3Code, &org3Name,
			&createdDate, &studyCode, &studyDesc,
			&studyPostcode, &qual); err != nil {
			return nil, fmt.Errorf("scan application row: %w", err)
		}

		apps = append(apps, models.SourceApplication{
			Email:                    models.NormalizeKey(email.String),
			UnitID:                   stringValue(unitID),
			Stage:                    models.NormalizeKey(stage.String),
			CourseOccurrence:         courseOcc.String,
			CourseCode:               courseCode.String,
			WebsiteAdvertisedTitle:   webTitle.String,
			CollegeCode:              collegeCode.String,
			CollegeName:              collegeName.String,
			OrgLevel1Code:            org1Code.String,
			OrgLevel1Name:            org1Name.String,
			OrgLevel2Code:            org2Code.String,
			OrgLevel2Name:            org2Name.String,
			OrgLevel3Code:            org3Code.String,
			OrgLevel3Name:            org3Name.String,
			ApplicationCreatedDate:   createdDate.String,
			StudyLocationCode:        studyCode.String,
			StudyLocationDescription: studyDesc.String,
			StudyLocationPostcode:    studyPostcode.String,
			QualificationType:        qual.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate application rows: %w", err)
	}

	c.logger.Info("Fetched applications from EBS", zap.Int("count", len(apps)))
	return apps, nil
}

// stringValue normalizes a driver value to a trimmed string. UNIT_ID is
// numeric in some EBS schemas and text in others; comparing as a string
// avoids type-coercion mismatches against the CRM.
func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []byte:
		return strings.TrimSpace(string(val))
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
