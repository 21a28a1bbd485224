package ebs

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var contactColumns = []string{
	"PERSONAL_EMAIL", "FIRST_NAME", "LAST_NAME", "STUDENT_REFERENCE",
	"DATE_OF_BIRTH", "SCHOOL_CODE", "SCHOOL_DESCRIPTION",
	"PHONE_NUMBER", "MOBILE_PHONE_NUMBER", "POSTAL_CODE",
	"MARKETING_CONSENT", "MARKETING_CONTACT_METHODS",
}

var applicationColumns = []string{
	"PERSONAL_EMAIL", "UNIT_ID", "STAGE",
	"COURSE_OCCURRENCE", "COURSE_CODE", "WEBTITLE",
	"COLLEGE_CODE", "COLLEGE_FULLNAME",
	"ORG_L1_CODE", "ORG_L1_FULLNAME",
	"ORG_L2_CODE", "ORG_L2_FULLNAME",
	"ORG_L3_CODE", "ORG_L3_FULLNAME",
	"CREATED_DATE", "STUDY_LOCATION_CODE", "STUDY_LOCATION_DESCRIPTION",
	"STUDY_LOCATION_POSTCODE", "QUALIFICATION_TYPE",
}

func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewClient(db, zap.NewNop()), mock
}

func TestContacts_MapsAndNormalizesRows(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("SELECT (.+) FROM Contacts").WillReturnRows(
		sqlmock.NewRows(contactColumns).
			AddRow(" Jane.Doe@Example.COM ", "Jane", "Doe", "S123",
				"01/01/2000", "SCH1", "Engineering",
				"0123", nil, "AB1 2CD",
				"Y", nil))

	contacts, err := client.Contacts(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)

	contact := contacts[0]
	assert.Equal(t, "jane.doe@example.com", contact.Email, "email key is normalized")
	assert.Equal(t, "Jane", contact.FirstName)
	assert.Equal(t, "S123", contact.StudentReference)
	assert.Equal(t, "0123", contact.Phone)
	assert.Empty(t, contact.MobilePhone, "NULL column maps to absent field")
	assert.Equal(t, "Y", contact.MarketingConsent)
	assert.True(t, contact.HasAge)
	assert.Positive(t, contact.Age)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContacts_QueryFailureIsFatal(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("SELECT (.+) FROM Contacts").WillReturnError(assert.AnError)

	_, err := client.Contacts(context.Background())
	require.Error(t, err)
}

func TestApplications_NormalizesNumericUnitID(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("SELECT (.+) FROM Applications").WillReturnRows(
		sqlmock.NewRows(applicationColumns).
			AddRow("jane.doe@example.com", int64(1001), " OFFERED ",
				"OCC1", "CS101", "Computer Science BSc",
				"COL1", "Central College",
				"L1", "Faculty", "L2", "School", "L3", "Department",
				"05/02/2026", nil, nil, nil, "BSc"))

	apps, err := client.Applications(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 1)

	app := apps[0]
	assert.Equal(t, "1001", app.UnitID, "numeric unit id compares as string")
	assert.Equal(t, "offered", app.Stage, "stage is lower-cased and trimmed")
	assert.Equal(t, "Computer Science BSc", app.WebsiteAdvertisedTitle)
	assert.Equal(t, "Department", app.OrgLevel3Name)
	assert.Empty(t, app.StudyLocationCode)
	assert.Equal(t, "BSc", app.QualificationType)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplications_EmptyResult(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("SELECT (.+) FROM Applications").WillReturnRows(
		sqlmock.NewRows(applicationColumns))

	apps, err := client.Applications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestStringValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"string", " 1001 ", "1001"},
		{"bytes", []byte("1001"), "1001"},
		{"int64", int64(1001), "1001"},
		{"whole float", float64(1001), "1001"},
		{"fractional float", 10.5, "10.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stringValue(tt.input))
		})
	}
}
