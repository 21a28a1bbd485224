package models

// SourceApplication is one row from the EBS Applications table. UnitID is
// the identity key, normalized to a string so numeric and textual source
// columns compare equal. The Student* fields are denormalized from the
// owning contact at join time.
type SourceApplication struct {
	UnitID string
	Email  string
	Stage  string

	StudentReference string
	StudentFirstName string
	StudentLastName  string

	CourseOccurrence       string
	CourseCode             string
	WebsiteAdvertisedTitle string
	CollegeCode            string
	CollegeName            string
	OrgLevel1Code          string
	OrgLevel1Name          string
	OrgLevel2Code          string
	OrgLevel2Name          string
	OrgLevel3Code          string
	OrgLevel3Name          string
	ApplicationCreatedDate string

	// Optional fields; empty means absent and is omitted from payloads.
	StudyLocationCode        string
	StudyLocationDescription string
	StudyLocationPostcode    string
	QualificationType        string
}

// Key returns the application's normalized business key.
func (a SourceApplication) Key() string {
	return NormalizeKey(a.UnitID)
}

// Properties builds the outbound CRM property map. The pipeline stage is
// translated to its remote code; an unknown stage is an error and the
// record must not be sent without the field.
func (a SourceApplication) Properties() (map[string]string, error) {
	code, err := StageCode(a.Stage)
	if err != nil {
		return nil, err
	}
	props := map[string]string{
		"unit_id":                  a.UnitID,
		"email":                    a.Email,
		"student_reference":        a.StudentReference,
		"student_first_name":       a.StudentFirstName,
		"student_last_name":        a.StudentLastName,
		"course_occurrence":        a.CourseOccurrence,
		"course_code":              a.CourseCode,
		"website_advertised_title": a.WebsiteAdvertisedTitle,
		"college_code":             a.CollegeCode,
		"college_name":             a.CollegeName,
		"org_level_1_code":         a.OrgLevel1Code,
		"org_level_1_name":         a.OrgLevel1Name,
		"org_level_2_code":         a.OrgLevel2Code,
		"org_level_2_name":         a.OrgLevel2Name,
		"org_level_3_code":         a.OrgLevel3Code,
		"org_level_3_name":         a.OrgLevel3Name,
		"application_created_date": a.ApplicationCreatedDate,
		"hs_pipeline_stage":        code,
	}
	setIfPresent(props, "study_location_code", a.StudyLocationCode)
	setIfPresent(props, "study_location_description", a.StudyLocationDescription)
	setIfPresent(props, "study_location_postcode", a.StudyLocationPostcode)
	setIfPresent(props, "qualification_type", a.QualificationType)
	return props, nil
}
