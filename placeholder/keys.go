// Package placeholder maps symbolic {Key} tokens in a template to values
// from report data.
//
// The built-in key set is closed and documented below; anything else falls
// through to the report's extension map, and keys that match neither
// resolve to the empty string. Resolution never echoes the raw key back
// into output.
package placeholder

// Built-in placeholder keys, grouped by category. These are the complete
// set the resolver recognizes; the braces are part of the key.
const (
	// Institution
	KeyInstitutionName    = "{InstitutionName}"
	KeyInstitutionAddress = "{InstitutionAddress}"
	KeyInstitutionPhone   = "{InstitutionPhone}"
	KeyInstitutionFax     = "{InstitutionFax}"
	KeyInstitutionEmail   = "{InstitutionEmail}"
	KeyInstitutionWebsite = "{InstitutionWebsite}"
	KeyDepartmentName     = "{DepartmentName}"
	KeyRoomName           = "{RoomName}"

	// Subject
	KeySubjectName      = "{SubjectName}"
	KeySubjectNumber    = "{SubjectNumber}"
	KeySubjectBirthDate = "{SubjectBirthDate}"
	KeySubjectAge       = "{SubjectAge}"
	KeySubjectGender    = "{SubjectGender}"
	KeySubjectAddress   = "{SubjectAddress}"
	KeySubjectPhone     = "{SubjectPhone}"
	KeySubjectInsurance = "{SubjectInsurance}"

	// Examination
	KeyExamName           = "{ExamName}"
	KeyExamDate           = "{ExamDate}"
	KeyExamTime           = "{ExamTime}"
	KeyExamDateTime       = "{ExamDateTime}"
	KeyExamRoom           = "{ExamRoom}"
	KeyClinicalNotes      = "{ClinicalNotes}"
	KeyExamResult         = "{ExamResult}"
	KeyExamConclusion     = "{ExamConclusion}"
	KeyExamRecommendation = "{ExamRecommendation}"

	// Staff
	KeyStaffName        = "{StaffName}"
	KeyStaffCredentials = "{StaffCredentials}"
	KeyStaffSpecialty   = "{StaffSpecialty}"

	// Date/time
	KeyCurrentDate     = "{CurrentDate}"
	KeyCurrentTime     = "{CurrentTime}"
	KeyCurrentDateTime = "{CurrentDateTime}"
	KeyPrintDate       = "{PrintDate}"

	// Document
	KeyDocumentID = "{DocumentID}"
)

// Categories for organizing placeholder definitions in editing tooling.
const (
	CategoryInstitution = "Institution"
	CategorySubject     = "Subject"
	CategoryExamination = "Examination"
	CategoryStaff       = "Staff"
	CategoryDateTime    = "DateTime"
	CategoryDocument    = "Document"
	CategoryCustom      = "Custom"
)

// DataType describes a definition's value type for editing tooling.
type DataType string

const (
	TypeString   DataType = "string"
	TypeInteger  DataType = "integer"
	TypeDecimal  DataType = "decimal"
	TypeDate     DataType = "date"
	TypeDateTime DataType = "datetime"
	TypeBoolean  DataType = "boolean"
	TypeImage    DataType = "image"
)

// Definition is placeholder metadata for storage and editing surfaces. The
// resolver itself does not consult definitions.
type Definition struct {
	ID          int      `json:"id"`
	Key         string   `json:"key"`
	DisplayName string   `json:"displayName"`
	Category    string   `json:"category"`
	DataType    DataType `json:"dataType"`
	Default     string   `json:"default,omitempty"`
	Format      string   `json:"format,omitempty"`
	System      bool     `json:"system"`
}

// SystemDefinitions returns metadata for every built-in key, in display
// order. Repositories seed their definition tables from this list.
func SystemDefinitions() []Definition {
	defs := []Definition{
		{Key: KeyInstitutionName, DisplayName: "Institution Name", Category: CategoryInstitution, DataType: TypeString},
		{Key: KeyInstitutionAddress, DisplayName: "Institution Address", Category: CategoryInstitution, DataType: TypeString},
		{Key: KeyInstitutionPhone, DisplayName: "Institution Phone", Category: CategoryInstitution, DataType: TypeString},
		{Key: KeyInstitutionFax, DisplayName: "Institution Fax", Category: CategoryInstitution, DataType: TypeString},
		{Key: KeyInstitutionEmail, DisplayName: "Institution Email", Category: CategoryInstitution, DataType: TypeString},
		{Key: KeyInstitutionWebsite, DisplayName: "Institution Website", Category: CategoryInstitution, DataType: TypeString},
		{Key: KeyDepartmentName, DisplayName: "Department", Category: CategoryInstitution, DataType: TypeString},
		{Key: KeyRoomName, DisplayName: "Room", Category: CategoryInstitution, DataType: TypeString},

		{Key: KeySubjectName, DisplayName: "Subject Name", Category: CategorySubject, DataType: TypeString},
		{Key: KeySubjectNumber, DisplayName: "Record Number", Category: CategorySubject, DataType: TypeString},
		{Key: KeySubjectBirthDate, DisplayName: "Birth Date", Category: CategorySubject, DataType: TypeDate, Format: "dd MMMM yyyy"},
		{Key: KeySubjectAge, DisplayName: "Age", Category: CategorySubject, DataType: TypeInteger},
		{Key: KeySubjectGender, DisplayName: "Gender", Category: CategorySubject, DataType: TypeString},
		{Key: KeySubjectAddress, DisplayName: "Subject Address", Category: CategorySubject, DataType: TypeString},
		{Key: KeySubjectPhone, DisplayName: "Subject Phone", Category: CategorySubject, DataType: TypeString},
		{Key: KeySubjectInsurance, DisplayName: "Insurance", Category: CategorySubject, DataType: TypeString},

		{Key: KeyExamName, DisplayName: "Examination Name", Category: CategoryExamination, DataType: TypeString},
		{Key: KeyExamDate, DisplayName: "Examination Date", Category: CategoryExamination, DataType: TypeDate, Format: "dd MMMM yyyy"},
		{Key: KeyExamTime, DisplayName: "Examination Time", Category: CategoryExamination, DataType: TypeString},
		{Key: KeyExamDateTime, DisplayName: "Examination Date & Time", Category: CategoryExamination, DataType: TypeDateTime},
		{Key: KeyExamRoom, DisplayName: "Examination Room", Category: CategoryExamination, DataType: TypeString},
		{Key: KeyClinicalNotes, DisplayName: "Clinical Notes", Category: CategoryExamination, DataType: TypeString},
		{Key: KeyExamResult, DisplayName: "Result", Category: CategoryExamination, DataType: TypeString},
		{Key: KeyExamConclusion, DisplayName: "Conclusion", Category: CategoryExamination, DataType: TypeString},
		{Key: KeyExamRecommendation, DisplayName: "Recommendation", Category: CategoryExamination, DataType: TypeString},

		{Key: KeyStaffName, DisplayName: "Staff Name", Category: CategoryStaff, DataType: TypeString},
		{Key: KeyStaffCredentials, DisplayName: "Credentials", Category: CategoryStaff, DataType: TypeString},
		{Key: KeyStaffSpecialty, DisplayName: "Specialty", Category: CategoryStaff, DataType: TypeString},

		{Key: KeyCurrentDate, DisplayName: "Current Date", Category: CategoryDateTime, DataType: TypeDate},
		{Key: KeyCurrentTime, DisplayName: "Current Time", Category: CategoryDateTime, DataType: TypeString},
		{Key: KeyCurrentDateTime, DisplayName: "Current Date & Time", Category: CategoryDateTime, DataType: TypeDateTime},
		{Key: KeyPrintDate, DisplayName: "Print Date", Category: CategoryDateTime, DataType: TypeDate},

		{Key: KeyDocumentID, DisplayName: "Document ID", Category: CategoryDocument, DataType: TypeString},
	}
	for i := range defs {
		defs[i].System = true
	}
	return defs
}
