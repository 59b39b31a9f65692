package records

import "strings"

// Canonical field names used across all four record kinds.
const (
	FieldFileNumber           = "file_number"
	FieldFileName             = "file_name"
	FieldCounselorFirstName   = "counselor_first_name"
	FieldCounselorLastName    = "counselor_last_name"
	FieldTherapyType          = "therapy_type"
	FieldIntakeDate           = "intake_date"
	FieldEndDate              = "end_date"
	FieldLocation             = "location"
	FieldLocationDetail       = "location_detail"
	FieldStatus               = "status"
	FieldSessionDate          = "session_date"
	FieldSupervisionGroup     = "supervision_group"
	FieldSessionStatus        = "session_status"
	FieldSessionPaymentStatus = "session_payment_status"
	FieldPaymentMethod        = "payment_method"
	FieldSessionFee           = "session_fee"
	FieldSessionNote          = "session_note"
)

// fieldVariants maps each canonical field name to the spellings observed
// across CSV revisions. Matching is case-insensitive.
var fieldVariants = map[string][]string{
	FieldFileNumber:            {"FILE_NUMBER", "FILE NUMBER", "File Number", "FILENUMBER", "FileNumber"},
	FieldFileName:              {"File Name", "FILE NAME", "FILENAME", "FileName"},
	"client1_first_name":       {"Client1 First Name", "CLIENT1 FIRST NAME", "Client1FirstName"},
	"client1_last_name":        {"Client1 Last Name", "CLIENT1 LAST NAME", "Client1LastName"},
	"client2_first_name":       {"Client2 First Name", "CLIENT2 FIRST NAME", "Client2FirstName"},
	"client2_last_name":        {"Client2 Last Name", "CLIENT2 LAST NAME", "Client2LastName"},
	"client3_first_name":       {"Client3 First Name", "CLIENT3 FIRST NAME", "Client3FirstName"},
	"client3_last_name":        {"Client3 Last Name", "CLIENT3 LAST NAME", "Client3LastName"},
	"client4_first_name":       {"Client4 First Name", "CLIENT4 FIRST NAME", "Client4FirstName"},
	"client4_last_name":        {"Client4 Last Name", "CLIENT4 LAST NAME", "Client4LastName"},
	FieldCounselorFirstName:    {"Counselor First Name", "COUNSELOR FIRST NAME", "CounselorFirstName"},
	FieldCounselorLastName:     {"Counselor Last Name", "COUNSELOR LAST NAME", "CounselorLastName"},
	FieldLocation:              {"LOCATION", "Location"},
	FieldLocationDetail:        {"LOCATION DETAIL", "Location Detail"},
	FieldTherapyType:           {"THERAPY TYPE", "Therapy Type"},
	FieldIntakeDate:            {"INTAKE DATE", "Intake Date"},
	FieldEndDate:               {"END DATE", "End Date"},
	FieldSessionDate:           {"Session Date", "SESSION DATE"},
	FieldStatus:                {"STATUS", "Status"},
	FieldSessionStatus:         {"Session Status", "SESSION STATUS"},
	FieldSessionPaymentStatus:  {"Session Payment Status", "SESSION PAYMENT STATUS"},
	"emergency_contact_name":   {"EMERGENCY CONTACT NAME", "Emergency Contact Name"},
	"emergency_contact_number": {"EMERGENCY CONTACT NUMBER", "Emergency Contact Number"},
	"city":                     {"CITY", "City"},
	"state":                    {"STATE", "State"},
	"street_address":           {"STREET ADDRESS", "Street Address"},
	"zip":                      {"ZIP", "Zip"},
	"phone":                    {"PHONE", "Phone"},
	"dob":                      {"DOB", "Dob", "Date of Birth", "DATE OF BIRTH"},
	FieldSupervisionGroup:      {"Supervision Group", "SUPERVISION GROUP"},
	FieldPaymentMethod:         {"Payment Method", "PAYMENT METHOD"},
	FieldSessionFee:            {"Session Fee", "SESSION FEE"},
	FieldSessionNote:           {"Session Note", "SESSION NOTE"},
}

// variantIndex maps lowercased variant spellings (and the canonical
// names themselves) to the canonical name.
var variantIndex = buildVariantIndex()

func buildVariantIndex() map[string]string {
	idx := make(map[string]string, len(fieldVariants)*4)
	for canonical, variants := range fieldVariants {
		idx[canonical] = canonical
		for _, v := range variants {
			idx[strings.ToLower(v)] = canonical
		}
	}
	return idx
}

// ClientNameField returns the canonical key for client i's first or
// last name, e.g. ClientNameField(2, false) == "client2_last_name".
func ClientNameField(i int, first bool) string {
	part := "last"
	if first {
		part = "first"
	}
	return "client" + string(rune('0'+i)) + "_" + part + "_name"
}

// NormalizeFieldName maps an observed field name to its canonical
// snake_case form. Known variant spellings resolve through the variant
// table; anything else falls back to a slug rule (lowercase, whitespace
// runs to "_", strip everything outside [a-z0-9_]). Total: every input
// produces an output, empty only for empty input.
func NormalizeFieldName(name string) string {
	if name == "" {
		return ""
	}
	if canonical, ok := variantIndex[strings.ToLower(name)]; ok {
		return canonical
	}
	slugged := slug(name)
	if slugged != "" {
		return slugged
	}
	// Nothing survived the strict slug; map every non-alphanumeric
	// rune to "_" instead so the key is never lost entirely.
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func slug(name string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !inSpace {
				b.WriteByte('_')
				inSpace = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			b.WriteRune(r)
			inSpace = false
		default:
			inSpace = false
		}
	}
	return b.String()
}
