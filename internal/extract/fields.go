package extract

// Fields holds the structured values pulled from a document's recognized
// text. A nil member means the field was not found.
type Fields struct {
	Name          *string `json:"name"`
	AccountNumber *string `json:"account_number"`
	IFSCCode      *string `json:"ifsc_code"`
	Aadhaar       *string `json:"aadhaar"`
	SurveyNumber  *string `json:"survey_number"`
	Area          *string `json:"area"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
}

// Empty reports whether no field was extracted.
func (f *Fields) Empty() bool {
	return f.Name == nil &&
		f.AccountNumber == nil &&
		f.IFSCCode == nil &&
		f.Aadhaar == nil &&
		f.SurveyNumber == nil &&
		f.Area == nil &&
		f.Address == nil &&
		f.Phone == nil
}

// Count returns how many fields were extracted.
func (f *Fields) Count() int {
	n := 0
	for _, v := range []*string{
		f.Name, f.AccountNumber, f.IFSCCode, f.Aadhaar,
		f.SurveyNumber, f.Area, f.Address, f.Phone,
	} {
		if v != nil {
			n++
		}
	}
	return n
}

func strPtr(s string) *string { return &s }
