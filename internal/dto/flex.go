package dto

import "encoding/json"

// FlexString is a scalar that accepts a JSON string, number, or null.
// The wizard frontend sends row values back as whichever type the table
// cell happened to hold, so id/hm/shift fields must tolerate both forms.
type FlexString string

// UnmarshalJSON implements lenient decoding; null becomes "".
func (f *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }
