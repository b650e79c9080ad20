package form

// Country is an entry of the country code selection.
type Country struct {
	Name string
	Code string
}

// Countries lists the selectable country codes in display order.
var Countries = []Country{
	{Name: "United States", Code: "+1"},
	{Name: "India", Code: "+91"},
	{Name: "United Kingdom", Code: "+44"},
	{Name: "Canada", Code: "+14"},
	{Name: "Australia", Code: "+61"},
}

// CountryName returns the name that belongs to a country code.
func CountryName(code string) (string, bool) {
	for _, c := range Countries {
		if c.Code == code {
			return c.Name, true
		}
	}
	return "", false
}
