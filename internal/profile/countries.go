package profile

import "strings"

// Country is selectable country metadata for the profile form.
type Country struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	DialCode string `json:"dialCode"`
	Flag     string `json:"flag"`
}

const flagBaseURL = "https://flagcdn.com/w20"

// Countries lists the selectable countries, sorted by code.
var Countries = []Country{
	{Code: "AE", Name: "UAE", DialCode: "+971"},
	{Code: "AR", Name: "Argentina", DialCode: "+54"},
	{Code: "AT", Name: "Austria", DialCode: "+43"},
	{Code: "AU", Name: "Australia", DialCode: "+61"},
	{Code: "BE", Name: "Belgium", DialCode: "+32"},
	{Code: "BR", Name: "Brazil", DialCode: "+55"},
	{Code: "CA", Name: "Canada", DialCode: "+1"},
	{Code: "CH", Name: "Switzerland", DialCode: "+41"},
	{Code: "CL", Name: "Chile", DialCode: "+56"},
	{Code: "CN", Name: "China", DialCode: "+86"},
	{Code: "CO", Name: "Colombia", DialCode: "+57"},
	{Code: "CZ", Name: "Czech Republic", DialCode: "+420"},
	{Code: "DE", Name: "Germany", DialCode: "+49"},
	{Code: "DK", Name: "Denmark", DialCode: "+45"},
	{Code: "EG", Name: "Egypt", DialCode: "+20"},
	{Code: "ES", Name: "Spain", DialCode: "+34"},
	{Code: "FI", Name: "Finland", DialCode: "+358"},
	{Code: "FR", Name: "France", DialCode: "+33"},
	{Code: "GB", Name: "United Kingdom", DialCode: "+44"},
	{Code: "GR", Name: "Greece", DialCode: "+30"},
	{Code: "HU", Name: "Hungary", DialCode: "+36"},
	{Code: "ID", Name: "Indonesia", DialCode: "+62"},
	{Code: "IE", Name: "Ireland", DialCode: "+353"},
	{Code: "IL", Name: "Israel", DialCode: "+972"},
	{Code: "IN", Name: "India", DialCode: "+91"},
	{Code: "IT", Name: "Italy", DialCode: "+39"},
	{Code: "JP", Name: "Japan", DialCode: "+81"},
	{Code: "KE", Name: "Kenya", DialCode: "+254"},
	{Code: "KR", Name: "South Korea", DialCode: "+82"},
	{Code: "LU", Name: "Luxembourg", DialCode: "+352"},
	{Code: "MX", Name: "Mexico", DialCode: "+52"},
	{Code: "MY", Name: "Malaysia", DialCode: "+60"},
	{Code: "NG", Name: "Nigeria", DialCode: "+234"},
	{Code: "NL", Name: "Netherlands", DialCode: "+31"},
	{Code: "NO", Name: "Norway", DialCode: "+47"},
	{Code: "NZ", Name: "New Zealand", DialCode: "+64"},
	{Code: "PE", Name: "Peru", DialCode: "+51"},
	{Code: "PH", Name: "Philippines", DialCode: "+63"},
	{Code: "PL", Name: "Poland", DialCode: "+48"},
	{Code: "PT", Name: "Portugal", DialCode: "+351"},
	{Code: "RO", Name: "Romania", DialCode: "+40"},
	{Code: "RU", Name: "Russia", DialCode: "+7"},
	{Code: "SA", Name: "Saudi Arabia", DialCode: "+966"},
	{Code: "SE", Name: "Sweden", DialCode: "+46"},
	{Code: "SG", Name: "Singapore", DialCode: "+65"},
	{Code: "TH", Name: "Thailand", DialCode: "+66"},
	{Code: "TR", Name: "Turkey", DialCode: "+90"},
	{Code: "US", Name: "United States", DialCode: "+1"},
	{Code: "VN", Name: "Vietnam", DialCode: "+84"},
	{Code: "ZA", Name: "South Africa", DialCode: "+27"},
}

func init() {
	for i := range Countries {
		Countries[i].Flag = flagBaseURL + "/" + strings.ToLower(Countries[i].Code) + ".png"
	}
}

// CountryByCode looks up country metadata by ISO code.
func CountryByCode(code string) (Country, bool) {
	for _, c := range Countries {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}
