package layouts

// AppName is shown in page titles and the header.
const AppName = "Property Manager"

// CalculateTitle handles the conditional logic for the page title.
func CalculateTitle(title string) string {
	if title != "" {
		return title + " - " + AppName
	}
	return AppName
}
