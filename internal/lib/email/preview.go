package email

// PreviewData contains sample template data for local preview.
//
//	PreviewData[TemplateWelcome].Email == "reader@example.com"
var PreviewData = map[Template]any{
	TemplateWelcome: WelcomeData{
		Email:   "reader@example.com",
		SiteURL: "https://example.com/",
	},
}

// Preview renders name with its PreviewData. A non-empty to replaces the
// sample recipient address.
func Preview(name Template, to string) (string, error) {
	data := PreviewData[name]
	if wd, ok := data.(WelcomeData); ok && to != "" {
		wd.Email = to
		data = wd
	}
	return Render(name, data)
}
