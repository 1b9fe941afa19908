package authscreen

// User-visible alert text. The title of every alert is AlertTitle.
const (
	AlertTitle        = "Error"
	MsgFieldsRequired = "All fields are required for registration."
	MsgRegisterFailed = "Failed to register"
	MsgLoginFailed    = "Failed to login"
)

// Copy holds the mode-dependent text of the sign-in screen.
type Copy struct {
	Title               string
	Brand               string
	Subtitle            string
	SubmitLabel         string
	ToggleLabel         string
	GoogleLabel         string
	NamePlaceholder     string
	EmailPlaceholder    string
	PasswordPlaceholder string
	// ShowName is true when the name input belongs on the form.
	ShowName bool
}

// CopyFor returns the screen text for the given mode.
func CopyFor(m Mode) Copy {
	c := Copy{
		Title:               "Welcome to",
		Brand:               "Property Manager",
		GoogleLabel:         "Continue with Google",
		NamePlaceholder:     "Full Name",
		EmailPlaceholder:    "Email Address",
		PasswordPlaceholder: "Password",
	}
	if m == ModeRegister {
		c.Subtitle = "Create an account to find your dream home."
		c.SubmitLabel = "Register"
		c.ToggleLabel = "Already have an account? Login"
		c.ShowName = true
		return c
	}
	c.Subtitle = "Sign in to continue managing properties."
	c.SubmitLabel = "Login"
	c.ToggleLabel = "Don't have an account? Register"
	return c
}

func failureMessage(m Mode) string {
	if m == ModeRegister {
		return MsgRegisterFailed
	}
	return MsgLoginFailed
}
